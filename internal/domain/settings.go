package domain

type DocType string

const (
	DocTypeDoc   DocType = "doc"
	DocTypeDocx  DocType = "docx"
	DocTypeSheet DocType = "sheet"
	DocTypeWiki  DocType = "wiki"
)

type Language string

const (
	LanguageZh Language = "zh"
	LanguageEn Language = "en"
	LanguageJa Language = "ja"
	LanguageKo Language = "ko"
)

type FeishuSettings struct {
	AppID     string  `json:"appId,omitempty"`
	AppSecret string  `json:"appSecret,omitempty"`
	DocToken  string  `json:"docToken,omitempty"`
	DocType   DocType `json:"docType,omitempty"`
	AutoSync  bool    `json:"autoSync,omitempty"`
}

// Complete reports whether enough is configured to talk to a document.
func (f *FeishuSettings) Complete() bool {
	return f != nil && f.AppID != "" && f.AppSecret != "" && f.DocToken != ""
}

type Settings struct {
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
	Model    string `json:"model"`

	VisionModel   string `json:"visionModel,omitempty"`
	VisionAPIKey  string `json:"visionApiKey,omitempty"`
	VisionBaseURL string `json:"visionBaseUrl,omitempty"`

	DefaultLanguage      Language `json:"defaultLanguage"`
	CustomSummaryPrompt  string   `json:"customSummaryPrompt,omitempty"`
	CustomCreationPrompt string   `json:"customCreationPrompt,omitempty"`

	EnableImageRecognition  bool `json:"enableImageRecognition,omitempty"`
	EnableCommentCollection bool `json:"enableCommentCollection,omitempty"`
	ShowFloatingButton      bool `json:"showFloatingButton"`

	Feishu *FeishuSettings `json:"feishu,omitempty"`
}

// DefaultSettings is what a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Provider:           "openai",
		Model:              "gpt-4o",
		DefaultLanguage:    LanguageZh,
		ShowFloatingButton: true,
	}
}

// Vision returns the credentials for image recognition, falling back to the
// main ones for every unset field.
func (s Settings) Vision() (apiKey, baseURL, model string) {
	apiKey, baseURL, model = s.VisionAPIKey, s.VisionBaseURL, s.VisionModel
	if apiKey == "" {
		apiKey = s.APIKey
	}
	if baseURL == "" {
		baseURL = s.BaseURL
	}
	if model == "" {
		model = s.Model
	}
	return apiKey, baseURL, model
}

// AutoSyncReady reports whether a finished enrichment should be exported.
func (s Settings) AutoSyncReady() bool {
	return s.Feishu.Complete() && s.Feishu.AutoSync
}
