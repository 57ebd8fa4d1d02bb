package domain

// Sighting is the reduced-fidelity capture produced in continuous mode. List
// views yield only title/summary; detail pages set IsDetailCapture and fill
// the content fields. Empty fields are treated as absent when merging.
type Sighting struct {
	ID                  string   `json:"id"`
	Platform            Platform `json:"platform"`
	Author              string   `json:"author,omitempty"`
	AuthorHandle        string   `json:"authorHandle,omitempty"`
	AuthorAvatarURL     string   `json:"authorAvatarUrl,omitempty"`
	AuthorProfileURL    string   `json:"authorProfileUrl,omitempty"`
	Title               string   `json:"title,omitempty"`
	Summary             string   `json:"summary,omitempty"`
	Content             string   `json:"content,omitempty"`
	CanonicalURL        string   `json:"canonicalUrl"`
	Thumbnail           string   `json:"thumbnail,omitempty"`
	MediaURLs           []string `json:"mediaUrls,omitempty"`
	CapturedAtEpochMs   int64    `json:"capturedAtEpochMs"`
	IsDetailCapture     bool     `json:"isDetailCapture"`
	AuthorFollowupText  string   `json:"authorFollowupText,omitempty"`
	OtherCommentsDigest string   `json:"otherCommentsDigest,omitempty"`
}

// Empty reports a sighting that carries neither text nor media.
func (s Sighting) Empty() bool {
	return s.Title == "" && s.Summary == "" && s.Content == "" && s.Thumbnail == "" && len(s.MediaURLs) == 0
}
