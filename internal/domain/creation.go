package domain

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneConcise      Tone = "concise"
	ToneDetailed     Tone = "detailed"
	ToneCustom       Tone = "custom"
)

type Length string

const (
	LengthShort    Length = "short"
	LengthStandard Length = "standard"
	LengthLong     Length = "long"
)

type CreationRequest struct {
	Topic        string   `json:"topic"`
	References   []string `json:"references"`
	Language     Language `json:"language"`
	Tone         Tone     `json:"tone"`
	CustomPrompt string   `json:"customPrompt,omitempty"`
	Length       Length   `json:"length"`
}
