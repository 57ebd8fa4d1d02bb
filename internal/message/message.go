// Package message defines the request vocabulary shared by every transport
// and dispatches decoded requests to the collector and its collaborators.
package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/domain"
)

var (
	ErrUnknownType    = errors.New("unknown message type")
	ErrInvalidPayload = errors.New("invalid message payload")
)

type Type string

const (
	TypeCaptureURL           Type = "capture_url"
	TypeCapturePage          Type = "capture_page"
	TypeSightPage            Type = "sight_page"
	TypeSetContinuousMode    Type = "set_continuous_mode"
	TypeGetContinuousMode    Type = "get_continuous_mode"
	TypeGetSightings         Type = "get_sightings"
	TypeClearSightings       Type = "clear_sightings"
	TypeSyncToFeishu         Type = "sync_to_feishu"
	TypeFeishuTestConnection Type = "feishu_test_connection"
	TypeGeneratePosts        Type = "generate_posts"
	TypeListPosts            Type = "list_posts"
	TypeDeletePost           Type = "delete_post"
	TypeGetSettings          Type = "get_settings"
	TypeSaveSettings         Type = "save_settings"
	TypeAttachSession        Type = "attach_session"
	TypeNavigateSession      Type = "navigate_session"
	TypeFocusPost            Type = "focus_post"
	TypeDetachSession        Type = "detach_session"
)

// Envelope is the wire form: a type tag and a type-specific payload.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message is implemented only by the request types in this package.
type Message interface {
	Type() Type
	isMessage()
}

type CaptureURL struct {
	URL string `json:"url"`
}

type CapturePage struct {
	collector.Page
}

type SightPage struct {
	collector.Page
}

type SetContinuousMode struct {
	Enabled bool `json:"enabled"`
}

type GetContinuousMode struct{}

type GetSightings struct{}

type ClearSightings struct{}

// SyncToFeishu exports the listed posts, or every stored post when PostIDs
// is empty.
type SyncToFeishu struct {
	PostIDs []string `json:"postIds,omitempty"`
}

type FeishuTestConnection struct {
	AppID     string `json:"appId"`
	AppSecret string `json:"appSecret"`
}

type GeneratePosts struct {
	domain.CreationRequest
}

type ListPosts struct {
	Limit uint64 `json:"limit,omitempty"`
}

type DeletePost struct {
	ID string `json:"id"`
}

type GetSettings struct{}

type SaveSettings struct {
	Settings domain.Settings `json:"settings"`
}

type AttachSession struct {
	URL string `json:"url"`
}

type NavigateSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type FocusPost struct {
	SessionID string `json:"sessionId"`
	Selector  string `json:"selector"`
}

type DetachSession struct {
	SessionID string `json:"sessionId"`
}

func (CaptureURL) Type() Type           { return TypeCaptureURL }
func (CapturePage) Type() Type          { return TypeCapturePage }
func (SightPage) Type() Type            { return TypeSightPage }
func (SetContinuousMode) Type() Type    { return TypeSetContinuousMode }
func (GetContinuousMode) Type() Type    { return TypeGetContinuousMode }
func (GetSightings) Type() Type         { return TypeGetSightings }
func (ClearSightings) Type() Type       { return TypeClearSightings }
func (SyncToFeishu) Type() Type         { return TypeSyncToFeishu }
func (FeishuTestConnection) Type() Type { return TypeFeishuTestConnection }
func (GeneratePosts) Type() Type        { return TypeGeneratePosts }
func (ListPosts) Type() Type            { return TypeListPosts }
func (DeletePost) Type() Type           { return TypeDeletePost }
func (GetSettings) Type() Type          { return TypeGetSettings }
func (SaveSettings) Type() Type         { return TypeSaveSettings }
func (AttachSession) Type() Type        { return TypeAttachSession }
func (NavigateSession) Type() Type      { return TypeNavigateSession }
func (FocusPost) Type() Type            { return TypeFocusPost }
func (DetachSession) Type() Type        { return TypeDetachSession }

func (CaptureURL) isMessage()           {}
func (CapturePage) isMessage()          {}
func (SightPage) isMessage()            {}
func (SetContinuousMode) isMessage()    {}
func (GetContinuousMode) isMessage()    {}
func (GetSightings) isMessage()         {}
func (ClearSightings) isMessage()       {}
func (SyncToFeishu) isMessage()         {}
func (FeishuTestConnection) isMessage() {}
func (GeneratePosts) isMessage()        {}
func (ListPosts) isMessage()            {}
func (DeletePost) isMessage()           {}
func (GetSettings) isMessage()          {}
func (SaveSettings) isMessage()         {}
func (AttachSession) isMessage()        {}
func (NavigateSession) isMessage()      {}
func (FocusPost) isMessage()            {}
func (DetachSession) isMessage()        {}

type decoder func(json.RawMessage) (Message, error)

func decodeAs[T Message](payload json.RawMessage) (Message, error) {
	var msg T
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

var decoders = map[Type]decoder{
	TypeCaptureURL:           decodeAs[CaptureURL],
	TypeCapturePage:          decodeAs[CapturePage],
	TypeSightPage:            decodeAs[SightPage],
	TypeSetContinuousMode:    decodeAs[SetContinuousMode],
	TypeGetContinuousMode:    decodeAs[GetContinuousMode],
	TypeGetSightings:         decodeAs[GetSightings],
	TypeClearSightings:       decodeAs[ClearSightings],
	TypeSyncToFeishu:         decodeAs[SyncToFeishu],
	TypeFeishuTestConnection: decodeAs[FeishuTestConnection],
	TypeGeneratePosts:        decodeAs[GeneratePosts],
	TypeListPosts:            decodeAs[ListPosts],
	TypeDeletePost:           decodeAs[DeletePost],
	TypeGetSettings:          decodeAs[GetSettings],
	TypeSaveSettings:         decodeAs[SaveSettings],
	TypeAttachSession:        decodeAs[AttachSession],
	TypeNavigateSession:      decodeAs[NavigateSession],
	TypeFocusPost:            decodeAs[FocusPost],
	TypeDetachSession:        decodeAs[DetachSession],
}

// Decode turns an envelope into its message. Unknown types are rejected.
func Decode(env Envelope) (Message, error) {
	decode, ok := decoders[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	msg, err := decode(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Type, err)
	}
	return msg, nil
}
