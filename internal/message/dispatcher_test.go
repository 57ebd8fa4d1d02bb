package message

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/orgball2608/squirrel-collector/internal/collector"
	mock_collector "github.com/orgball2608/squirrel-collector/internal/collector/mocks"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/feishu"
	mock_feishu "github.com/orgball2608/squirrel-collector/internal/feishu/mocks"
	mock_llm "github.com/orgball2608/squirrel-collector/internal/llm/mocks"
	mock_post "github.com/orgball2608/squirrel-collector/internal/repositories/post/mocks"
	mock_settings "github.com/orgball2608/squirrel-collector/internal/repositories/settings/mocks"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mocks struct {
	collector *mock_collector.MockClient
	posts     *mock_post.MockRepository
	settings  *mock_settings.MockRepository
	feishu    *mock_feishu.MockClient
	llm       *mock_llm.MockClient
}

func newDispatcher(t *testing.T) (*Dispatcher, mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks{
		collector: mock_collector.NewMockClient(ctrl),
		posts:     mock_post.NewMockRepository(ctrl),
		settings:  mock_settings.NewMockRepository(ctrl),
		feishu:    mock_feishu.NewMockClient(ctrl),
		llm:       mock_llm.NewMockClient(ctrl),
	}
	d := NewDispatcher(Opts{
		Logger:       logger.Nop(),
		Collector:    m.collector,
		PostRepo:     m.posts,
		SettingsRepo: m.settings,
		Feishu:       m.feishu,
		LLM:          m.llm,
	})
	return d, m
}

func envelope(t *testing.T, typ Type, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Type: typ, Payload: raw}
}

func TestDecode(t *testing.T) {
	msg, err := Decode(Envelope{Type: TypeCapturePage, Payload: json.RawMessage(`{"url":"https://x.com/a/status/1","html":"<html/>","focusSelector":"#p"}`)})
	require.NoError(t, err)
	page, ok := msg.(CapturePage)
	require.True(t, ok)
	assert.Equal(t, "https://x.com/a/status/1", page.URL)
	assert.Equal(t, "#p", page.FocusSelector)

	msg, err = Decode(Envelope{Type: TypeGetSightings})
	require.NoError(t, err)
	assert.Equal(t, GetSightings{}, msg)

	_, err = Decode(Envelope{Type: "explode"})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode(Envelope{Type: TypeDeletePost, Payload: json.RawMessage(`[1,2]`)})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecode_EveryTypeIsKnown(t *testing.T) {
	for typ := range decoders {
		msg, err := Decode(Envelope{Type: typ})
		require.NoError(t, err, typ)
		assert.Equal(t, typ, msg.Type())
	}
}

func TestDispatch_UnknownType(t *testing.T) {
	d, _ := newDispatcher(t)

	resp := d.DispatchEnvelope(context.Background(), Envelope{Type: "nope"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown message type")
}

func TestDispatch_CaptureURL(t *testing.T) {
	d, m := newDispatcher(t)
	want := domain.CapturedPost{ID: "p1"}
	m.collector.EXPECT().CaptureURL(gomock.Any(), "https://x.com/a/status/1").Return(want, nil)

	resp := d.DispatchEnvelope(context.Background(), envelope(t, TypeCaptureURL, CaptureURL{URL: "https://x.com/a/status/1"}))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, want, resp.Data)
}

func TestDispatch_CaptureRejectionCarriesCode(t *testing.T) {
	d, m := newDispatcher(t)
	rejected := apperrors.WrapWithCode(errors.New("no text and no media"), apperrors.CodeCaptureRejected, "normalize post")
	m.collector.EXPECT().CapturePage(gomock.Any(), gomock.Any()).Return(domain.CapturedPost{}, rejected)

	resp := d.Dispatch(context.Background(), CapturePage{Page: collector.Page{URL: "u", HTML: "<p/>"}})
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.CodeCaptureRejected, resp.Code)
	assert.True(t, resp.Notify)
}

func TestDispatch_ExtractionMissIsNotNotified(t *testing.T) {
	d, m := newDispatcher(t)
	miss := apperrors.WrapWithCode(collector.ErrNoPost, apperrors.CodeExtractionMiss, "find main post")
	m.collector.EXPECT().CaptureURL(gomock.Any(), "https://x.com/home").Return(domain.CapturedPost{}, miss)

	resp := d.Dispatch(context.Background(), CaptureURL{URL: "https://x.com/home"})
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.CodeExtractionMiss, resp.Code)
	assert.False(t, resp.Notify)
}

func TestDispatch_CapturePageRequiresHTML(t *testing.T) {
	d, _ := newDispatcher(t)

	resp := d.Dispatch(context.Background(), CapturePage{Page: collector.Page{URL: "u"}})
	assert.False(t, resp.Success)
}

func TestDispatch_ContinuousMode(t *testing.T) {
	d, m := newDispatcher(t)
	m.collector.EXPECT().SetContinuous(gomock.Any(), true).Return(nil)
	m.collector.EXPECT().Continuous(gomock.Any()).Return(true, nil)
	m.collector.EXPECT().Sightings(gomock.Any()).Return(nil, nil)

	ctx := context.Background()
	assert.True(t, d.Dispatch(ctx, SetContinuousMode{Enabled: true}).Success)
	assert.Equal(t, map[string]bool{"enabled": true}, d.Dispatch(ctx, GetContinuousMode{}).Data)
	assert.Equal(t, []domain.Sighting{}, d.Dispatch(ctx, GetSightings{}).Data)
}

func TestDispatch_SyncToFeishu(t *testing.T) {
	d, m := newDispatcher(t)
	fs := &domain.FeishuSettings{AppID: "a", AppSecret: "s", DocToken: "tok", DocType: domain.DocTypeDocx}
	s := domain.DefaultSettings()
	s.Feishu = fs

	posts := []domain.CapturedPost{{ID: "p1"}, {ID: "p2"}}
	m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
	m.posts.EXPECT().ListByIDs(gomock.Any(), []string{"p1", "p2"}).Return(posts, nil)
	m.feishu.EXPECT().Sync(gomock.Any(), *fs, posts).Return(nil)

	resp := d.Dispatch(context.Background(), SyncToFeishu{PostIDs: []string{"p1", "p2"}})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, map[string]int{"synced": 2}, resp.Data)
}

func TestDispatch_SyncIncompleteSettings(t *testing.T) {
	d, m := newDispatcher(t)
	m.settings.EXPECT().Get(gomock.Any()).Return(domain.DefaultSettings(), nil)

	resp := d.Dispatch(context.Background(), SyncToFeishu{})
	assert.False(t, resp.Success)
	assert.Equal(t, apperrors.CodeSyncFailed, resp.Code)
}

func TestDispatch_SyncFailureIsReturnedVerbatim(t *testing.T) {
	d, m := newDispatcher(t)
	s := domain.DefaultSettings()
	s.Feishu = &domain.FeishuSettings{AppID: "a", AppSecret: "s", DocToken: "tok"}
	m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
	m.posts.EXPECT().List(gomock.Any(), uint64(0)).Return([]domain.CapturedPost{{ID: "p"}}, nil)
	m.feishu.EXPECT().Sync(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("feishu api error 99991663: invalid token"))

	resp := d.Dispatch(context.Background(), SyncToFeishu{})
	assert.False(t, resp.Success)
	assert.Equal(t, "feishu api error 99991663: invalid token", resp.Error)
}

func TestDispatch_FeishuTestConnection(t *testing.T) {
	d, m := newDispatcher(t)
	m.feishu.EXPECT().TestConnection(gomock.Any(), "a", "s").Return(nil)

	assert.True(t, d.Dispatch(context.Background(), FeishuTestConnection{AppID: "a", AppSecret: "s"}).Success)
	assert.False(t, d.Dispatch(context.Background(), FeishuTestConnection{AppID: "a"}).Success)
}

func TestDispatch_GeneratePosts(t *testing.T) {
	d, m := newDispatcher(t)
	s := domain.DefaultSettings()
	s.APIKey = "k"
	refs := []domain.CapturedPost{{ID: "r1"}}
	req := domain.CreationRequest{Topic: "coffee", References: []string{"r1"}, Language: domain.LanguageEn}

	m.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
	m.posts.EXPECT().ListByIDs(gomock.Any(), []string{"r1"}).Return(refs, nil)
	m.llm.EXPECT().GeneratePosts(gomock.Any(), s, req, refs).Return([]string{"one", "two"}, nil)

	resp := d.Dispatch(context.Background(), GeneratePosts{CreationRequest: req})
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, map[string][]string{"drafts": {"one", "two"}}, resp.Data)
}

func TestDispatch_SaveSettingsParsesShareLink(t *testing.T) {
	d, m := newDispatcher(t)
	s := domain.DefaultSettings()
	s.Feishu = &domain.FeishuSettings{AppID: "a", AppSecret: "s", DocToken: "https://acme.feishu.cn/wiki/WikiTok123"}

	m.settings.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, saved domain.Settings) error {
		assert.Equal(t, "WikiTok123", saved.Feishu.DocToken)
		assert.Equal(t, domain.DocTypeWiki, saved.Feishu.DocType)
		return nil
	})

	resp := d.Dispatch(context.Background(), SaveSettings{Settings: s})
	require.True(t, resp.Success, resp.Error)
	// the caller's settings are not modified
	assert.Equal(t, "https://acme.feishu.cn/wiki/WikiTok123", s.Feishu.DocToken)
}

func TestDispatch_SaveSettingsBadLink(t *testing.T) {
	d, _ := newDispatcher(t)
	s := domain.DefaultSettings()
	s.Feishu = &domain.FeishuSettings{DocToken: "https://acme.feishu.cn/base/xyz"}

	resp := d.Dispatch(context.Background(), SaveSettings{Settings: s})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, feishu.ErrUnrecognizedURL.Error())
}

func TestDispatch_Sessions(t *testing.T) {
	d, m := newDispatcher(t)
	m.collector.EXPECT().Attach("https://x.com/home").Return("s1")
	m.collector.EXPECT().Navigate("s1", "https://x.com/a/status/1").Return(nil)
	m.collector.EXPECT().Focus("s1", "article:nth-of-type(2)").Return(collector.ErrSessionNotFound)
	m.collector.EXPECT().Detach("s1")

	ctx := context.Background()
	assert.Equal(t, map[string]string{"sessionId": "s1"}, d.Dispatch(ctx, AttachSession{URL: "https://x.com/home"}).Data)
	assert.True(t, d.Dispatch(ctx, NavigateSession{SessionID: "s1", URL: "https://x.com/a/status/1"}).Success)
	assert.False(t, d.Dispatch(ctx, FocusPost{SessionID: "s1", Selector: "article:nth-of-type(2)"}).Success)
	assert.True(t, d.Dispatch(ctx, DetachSession{SessionID: "s1"}).Success)
}

func TestDispatch_PostsAndSettings(t *testing.T) {
	d, m := newDispatcher(t)
	m.posts.EXPECT().List(gomock.Any(), uint64(20)).Return(nil, nil)
	m.posts.EXPECT().Delete(gomock.Any(), "p1").Return(nil)
	m.settings.EXPECT().Get(gomock.Any()).Return(domain.DefaultSettings(), nil)

	ctx := context.Background()
	assert.Equal(t, []domain.CapturedPost{}, d.Dispatch(ctx, ListPosts{Limit: 20}).Data)
	assert.True(t, d.Dispatch(ctx, DeletePost{ID: "p1"}).Success)
	assert.Equal(t, domain.DefaultSettings(), d.Dispatch(ctx, GetSettings{}).Data)
}
