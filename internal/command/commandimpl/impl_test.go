package commandimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/squirrel-collector/internal/collector"
	mock_collector "github.com/orgball2608/squirrel-collector/internal/collector/mocks"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	mock_feishu "github.com/orgball2608/squirrel-collector/internal/feishu/mocks"
	"github.com/orgball2608/squirrel-collector/internal/message"
	"github.com/orgball2608/squirrel-collector/internal/ratelimit"
	mock_post "github.com/orgball2608/squirrel-collector/internal/repositories/post/mocks"
	mock_settings "github.com/orgball2608/squirrel-collector/internal/repositories/settings/mocks"
	mock_telegram "github.com/orgball2608/squirrel-collector/internal/telegram/mocks"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	owner  int64 = 42
	chatID int64 = 4242
)

type env struct {
	cmd       *CommandImpl
	tg        *mock_telegram.MockClient
	collector *mock_collector.MockClient
	posts     *mock_post.MockRepository
	settings  *mock_settings.MockRepository
	feishu    *mock_feishu.MockClient
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctrl := gomock.NewController(t)
	e := env{
		tg:        mock_telegram.NewMockClient(ctrl),
		collector: mock_collector.NewMockClient(ctrl),
		posts:     mock_post.NewMockRepository(ctrl),
		settings:  mock_settings.NewMockRepository(ctrl),
		feishu:    mock_feishu.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Telegram.User = owner

	d := message.NewDispatcher(message.Opts{
		Logger:       logger.Nop(),
		Collector:    e.collector,
		PostRepo:     e.posts,
		SettingsRepo: e.settings,
		Feishu:       e.feishu,
	})
	e.cmd = New(Opts{Telegram: e.tg, Dispatcher: d, Logger: logger.Nop(), Config: cfg})
	return e
}

func commandUpdate(from int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func TestCapture(t *testing.T) {
	e := newEnv(t)
	const url = "https://x.com/alice/status/1"
	post := domain.CapturedPost{
		ID: "p1", Author: "Alice", AuthorHandle: "alice", Platform: domain.PlatformTwitter,
		TextContent: "hello.", CanonicalURL: url, Engagement: domain.EngagementCounts{Likes: 1234},
	}

	gomock.InOrder(
		e.tg.EXPECT().SendMessage(chatID, "Capturing "+url+"... ⏳").Return(7, nil),
		e.collector.EXPECT().CaptureURL(gomock.Any(), url).Return(post, nil),
		e.tg.EXPECT().EditMessageText(chatID, 7, "✅ Captured.").Return(nil),
		e.tg.EXPECT().SendMarkdown(chatID, gomock.Any()).DoAndReturn(func(_ int64, text string) (int, error) {
			assert.Contains(t, text, "*Alice* \\(@alice\\)")
			assert.Contains(t, text, "hello\\.")
			assert.Contains(t, text, "1,234")
			return 8, nil
		}),
	)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/capture "+url)))
}

func TestCapture_FailureIsShown(t *testing.T) {
	e := newEnv(t)
	e.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(7, nil)
	e.collector.EXPECT().CaptureURL(gomock.Any(), gomock.Any()).Return(domain.CapturedPost{}, errors.New("no text and no media"))
	e.tg.EXPECT().EditMessageText(chatID, 7, "❌ Capture failed: no text and no media").Return(nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/capture https://x.com/a/status/2")))
}

func TestCapture_NoPostIsNotAnError(t *testing.T) {
	e := newEnv(t)
	e.tg.EXPECT().SendMessage(chatID, gomock.Any()).Return(7, nil)
	miss := apperrors.WrapWithCode(collector.ErrNoPost, apperrors.CodeExtractionMiss, "find main post")
	e.collector.EXPECT().CaptureURL(gomock.Any(), gomock.Any()).Return(domain.CapturedPost{}, miss)
	e.tg.EXPECT().EditMessageText(chatID, 7, "🤷 No post found on that page.").Return(nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/capture https://x.com/home")))
}

func TestCapture_MissingURL(t *testing.T) {
	e := newEnv(t)
	e.tg.EXPECT().SendMessage(chatID, "Please provide a post URL: /capture <url>").Return(1, nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/capture")))
}

func TestContinuous(t *testing.T) {
	e := newEnv(t)
	e.collector.EXPECT().SetContinuous(gomock.Any(), true).Return(nil)
	e.tg.EXPECT().SendMessage(chatID, "Continuous capture is on.").Return(1, nil)
	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/continuous on")))

	e.collector.EXPECT().Continuous(gomock.Any()).Return(false, nil)
	e.tg.EXPECT().SendMessage(chatID, "Continuous capture is off.").Return(2, nil)
	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/continuous")))

	e.tg.EXPECT().SendMessage(chatID, "Usage: /continuous on|off").Return(3, nil)
	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/continuous maybe")))
}

func TestPosts(t *testing.T) {
	e := newEnv(t)
	e.posts.EXPECT().List(gomock.Any(), uint64(3)).Return([]domain.CapturedPost{
		{Author: "Alice", TextContent: "raw", CanonicalURL: "https://x.com/a/status/1", Enrichment: &domain.EnrichmentResult{SummaryText: "sum"}},
	}, nil)
	e.tg.EXPECT().SendMarkdown(chatID, "1\\. *Alice*: sum [↗](https://x.com/a/status/1)\n").Return(1, nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/posts 3")))
}

func TestSync(t *testing.T) {
	e := newEnv(t)
	s := domain.DefaultSettings()
	s.Feishu = &domain.FeishuSettings{AppID: "a", AppSecret: "s", DocToken: "d"}

	e.tg.EXPECT().SendMessage(chatID, "Syncing to Feishu... ⏳").Return(9, nil)
	e.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
	e.posts.EXPECT().List(gomock.Any(), uint64(0)).Return([]domain.CapturedPost{{ID: "1"}, {ID: "2"}}, nil)
	e.feishu.EXPECT().Sync(gomock.Any(), *s.Feishu, gomock.Any()).Return(nil)
	e.tg.EXPECT().EditMessageText(chatID, 9, "✅ Synced 2 post(s).").Return(nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/sync")))
}

func TestFeishuTest(t *testing.T) {
	e := newEnv(t)
	s := domain.DefaultSettings()
	s.Feishu = &domain.FeishuSettings{AppID: "a", AppSecret: "s"}

	e.settings.EXPECT().Get(gomock.Any()).Return(s, nil)
	e.feishu.EXPECT().TestConnection(gomock.Any(), "a", "s").Return(errors.New("app secret invalid"))
	e.tg.EXPECT().SendMessage(chatID, "❌ Feishu connection failed: app secret invalid").Return(1, nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/feishu_test")))
}

func TestIgnoresStrangers(t *testing.T) {
	e := newEnv(t)
	// no expectations: a reply would fail the test
	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(7, "/sync")))
}

func TestRateLimited(t *testing.T) {
	e := newEnv(t)
	e.cmd.Limiter = ratelimit.NewKeyed[int64](1, time.Hour, 1)

	e.tg.EXPECT().SendMessage(chatID, helpMessage).Return(1, nil)
	e.tg.EXPECT().SendMessage(chatID, "Too many commands, please slow down.").Return(2, nil)

	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/help")))
	require.NoError(t, e.cmd.processCommand(context.Background(), commandUpdate(owner, "/help")))
}
