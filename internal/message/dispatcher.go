package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/squirrel-collector/internal/collector"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/feishu"
	"github.com/orgball2608/squirrel-collector/internal/llm"
	"github.com/orgball2608/squirrel-collector/internal/repositories/post"
	"github.com/orgball2608/squirrel-collector/internal/repositories/settings"
	apperrors "github.com/orgball2608/squirrel-collector/pkg/errors"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
	"go.uber.org/fx"
)

// Response is what every transport sends back.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	// Notify is false for failures that are absorbed rather than shown,
	// such as a page with no post on it.
	Notify bool `json:"notify"`
	Data   any  `json:"data,omitempty"`
}

func ok(data any) Response {
	return Response{Success: true, Data: data}
}

func fail(err error) Response {
	return Response{Success: false, Error: err.Error(), Code: apperrors.GetCode(err), Notify: apperrors.Surfaced(err)}
}

type Opts struct {
	fx.In

	Logger       logger.Logger
	Collector    collector.Client
	PostRepo     post.Repository
	SettingsRepo settings.Repository
	Feishu       feishu.Client
	LLM          llm.Client
}

type Dispatcher struct {
	logger    logger.Logger
	collector collector.Client
	posts     post.Repository
	settings  settings.Repository
	feishu    feishu.Client
	llm       llm.Client
}

func NewDispatcher(opts Opts) *Dispatcher {
	return &Dispatcher{
		logger:    opts.Logger.WithComponent("Dispatcher"),
		collector: opts.Collector,
		posts:     opts.PostRepo,
		settings:  opts.SettingsRepo,
		feishu:    opts.Feishu,
		llm:       opts.LLM,
	}
}

// DispatchEnvelope decodes and dispatches in one step.
func (d *Dispatcher) DispatchEnvelope(ctx context.Context, env Envelope) Response {
	msg, err := Decode(env)
	if err != nil {
		return fail(err)
	}
	return d.Dispatch(ctx, msg)
}

// Dispatch runs the request to completion and reports the outcome. Every
// request arriving here is user-initiated, so failures are returned rather
// than swallowed; Notify tells the transport whether to show them.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Response {
	data, err := d.handle(ctx, msg)
	if err != nil {
		resp := fail(err)
		if resp.Notify {
			d.logger.Warn("Request failed", "type", msg.Type(), "code", resp.Code, "error", err)
		} else {
			d.logger.Debug("Request degraded", "type", msg.Type(), "code", resp.Code, "error", err)
		}
		return resp
	}
	return ok(data)
}

func (d *Dispatcher) handle(ctx context.Context, msg Message) (any, error) {
	switch m := msg.(type) {
	case CaptureURL:
		if strings.TrimSpace(m.URL) == "" {
			return nil, fmt.Errorf("%w: url is required", ErrInvalidPayload)
		}
		return d.collector.CaptureURL(ctx, m.URL)
	case CapturePage:
		if m.URL == "" || m.HTML == "" {
			return nil, fmt.Errorf("%w: url and html are required", ErrInvalidPayload)
		}
		return d.collector.CapturePage(ctx, m.Page)
	case SightPage:
		return d.collector.SightPage(ctx, m.Page)
	case SetContinuousMode:
		if err := d.collector.SetContinuous(ctx, m.Enabled); err != nil {
			return nil, err
		}
		return map[string]bool{"enabled": m.Enabled}, nil
	case GetContinuousMode:
		on, err := d.collector.Continuous(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"enabled": on}, nil
	case GetSightings:
		items, err := d.collector.Sightings(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Sighting{}
		}
		return items, nil
	case ClearSightings:
		return nil, d.collector.ClearSightings(ctx)
	case SyncToFeishu:
		return d.syncToFeishu(ctx, m)
	case FeishuTestConnection:
		if m.AppID == "" || m.AppSecret == "" {
			return nil, feishu.ErrIncomplete
		}
		return nil, d.feishu.TestConnection(ctx, m.AppID, m.AppSecret)
	case GeneratePosts:
		return d.generatePosts(ctx, m)
	case ListPosts:
		posts, err := d.posts.List(ctx, m.Limit)
		if err != nil {
			return nil, err
		}
		if posts == nil {
			posts = []domain.CapturedPost{}
		}
		return posts, nil
	case DeletePost:
		return nil, d.posts.Delete(ctx, m.ID)
	case GetSettings:
		return d.settings.Get(ctx)
	case SaveSettings:
		s, err := normalizeFeishu(m.Settings)
		if err != nil {
			return nil, err
		}
		if err := d.settings.Save(ctx, s); err != nil {
			return nil, err
		}
		return s, nil
	case AttachSession:
		return map[string]string{"sessionId": d.collector.Attach(m.URL)}, nil
	case NavigateSession:
		return nil, d.collector.Navigate(m.SessionID, m.URL)
	case FocusPost:
		return nil, d.collector.Focus(m.SessionID, m.Selector)
	case DetachSession:
		d.collector.Detach(m.SessionID)
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}
}

func (d *Dispatcher) syncToFeishu(ctx context.Context, m SyncToFeishu) (any, error) {
	current, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !current.Feishu.Complete() {
		return nil, apperrors.WrapWithCode(feishu.ErrIncomplete, apperrors.CodeSyncFailed, "sync to feishu")
	}

	var posts []domain.CapturedPost
	if len(m.PostIDs) > 0 {
		posts, err = d.posts.ListByIDs(ctx, m.PostIDs)
	} else {
		posts, err = d.posts.List(ctx, 0)
	}
	if err != nil {
		return nil, err
	}

	if err := d.feishu.Sync(ctx, *current.Feishu, posts); err != nil {
		return nil, err
	}
	return map[string]int{"synced": len(posts)}, nil
}

func (d *Dispatcher) generatePosts(ctx context.Context, m GeneratePosts) (any, error) {
	if strings.TrimSpace(m.Topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidPayload)
	}
	current, err := d.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var refs []domain.CapturedPost
	if len(m.References) > 0 {
		if refs, err = d.posts.ListByIDs(ctx, m.References); err != nil {
			return nil, err
		}
	}

	drafts, err := d.llm.GeneratePosts(ctx, current, m.CreationRequest, refs)
	if err != nil {
		return nil, err
	}
	return map[string][]string{"drafts": drafts}, nil
}

// normalizeFeishu accepts a share link in place of a bare document token.
func normalizeFeishu(s domain.Settings) (domain.Settings, error) {
	if s.Feishu == nil || !strings.Contains(s.Feishu.DocToken, "/") {
		return s, nil
	}
	ref, err := feishu.ParseDocURL(s.Feishu.DocToken)
	if err != nil {
		return s, err
	}
	f := *s.Feishu
	f.DocToken, f.DocType = ref.Token, ref.Type
	s.Feishu = &f
	return s, nil
}

var Module = fx.Module("message", fx.Provide(NewDispatcher))
