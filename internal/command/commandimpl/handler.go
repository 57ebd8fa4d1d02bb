package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/squirrel-collector/internal/message"
)

const helpMessage = `👋 Squirrel collector

/capture <url> - capture a Twitter/X or Xiaohongshu post
/continuous on|off - toggle continuous capture, no argument shows the state
/posts [n] - list the latest captured posts
/sync - export every stored post to the Feishu document
/feishu_test - check the saved Feishu credentials

Type /help at any time to see this guide.`

const commandTimeout = 5 * time.Minute

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			go func(u tgbotapi.Update) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
					}
				}()
				if err := c.processCommand(ctx, u); err != nil {
					c.Logger.Error("Error processing command", "command", u.Message.Command(), "error", err)
				}
			}(update)
		}
	}
}

func (c *CommandImpl) processCommand(ctx context.Context, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	command := update.Message.Command()
	args := strings.TrimSpace(update.Message.CommandArguments())

	if owner := c.Config.Telegram.User; owner != 0 && (update.Message.From == nil || update.Message.From.ID != owner) {
		c.Logger.Warn("Ignoring command from unknown user", "chat_id", chatID, "command", command)
		return nil
	}
	if !c.Limiter.Allow(chatID) {
		_, err := c.Telegram.SendMessage(chatID, "Too many commands, please slow down.")
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch command {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "capture":
		return c.handleCapture(ctx, chatID, args)
	case "continuous":
		return c.handleContinuous(ctx, chatID, args)
	case "posts":
		return c.handlePosts(ctx, chatID, args)
	case "sync":
		return c.handleSync(ctx, chatID)
	case "feishu_test":
		return c.handleFeishuTest(ctx, chatID)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}

func (c *CommandImpl) handleCapture(ctx context.Context, chatID int64, args string) error {
	if args == "" {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a post URL: /capture <url>")
		return err
	}

	sentMsgID, err := c.Telegram.SendMessage(chatID, fmt.Sprintf("Capturing %s... ⏳", args))
	if err != nil {
		return fmt.Errorf("failed to send initial message: %w", err)
	}

	resp := c.Dispatcher.Dispatch(ctx, message.CaptureURL{URL: args})
	if !resp.Success && !resp.Notify {
		return c.Telegram.EditMessageText(chatID, sentMsgID, "🤷 No post found on that page.")
	}
	if !resp.Success {
		return c.Telegram.EditMessageText(chatID, sentMsgID, "❌ Capture failed: "+resp.Error)
	}

	post, ok := asPost(resp.Data)
	if !ok {
		return c.Telegram.EditMessageText(chatID, sentMsgID, "✅ Captured.")
	}
	_ = c.Telegram.EditMessageText(chatID, sentMsgID, "✅ Captured.")
	_, err = c.Telegram.SendMarkdown(chatID, postCard(post))
	return err
}

func (c *CommandImpl) handleContinuous(ctx context.Context, chatID int64, args string) error {
	var msg message.Message
	switch strings.ToLower(args) {
	case "":
		msg = message.GetContinuousMode{}
	case "on":
		msg = message.SetContinuousMode{Enabled: true}
	case "off":
		msg = message.SetContinuousMode{Enabled: false}
	default:
		_, err := c.Telegram.SendMessage(chatID, "Usage: /continuous on|off")
		return err
	}

	resp := c.Dispatcher.Dispatch(ctx, msg)
	if !resp.Success {
		_, err := c.Telegram.SendMessage(chatID, "❌ "+resp.Error)
		return err
	}
	state := "off"
	if m, ok := resp.Data.(map[string]bool); ok && m["enabled"] {
		state = "on"
	}
	_, err := c.Telegram.SendMessage(chatID, "Continuous capture is "+state+".")
	return err
}

func (c *CommandImpl) handlePosts(ctx context.Context, chatID int64, args string) error {
	limit := uint64(5)
	if args != "" {
		n, err := strconv.ParseUint(args, 10, 64)
		if err != nil || n == 0 {
			_, err := c.Telegram.SendMessage(chatID, "Usage: /posts [n]")
			return err
		}
		limit = min(n, 20)
	}

	resp := c.Dispatcher.Dispatch(ctx, message.ListPosts{Limit: limit})
	if !resp.Success {
		_, err := c.Telegram.SendMessage(chatID, "❌ "+resp.Error)
		return err
	}

	posts, _ := asPosts(resp.Data)
	if len(posts) == 0 {
		_, err := c.Telegram.SendMessage(chatID, "No posts captured yet.")
		return err
	}
	_, err := c.Telegram.SendMarkdown(chatID, postList(posts))
	return err
}

func (c *CommandImpl) handleSync(ctx context.Context, chatID int64) error {
	sentMsgID, err := c.Telegram.SendMessage(chatID, "Syncing to Feishu... ⏳")
	if err != nil {
		return fmt.Errorf("failed to send initial message: %w", err)
	}

	resp := c.Dispatcher.Dispatch(ctx, message.SyncToFeishu{})
	if !resp.Success {
		return c.Telegram.EditMessageText(chatID, sentMsgID, "❌ Sync failed: "+resp.Error)
	}
	synced := 0
	if m, ok := resp.Data.(map[string]int); ok {
		synced = m["synced"]
	}
	return c.Telegram.EditMessageText(chatID, sentMsgID, fmt.Sprintf("✅ Synced %d post(s).", synced))
}

func (c *CommandImpl) handleFeishuTest(ctx context.Context, chatID int64) error {
	resp := c.Dispatcher.Dispatch(ctx, message.GetSettings{})
	if !resp.Success {
		_, err := c.Telegram.SendMessage(chatID, "❌ "+resp.Error)
		return err
	}

	var appID, appSecret string
	if s, ok := asSettings(resp.Data); ok && s.Feishu != nil {
		appID, appSecret = s.Feishu.AppID, s.Feishu.AppSecret
	}

	resp = c.Dispatcher.Dispatch(ctx, message.FeishuTestConnection{AppID: appID, AppSecret: appSecret})
	text := "✅ Feishu connection works."
	if !resp.Success {
		text = "❌ Feishu connection failed: " + resp.Error
	}
	_, err := c.Telegram.SendMessage(chatID, text)
	return err
}
