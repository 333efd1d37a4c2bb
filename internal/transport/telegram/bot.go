package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fieldworks/matchbot/internal/config"
	"github.com/fieldworks/matchbot/internal/service/orchestrator"
	"github.com/fieldworks/matchbot/pkg/conv"
	"github.com/fieldworks/matchbot/pkg/log"
	"github.com/fieldworks/matchbot/pkg/split"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// maxMsgLen keeps a safety margin below Telegram's 4096 character cap.
const maxMsgLen = 4000

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	engine  *orchestrator.Engine
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	engine *orchestrator.Engine,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		engine:  engine,
		ownerID: cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: restrict to the owner when one is configured
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if bot.ownerID != 0 && c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	threadID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	answer, err := b.engine.Run(ctx, threadID, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("thread", threadID).Msg("turn failed")
		return c.Send("Sorry, I encountered an error processing your question. Please try again.")
	}

	return b.sendTo(ctx, c.Chat(), answer)
}

// Deliver sends an answer to a chat outside a handler, for turns that
// were processed off the request path. The destination is the chat id.
func (b *Bot) Deliver(ctx context.Context, destination, text string) error {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return fmt.Errorf("bad telegram destination %q: %w", destination, err)
	}
	return b.sendTo(ctx, tele.ChatID(chatID), text)
}

func (b *Bot) sendTo(ctx context.Context, to tele.Recipient, md string) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
	if html == "" {
		return nil
	}

	for i, chunk := range split.Sentences(html, maxMsgLen) {
		if _, err := b.bot.Send(to, chunk, tele.ModeHTML); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}
