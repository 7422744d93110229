package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tunegrab/internal/config"
	"tunegrab/internal/links"
	"tunegrab/internal/logging"
	"tunegrab/internal/pipeline"
)

// longPollSeconds is the Telegram getUpdates long-poll window. The HTTP
// client timeout must stay comfortably above it.
const longPollSeconds = 30

const invalidLinkText = "❌ Invalid YouTube URL. Please send a valid YouTube link.\n\n" +
	"Examples:\n" +
	"• https://www.youtube.com/watch?v=dQw4w9WgXcQ\n" +
	"• https://youtu.be/dQw4w9WgXcQ"

// sender is the slice of the Telegram API the bot needs for outbound calls.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot long-polls Telegram for messages and hands each one to the pipeline,
// editing a per-request status message in place as stages advance.
type Bot struct {
	api    *tgbotapi.BotAPI
	runner *pipeline.Runner
	cfg    *config.Config
	logger *slog.Logger
	wg     sync.WaitGroup
}

// New authenticates against the Telegram API and returns a ready Bot.
func New(cfg *config.Config, runner *pipeline.Runner, logger *slog.Logger) (*Bot, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("bot requires config and runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &http.Client{Timeout: httpTimeout(cfg)}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}
	return &Bot{
		api:    api,
		runner: runner,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "bot"),
	}, nil
}

// httpTimeout sizes the shared HTTP client: uploads need the full handoff
// window, and getUpdates holds the connection open for longPollSeconds, so a
// short handoff timeout must not cut the poll off mid-request.
func httpTimeout(cfg *config.Config) time.Duration {
	const pollFloor = (longPollSeconds + 15) * time.Second
	if t := cfg.HandoffTimeout(); t > pollFloor {
		return t
	}
	return pollFloor
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// requests to finish. Each text message runs on its own goroutine with its
// own workspace.
func (b *Bot) Run(ctx context.Context) error {
	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = longPollSeconds
	updates := b.api.GetUpdatesChan(updateCfg)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	b.logger.Info("bot polling started", logging.String("username", b.Username()))
	for update := range updates {
		msg := update.Message
		if msg == nil || strings.TrimSpace(msg.Text) == "" {
			continue
		}
		if msg.IsCommand() {
			b.handleCommand(msg)
			continue
		}
		b.wg.Add(1)
		go func(m *tgbotapi.Message) {
			defer b.wg.Done()
			b.handleMessage(ctx, m)
		}(msg)
	}

	b.wg.Wait()
	b.logger.Info("bot polling stopped")
	return nil
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText(b.cfg))
		if _, err := b.api.Send(reply); err != nil {
			b.logger.Warn("failed to send welcome message", logging.Error(err))
		}
	default:
		// unknown commands are ignored, matching plain-text handling
	}
}

// initialStatusText is the status message created before the pipeline
// starts; the notifier is seeded with it so the Classifying stage does not
// re-send the same text.
const initialStatusText = "🔍 Checking video..."

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	status, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, initialStatusText))
	if err != nil {
		b.logger.Warn("failed to create status message",
			logging.Int64(logging.FieldChatID, msg.Chat.ID),
			logging.Error(err),
		)
		return
	}

	notifier := newStatusNotifier(b.api, msg.Chat.ID, status.MessageID, initialStatusText, b.logger)
	req := pipeline.Request{ChatID: msg.Chat.ID, Text: msg.Text}
	deliver := func(ctx context.Context, artifact pipeline.Artifact) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := b.api.Send(newAudioMessage(msg.Chat.ID, artifact))
		return err
	}

	if err := b.runner.Run(ctx, req, notifier, deliver); errors.Is(err, links.ErrNotAURL) {
		notifier.editText(invalidLinkText)
	}
}

// newAudioMessage packages an artifact as a Telegram audio upload.
func newAudioMessage(chatID int64, artifact pipeline.Artifact) tgbotapi.AudioConfig {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(artifact.Path))
	audio.Title = artifact.Title
	audio.Performer = artifact.Uploader
	audio.Duration = artifact.Duration
	audio.Caption = artifact.Caption
	return audio
}

func welcomeText(cfg *config.Config) string {
	limits := "• Audio quality: 128 kbps MP3"
	if maxMinutes := cfg.Pipeline.MaxDurationSeconds / 60; maxMinutes > 0 {
		limits = fmt.Sprintf("• Maximum video length: %d minutes\n%s", maxMinutes, limits)
	}
	return "🎵 Welcome to YouTube to MP3 Converter Bot!\n\n" +
		"Send me a YouTube video link and I'll convert it to MP3 format.\n\n" +
		"📋 Supported formats:\n" +
		"• youtube.com/watch?v=...\n" +
		"• youtu.be/...\n\n" +
		"⚠️ Limitations:\n" +
		limits
}
