package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tunegrab/internal/config"
)

const userAgent = "tunegrab/0.1.0"

// Service defines the operator alert surface exposed to the daemon. These are
// out-of-band notifications for whoever runs the bot, not messages to chat
// users.
type Service interface {
	BotStarted(ctx context.Context, username string) error
	ConversionCompleted(ctx context.Context, title string, sizeBytes int64) error
	ConversionFailed(ctx context.Context, videoID string, cause error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) BotStarted(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	data := payload{
		title:   "tunegrab - Started",
		message: fmt.Sprintf("Bot @%s is polling for requests", username),
		tags:    []string{"tunegrab", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) ConversionCompleted(ctx context.Context, title string, sizeBytes int64) error {
	title = strings.TrimSpace(title)
	data := payload{
		title:   "tunegrab - Converted",
		message: fmt.Sprintf("🎵 Delivered: %s (%.1f MiB)", title, float64(sizeBytes)/(1<<20)),
		tags:    []string{"tunegrab", "conversion", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) ConversionFailed(ctx context.Context, videoID string, cause error) error {
	var builder strings.Builder
	builder.WriteString("❌ Conversion failed")
	if videoID = strings.TrimSpace(videoID); videoID != "" {
		builder.WriteString(" for ")
		builder.WriteString(videoID)
	}
	builder.WriteString(": ")
	if cause != nil {
		builder.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "tunegrab - Error",
		message:  builder.String(),
		tags:     []string{"tunegrab", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "tunegrab - Test",
		message:  "Notification system test",
		tags:     []string{"tunegrab", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) BotStarted(context.Context, string) error                  { return nil }
func (noopService) ConversionCompleted(context.Context, string, int64) error  { return nil }
func (noopService) ConversionFailed(context.Context, string, error) error     { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
