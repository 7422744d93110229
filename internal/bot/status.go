package bot

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tunegrab/internal/logging"
	"tunegrab/internal/pipeline"
)

// statusNotifier renders pipeline progress into a single Telegram message
// edited in place. Identical consecutive texts are skipped so Telegram does
// not reject no-op edits.
type statusNotifier struct {
	send      sender
	chatID    int64
	messageID int
	logger    *slog.Logger
	lastText  string
}

// initialText is what the status message already says, so the first update
// with identical text is not re-sent (Telegram rejects no-op edits).
func newStatusNotifier(send sender, chatID int64, messageID int, initialText string, logger *slog.Logger) *statusNotifier {
	return &statusNotifier{
		send:      send,
		chatID:    chatID,
		messageID: messageID,
		logger:    logger,
		lastText:  initialText,
	}
}

// Update implements pipeline.Notifier.
func (n *statusNotifier) Update(p pipeline.Progress) {
	n.editText(renderStatus(p))
}

func (n *statusNotifier) editText(text string) {
	if text == "" || text == n.lastText {
		return
	}
	n.lastText = text
	if _, err := n.send.Send(tgbotapi.NewEditMessageText(n.chatID, n.messageID, text)); err != nil {
		n.logger.Debug("failed to edit status message",
			logging.Int64(logging.FieldChatID, n.chatID),
			logging.Error(err),
		)
	}
}

func renderStatus(p pipeline.Progress) string {
	switch p.Stage {
	case pipeline.StageClassifying, pipeline.StageProbing, pipeline.StageCheckingPolicy:
		return "🔍 Checking video..."
	case pipeline.StageRetrieving:
		if p.Percent > 0 {
			return fmt.Sprintf("📥 Downloading... %.0f%%", p.Percent)
		}
		return "📥 Downloading..."
	case pipeline.StageTranscoding:
		return "🎵 Converting to MP3..."
	case pipeline.StageAssembling:
		return "📦 Preparing file..."
	case pipeline.StageDelivering:
		return "📤 Uploading MP3 file..."
	case pipeline.StageDone:
		return "✅ Done! MP3 file sent."
	case pipeline.StageFailed:
		return p.Message
	}
	return ""
}
