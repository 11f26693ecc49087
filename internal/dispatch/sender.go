package dispatch

import (
	"context"
	"fmt"
	"unicode/utf8"

	"linguabot/internal/logging"
	"linguabot/internal/metrics"
)

// MaxMessageLength is the platform limit on one text message, in characters.
const MaxMessageLength = 4096

// Chunk splits text into contiguous pieces of at most size runes.
// The pieces concatenate back to text. Empty text yields one empty chunk.
func Chunk(text string, size int) []string {
	if size <= 0 || utf8.RuneCountInString(text) <= size {
		return []string{text}
	}
	var chunks []string
	for len(text) > 0 {
		n, i := 0, 0
		for i < len(text) && n < size {
			_, w := utf8.DecodeRuneInString(text[i:])
			i += w
			n++
		}
		chunks = append(chunks, text[:i])
		text = text[i:]
	}
	return chunks
}

func mirrorText(chatID int64, chunk string) string {
	prefix := fmt.Sprintf("ChatId: %d\nMessage: ", chatID)
	room := MaxMessageLength - utf8.RuneCountInString(prefix)
	if utf8.RuneCountInString(chunk) > room {
		chunk = Chunk(chunk, room-1)[0] + "…"
	}
	return prefix + chunk
}

// send delivers text to chatID in order-preserving chunks. Each chunk sent to
// a chat other than the operator chat is mirrored to the operator chat.
func (d *Dispatcher) send(ctx context.Context, eventID string, chatID int64, text string) error {
	for _, chunk := range Chunk(text, MaxMessageLength) {
		if err := d.messenger.SendText(ctx, chatID, chunk); err != nil {
			return err
		}
		metrics.OutboundMessagesTotal.Inc()

		mirrored := chatID != d.logChatID
		if mirrored {
			if err := d.messenger.SendText(ctx, d.logChatID, mirrorText(chatID, chunk)); err != nil {
				return fmt.Errorf("mirror to operator chat: %w", err)
			}
			metrics.MirroredMessagesTotal.Inc()
		}
		d.recordOutbound(ctx, eventID, chatID, chunk, mirrored)
	}
	return nil
}

// report sends a diagnostic line to the operator chat. Failures can only be logged.
func (d *Dispatcher) report(ctx context.Context, eventID, text string) {
	if err := d.send(ctx, eventID, d.logChatID, text); err != nil {
		logging.FromContext(ctx, d.logger).Error("operator report failed", "err", err, "report", text)
	}
}

func (d *Dispatcher) recordOutbound(ctx context.Context, eventID string, chatID int64, text string, mirrored bool) {
	if d.journal == nil {
		return
	}
	if err := d.journal.RecordOutbound(ctx, eventID, chatID, text, mirrored); err != nil {
		logging.FromContext(ctx, d.logger).Error("journal outbound failed", "err", err)
	}
}
