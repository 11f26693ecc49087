package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrEmptyTranscript is returned when speech-to-text produced no text.
var ErrEmptyTranscript = errors.New("empty transcript")

// Backend is the capability every LLM provider offers to the dispatcher:
// a single system + user completion returning plain text.
type Backend interface {
	Name() string
	Model() string
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// Transcriber turns audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Transcoder converts media bytes between container formats.
type Transcoder interface {
	Transcode(ctx context.Context, data []byte, fromFormat, toFormat string) ([]byte, error)
}

// ActionTyping is the chat action shown while a request is processed.
const ActionTyping = "typing"

// Messenger is the subset of the chat platform API the dispatcher needs.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	// Relay forwards a media reference (file id, coordinates, contact card) to chatID.
	Relay(ctx context.Context, chatID int64, p Payload) error
	// DownloadFile resolves a platform file id and returns its bytes.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// JournalEntry is one row of the audit journal.
type JournalEntry struct {
	ID        int64
	EventID   string
	Direction string // in | out
	ChatID    int64
	Kind      string
	Text      string
	Mirrored  bool
	CreatedAt time.Time
}

// Journal records inbound events and outbound sends for auditing.
type Journal interface {
	RecordInbound(ctx context.Context, ev Event) error
	RecordOutbound(ctx context.Context, eventID string, chatID int64, text string, mirrored bool) error
}
