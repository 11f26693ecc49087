package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"linguabot/internal/domain"
)

const (
	operatorChat int64 = -1001
	userChat     int64 = 555
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type relayCall struct {
	ChatID int64
	Kind   domain.Kind
}

// fakeMessenger records every outbound call in order.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	actions []int64
	relays  []relayCall
	files   map[string][]byte

	failSend   func(chatID int64, text string) error
	failRelay  error
	failAction error
	actionHook func() error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{files: map[string][]byte{}}
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string) error {
	if m.failSend != nil {
		if err := m.failSend(chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{chatID, text})
	return nil
}

func (m *fakeMessenger) SendChatAction(_ context.Context, chatID int64, _ string) error {
	if m.failAction != nil {
		return m.failAction
	}
	if m.actionHook != nil {
		if err := m.actionHook(); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, chatID)
	return nil
}

func (m *fakeMessenger) Relay(_ context.Context, chatID int64, p domain.Payload) error {
	if m.failRelay != nil {
		return m.failRelay
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relays = append(m.relays, relayCall{chatID, p.Kind()})
	return nil
}

func (m *fakeMessenger) DownloadFile(_ context.Context, fileID string) ([]byte, error) {
	data, ok := m.files[fileID]
	if !ok {
		return nil, errors.New("file not found: " + fileID)
	}
	return data, nil
}

// to returns texts sent to chatID, in order.
func (m *fakeMessenger) to(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		if s.ChatID == chatID {
			out = append(out, s.Text)
		}
	}
	return out
}

// operatorReports returns operator-chat messages that are neither mirrors nor
// the three per-event log lines.
func (m *fakeMessenger) operatorReports() []string {
	var out []string
	for _, t := range m.to(operatorChat) {
		if strings.HasPrefix(t, "ChatId: ") || strings.HasPrefix(t, "User: ") || strings.HasPrefix(t, "in_text: ") {
			continue
		}
		out = append(out, t)
	}
	return out
}

// mirrors returns operator-chat mirrors of messages sent to chatID.
func (m *fakeMessenger) mirrors(chatID int64) []string {
	prefix := "ChatId: " + strconv.FormatInt(chatID, 10) + "\nMessage: "
	var out []string
	for _, t := range m.to(operatorChat) {
		if strings.HasPrefix(t, prefix) {
			out = append(out, strings.TrimPrefix(t, prefix))
		}
	}
	return out
}

type backendCall struct {
	Target string // language name parsed from the prompt, or "correction"
	Text   string
}

// fakeBackend answers completions with respond and records each call.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []backendCall
	respond func(target, text string) (string, error)
}

func (b *fakeBackend) Name() string  { return "fake" }
func (b *fakeBackend) Model() string { return "fake-1" }

func (b *fakeBackend) Complete(_ context.Context, systemPrompt, userText string) (string, error) {
	target := targetOf(systemPrompt)
	b.mu.Lock()
	b.calls = append(b.calls, backendCall{target, userText})
	b.mu.Unlock()
	if b.respond == nil {
		return "[" + target + "] " + userText, nil
	}
	return b.respond(target, userText)
}

func (b *fakeBackend) recorded() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backendCall(nil), b.calls...)
}

func targetOf(systemPrompt string) string {
	if systemPrompt == correctionPrompt {
		return "correction"
	}
	for _, l := range []Language{English, Indonesian, Russian} {
		if systemPrompt == translationPrompt(l.Name) {
			return l.Name
		}
	}
	return "unknown"
}

type fakeTranscriber struct {
	text     string
	err      error
	filename string
	data     []byte
}

func (t *fakeTranscriber) Transcribe(_ context.Context, audio io.Reader, filename string) (string, error) {
	t.filename = filename
	t.data, _ = io.ReadAll(audio)
	return t.text, t.err
}

type transcodeCall struct{ From, To string }

type fakeTranscoder struct {
	calls []transcodeCall
	out   []byte
	err   error
}

func (t *fakeTranscoder) Transcode(_ context.Context, _ []byte, from, to string) ([]byte, error) {
	t.calls = append(t.calls, transcodeCall{from, to})
	return t.out, t.err
}

type fakeJournal struct {
	mu       sync.Mutex
	inbound  []domain.Event
	outbound []sentMessage
	mirrored []bool
	err      error
}

func (j *fakeJournal) RecordInbound(_ context.Context, ev domain.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inbound = append(j.inbound, ev)
	return j.err
}

func (j *fakeJournal) RecordOutbound(_ context.Context, _ string, chatID int64, text string, mirrored bool) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outbound = append(j.outbound, sentMessage{chatID, text})
	j.mirrored = append(j.mirrored, mirrored)
	return j.err
}

type harness struct {
	messenger   *fakeMessenger
	backend     *fakeBackend
	transcriber *fakeTranscriber
	transcoder  *fakeTranscoder
	journal     *fakeJournal
	d           *Dispatcher
}

func newHarness() *harness {
	h := &harness{
		messenger:   newFakeMessenger(),
		backend:     &fakeBackend{},
		transcriber: &fakeTranscriber{text: "transcript"},
		transcoder:  &fakeTranscoder{out: []byte("ogg-bytes")},
		journal:     &fakeJournal{},
	}
	h.d = New(Config{
		Messenger:   h.messenger,
		Backend:     h.backend,
		Transcriber: h.transcriber,
		Transcoder:  h.transcoder,
		Journal:     h.journal,
		LogChatID:   operatorChat,
		Greeting:    "Hello from linguabot",
		Logger:      testLogger(),
	})
	return h
}

func textEvent(chatID int64, text string) domain.Event {
	return domain.Event{
		ChatID:  chatID,
		Sender:  []byte(`{"id":9,"first_name":"Ivan"}`),
		Payload: domain.Text{Body: text},
	}
}
