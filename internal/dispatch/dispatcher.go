// Package dispatch handles one inbound chat event: media relay to the
// operator chat, voice/audio transcription, correction, translation and
// operator relay commands.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"linguabot/internal/domain"
	"linguabot/internal/logging"
	"linguabot/internal/metrics"

	"github.com/google/uuid"
)

const (
	correctionFallback  = "Correction error occurred"
	translationFallback = "Translation error occurred"
	unsupportedReply    = "Извините, пока я понимаю только текстовые, голосовые и аудио сообщения"
	startCommand        = "/start"
)

// Dispatcher is safe for concurrent use; it holds no per-request state.
type Dispatcher struct {
	messenger   domain.Messenger
	translator  *Translator
	transcriber domain.Transcriber
	transcoder  domain.Transcoder
	journal     domain.Journal
	logChatID   int64
	greeting    string
	logger      *slog.Logger
}

type Config struct {
	Messenger   domain.Messenger
	Backend     domain.Backend
	Transcriber domain.Transcriber
	Transcoder  domain.Transcoder
	// Journal is optional.
	Journal   domain.Journal
	LogChatID int64
	Greeting  string
	Logger    *slog.Logger
}

func New(cfg Config) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Dispatcher{
		messenger:   cfg.Messenger,
		translator:  NewTranslator(cfg.Backend),
		transcriber: cfg.Transcriber,
		transcoder:  cfg.Transcoder,
		journal:     cfg.Journal,
		logChatID:   cfg.LogChatID,
		greeting:    cfg.Greeting,
		logger:      cfg.Logger,
	}
}

// Handle processes ev to completion. Errors that escape the per-feature
// fallbacks are reported to the operator chat and returned for logging;
// callers still acknowledge the update.
func (d *Dispatcher) Handle(ctx context.Context, ev domain.Event) (err error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	logger := logging.FromContext(ctx, d.logger).With(
		"event_id", ev.ID,
		"chat_id", ev.ChatID,
		"kind", ev.Payload.Kind(),
	)
	ctx = logging.WithLogger(ctx, logger)

	metrics.Update(string(ev.Payload.Kind()))
	if d.journal != nil {
		if jerr := d.journal.RecordInbound(ctx, ev); jerr != nil {
			logger.Error("journal inbound failed", "err", jerr)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			metrics.HandlerErrorsTotal.Inc()
			logger.Error("webhook handler error", "err", err)
			d.report(ctx, ev.ID, "Error in webhook handler: "+err.Error())
		}
	}()

	return d.process(ctx, ev)
}

func (d *Dispatcher) process(ctx context.Context, ev domain.Event) error {
	if err := d.messenger.SendChatAction(ctx, ev.ChatID, domain.ActionTyping); err != nil {
		return err
	}
	for _, line := range []string{
		"User: " + indentSender(ev.Sender),
		"ChatId: " + strconv.FormatInt(ev.ChatID, 10),
		"in_text: " + ev.Text(),
	} {
		if err := d.send(ctx, ev.ID, d.logChatID, line); err != nil {
			return err
		}
	}

	text := ev.Text()

	switch p := ev.Payload.(type) {
	case domain.Voice:
		if err := d.messenger.Relay(ctx, d.logChatID, p); err != nil {
			return err
		}
		if err := d.messenger.SendChatAction(ctx, ev.ChatID, domain.ActionTyping); err != nil {
			return err
		}
		t, err := d.transcribeAndCorrect(ctx, ev, p.File, defaultVoiceMime, voiceApology)
		if err != nil {
			return err
		}
		text = t
	case domain.Audio:
		if err := d.messenger.Relay(ctx, d.logChatID, p); err != nil {
			return err
		}
		if err := d.messenger.SendChatAction(ctx, ev.ChatID, domain.ActionTyping); err != nil {
			return err
		}
		t, err := d.transcribeAndCorrect(ctx, ev, p.File, defaultAudioMime, audioApology)
		if err != nil {
			return err
		}
		text = t
	case domain.Text, domain.Unsupported:
	default:
		if err := d.messenger.Relay(ctx, d.logChatID, p); err != nil {
			return err
		}
	}

	if text == "" {
		return d.send(ctx, ev.ID, ev.ChatID, unsupportedReply)
	}
	if text == startCommand {
		return d.send(ctx, ev.ID, ev.ChatID, d.greeting)
	}
	if ev.ChatID == d.logChatID {
		if target, body, ok := parseOperatorCommand(text); ok {
			logging.FromContext(ctx, d.logger).Info("operator relay", "target_chat_id", target)
			return d.send(ctx, ev.ID, target, body)
		}
	}
	return d.route(ctx, ev, text)
}

// route translates text and sends the results: English then Indonesian for
// Russian input, Russian otherwise.
func (d *Dispatcher) route(ctx context.Context, ev domain.Event, text string) error {
	for _, lang := range routeTargets(text) {
		out := d.translate(ctx, ev.ID, text, lang)
		if lang.Label != "" {
			out = lang.Label + "\n" + out
		}
		if err := d.send(ctx, ev.ID, ev.ChatID, out); err != nil {
			return err
		}
	}
	return nil
}

// correct never fails: errors are reported and replaced by a placeholder.
func (d *Dispatcher) correct(ctx context.Context, eventID, text string) string {
	out, err := d.translator.Correct(ctx, text)
	if err != nil {
		logging.FromContext(ctx, d.logger).Error("correction failed", "err", err)
		d.report(ctx, eventID, "Error in correction: "+err.Error())
		return correctionFallback
	}
	return out
}

func (d *Dispatcher) translate(ctx context.Context, eventID, text string, lang Language) string {
	out, err := d.translator.Translate(ctx, text, lang)
	if err != nil {
		logging.FromContext(ctx, d.logger).Error("translation failed", "err", err, "target", lang.Code)
		d.report(ctx, eventID, "Error in translation: "+err.Error())
		return translationFallback
	}
	return out
}

func indentSender(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
