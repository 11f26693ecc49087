package dispatch

import (
	"bytes"
	"context"
	"fmt"

	"linguabot/internal/domain"
	"linguabot/internal/logging"
	"linguabot/internal/media"
	"linguabot/internal/metrics"
)

const (
	voiceApology = "Sorry, something went wrong while processing your voice message."
	audioApology = "Sorry, something went wrong while processing your audio file."

	defaultVoiceMime = "audio/ogg"
	defaultAudioMime = "audio/mpeg"
)

// transcribeAndCorrect runs the voice/audio pipeline and returns the corrected
// transcript, which has already been sent to the originating chat.
// On any pipeline failure the apology is sent instead and the result is "".
// The returned error is only set when the apology itself cannot be sent.
func (d *Dispatcher) transcribeAndCorrect(ctx context.Context, ev domain.Event, file domain.FileRef, defaultMime, apology string) (string, error) {
	text, err := d.runPipeline(ctx, ev, file, defaultMime)
	if err != nil {
		logging.FromContext(ctx, d.logger).Error("transcription pipeline failed",
			"err", err, "kind", ev.Payload.Kind(), "mime_type", file.MimeType)
		return "", d.send(ctx, ev.ID, ev.ChatID, apology)
	}
	return text, nil
}

func (d *Dispatcher) runPipeline(ctx context.Context, ev domain.Event, file domain.FileRef, defaultMime string) (string, error) {
	data, err := d.messenger.DownloadFile(ctx, file.FileID)
	if err != nil {
		return "", err
	}

	mime := file.MimeType
	if mime == "" {
		mime = defaultMime
	}
	if !media.IsSupported(mime) {
		from := media.Subtype(mime)
		data, err = d.transcoder.Transcode(ctx, data, from, media.TargetFormat)
		if err != nil {
			return "", fmt.Errorf("convert %s to %s: %w", from, media.TargetFormat, err)
		}
		mime = "audio/" + media.TargetFormat
	}

	transcript, err := d.transcriber.Transcribe(ctx, bytes.NewReader(data), "audio."+media.Subtype(mime))
	metrics.Transcription(err)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	corrected := d.correct(ctx, ev.ID, transcript)
	if err := d.send(ctx, ev.ID, ev.ChatID, corrected); err != nil {
		return "", err
	}
	return corrected, nil
}
