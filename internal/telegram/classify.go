package telegram

import (
	"encoding/json"

	"linguabot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Decode parses a webhook body into a domain event. Unlike Classify on an
// already decoded update, the sender is the "from" object exactly as Telegram
// sent it, including fields the client library does not model.
func Decode(body []byte) (domain.Event, bool, error) {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return domain.Event{}, false, err
	}
	ev, ok := Classify(update)
	if !ok {
		return domain.Event{}, false, nil
	}

	var raw struct {
		Message struct {
			From json.RawMessage `json:"from"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err == nil && len(raw.Message.From) > 0 {
		ev.Sender = raw.Message.From
	}
	return ev, true, nil
}

// Classify turns an update into a domain event. It reports false for
// updates that carry no message (edits, callbacks, channel posts).
//
// Exactly one payload is chosen, in the order text, voice, audio, photo,
// video, document, video note, sticker, location, contact.
func Classify(update tgbotapi.Update) (domain.Event, bool) {
	m := update.Message
	if m == nil || m.Chat == nil {
		return domain.Event{}, false
	}

	sender, err := json.Marshal(m.From)
	if err != nil {
		sender = json.RawMessage("null")
	}

	return domain.Event{
		UpdateID: update.UpdateID,
		ChatID:   m.Chat.ID,
		Sender:   sender,
		Payload:  payloadOf(m),
	}, true
}

func payloadOf(m *tgbotapi.Message) domain.Payload {
	switch {
	case m.Text != "":
		return domain.Text{Body: m.Text}
	case m.Voice != nil:
		return domain.Voice{File: domain.FileRef{FileID: m.Voice.FileID, MimeType: m.Voice.MimeType}}
	case m.Audio != nil:
		return domain.Audio{File: domain.FileRef{FileID: m.Audio.FileID, MimeType: m.Audio.MimeType}}
	case len(m.Photo) > 0:
		// Sizes are ordered smallest first.
		largest := m.Photo[len(m.Photo)-1]
		return domain.Photo{File: domain.FileRef{FileID: largest.FileID}}
	case m.Video != nil:
		return domain.Video{File: domain.FileRef{FileID: m.Video.FileID, MimeType: m.Video.MimeType}}
	case m.Document != nil:
		return domain.Document{File: domain.FileRef{FileID: m.Document.FileID, MimeType: m.Document.MimeType}}
	case m.VideoNote != nil:
		return domain.VideoNote{File: domain.FileRef{FileID: m.VideoNote.FileID}, Length: m.VideoNote.Length}
	case m.Sticker != nil:
		return domain.Sticker{File: domain.FileRef{FileID: m.Sticker.FileID}}
	case m.Location != nil:
		return domain.Location{Latitude: m.Location.Latitude, Longitude: m.Location.Longitude}
	case m.Contact != nil:
		return domain.Contact{
			PhoneNumber: m.Contact.PhoneNumber,
			FirstName:   m.Contact.FirstName,
			LastName:    m.Contact.LastName,
			VCard:       m.Contact.VCard,
		}
	default:
		return domain.Unsupported{}
	}
}
