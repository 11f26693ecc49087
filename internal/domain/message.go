package domain

import "encoding/json"

// Kind identifies which payload variant an inbound event carries.
type Kind string

const (
	KindText        Kind = "text"
	KindVoice       Kind = "voice"
	KindAudio       Kind = "audio"
	KindPhoto       Kind = "photo"
	KindVideo       Kind = "video"
	KindDocument    Kind = "document"
	KindVideoNote   Kind = "video_note"
	KindSticker     Kind = "sticker"
	KindLocation    Kind = "location"
	KindContact     Kind = "contact"
	KindUnsupported Kind = "unsupported"
)

// Event is one inbound chat event, scoped to a single webhook invocation.
type Event struct {
	ID       string // correlation id, generated per invocation
	UpdateID int
	ChatID   int64
	Sender   json.RawMessage // the platform's "from" object as JSON
	Payload  Payload
}

// Text returns the event text for text payloads and "" otherwise.
func (e Event) Text() string {
	if t, ok := e.Payload.(Text); ok {
		return t.Body
	}
	return ""
}

// Payload is a sealed union over the media kinds a chat message can carry.
// Exactly one variant is set per event.
type Payload interface {
	Kind() Kind
	payload()
}

// FileRef points at a file already stored by the chat platform.
type FileRef struct {
	FileID   string
	MimeType string
}

type Text struct{ Body string }

type Voice struct{ File FileRef }

type Audio struct{ File FileRef }

type Photo struct{ File FileRef }

type Video struct{ File FileRef }

type Document struct{ File FileRef }

type VideoNote struct {
	File   FileRef
	Length int
}

type Sticker struct{ File FileRef }

type Location struct {
	Latitude  float64
	Longitude float64
}

type Contact struct {
	PhoneNumber string
	FirstName   string
	LastName    string
	VCard       string
}

// Unsupported marks an event with none of the known payload fields.
type Unsupported struct{}

func (Text) Kind() Kind        { return KindText }
func (Voice) Kind() Kind       { return KindVoice }
func (Audio) Kind() Kind       { return KindAudio }
func (Photo) Kind() Kind       { return KindPhoto }
func (Video) Kind() Kind       { return KindVideo }
func (Document) Kind() Kind    { return KindDocument }
func (VideoNote) Kind() Kind   { return KindVideoNote }
func (Sticker) Kind() Kind     { return KindSticker }
func (Location) Kind() Kind    { return KindLocation }
func (Contact) Kind() Kind     { return KindContact }
func (Unsupported) Kind() Kind { return KindUnsupported }

func (Text) payload()        {}
func (Voice) payload()       {}
func (Audio) payload()       {}
func (Photo) payload()       {}
func (Video) payload()       {}
func (Document) payload()    {}
func (VideoNote) payload()   {}
func (Sticker) payload()     {}
func (Location) payload()    {}
func (Contact) payload()     {}
func (Unsupported) payload() {}
