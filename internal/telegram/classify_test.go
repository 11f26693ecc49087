package telegram

import (
	"encoding/json"
	"testing"

	"linguabot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func classifyJSON(t *testing.T, raw string) (domain.Event, bool) {
	t.Helper()
	var u tgbotapi.Update
	decodeJSON(t, raw, &u)
	return Classify(u)
}

func TestClassify_NoMessage(t *testing.T) {
	if _, ok := classifyJSON(t, `{"update_id":1,"edited_message":{"message_id":1,"chat":{"id":1,"type":"private"},"text":"x"}}`); ok {
		t.Fatal("updates without message must not classify")
	}
}

func TestClassify_Text(t *testing.T) {
	ev, ok := classifyJSON(t, `{"update_id":7,"message":{"message_id":1,"date":0,
		"from":{"id":9,"is_bot":false,"first_name":"Ivan","username":"ivan"},
		"chat":{"id":9,"type":"private"},"text":"hello"}}`)
	if !ok {
		t.Fatal("expected an event")
	}
	if ev.UpdateID != 7 || ev.ChatID != 9 {
		t.Errorf("ids = %d/%d", ev.UpdateID, ev.ChatID)
	}
	if ev.Text() != "hello" {
		t.Errorf("Text() = %q", ev.Text())
	}

	var sender map[string]any
	if err := json.Unmarshal(ev.Sender, &sender); err != nil {
		t.Fatalf("sender is not JSON: %v", err)
	}
	if sender["username"] != "ivan" {
		t.Errorf("sender = %v", sender)
	}
}

func TestClassify_PhotoUsesLargestSize(t *testing.T) {
	ev, _ := classifyJSON(t, `{"update_id":1,"message":{"message_id":1,"chat":{"id":1,"type":"private"},
		"photo":[{"file_id":"small","width":90,"height":90},{"file_id":"big","width":1280,"height":1280}]}}`)
	p, ok := ev.Payload.(domain.Photo)
	if !ok {
		t.Fatalf("payload = %T", ev.Payload)
	}
	if p.File.FileID != "big" {
		t.Errorf("FileID = %q, want big", p.File.FileID)
	}
}

func TestClassify_Kinds(t *testing.T) {
	tests := []struct {
		field string
		want  domain.Kind
	}{
		{`"voice":{"file_id":"v","duration":2,"mime_type":"audio/ogg"}`, domain.KindVoice},
		{`"audio":{"file_id":"a","duration":2,"mime_type":"audio/x-m4a"}`, domain.KindAudio},
		{`"video":{"file_id":"v","width":1,"height":1,"duration":1}`, domain.KindVideo},
		{`"document":{"file_id":"d","file_name":"x.pdf"}`, domain.KindDocument},
		{`"video_note":{"file_id":"n","length":240,"duration":3}`, domain.KindVideoNote},
		{`"sticker":{"file_id":"s","width":1,"height":1}`, domain.KindSticker},
		{`"location":{"latitude":1.5,"longitude":2.5}`, domain.KindLocation},
		{`"contact":{"phone_number":"+1","first_name":"A"}`, domain.KindContact},
		{`"dice":{"emoji":"🎲","value":3}`, domain.KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			ev, ok := classifyJSON(t, `{"update_id":1,"message":{"message_id":1,"chat":{"id":1,"type":"private"},`+tt.field+`}}`)
			if !ok {
				t.Fatal("expected an event")
			}
			if ev.Payload.Kind() != tt.want {
				t.Errorf("Kind() = %s, want %s", ev.Payload.Kind(), tt.want)
			}
		})
	}
}

func TestClassify_VoiceKeepsMimeType(t *testing.T) {
	ev, _ := classifyJSON(t, `{"update_id":1,"message":{"message_id":1,"chat":{"id":1,"type":"private"},
		"voice":{"file_id":"v","duration":2,"mime_type":"audio/ogg"}}}`)
	v := ev.Payload.(domain.Voice)
	if v.File.FileID != "v" || v.File.MimeType != "audio/ogg" {
		t.Errorf("voice = %+v", v)
	}
}

func TestClassify_TextWinsOverMedia(t *testing.T) {
	ev, _ := classifyJSON(t, `{"update_id":1,"message":{"message_id":1,"chat":{"id":1,"type":"private"},
		"text":"caption-like","sticker":{"file_id":"s","width":1,"height":1}}}`)
	if ev.Payload.Kind() != domain.KindText {
		t.Errorf("Kind() = %s, want text", ev.Payload.Kind())
	}
}

func TestClassify_MissingSenderIsNull(t *testing.T) {
	ev, _ := classifyJSON(t, `{"update_id":1,"message":{"message_id":1,"chat":{"id":-100,"type":"channel"},"text":"x"}}`)
	if string(ev.Sender) != "null" {
		t.Errorf("Sender = %s, want null", ev.Sender)
	}
}

func TestDecode_KeepsRawSender(t *testing.T) {
	body := []byte(`{"update_id":3,"message":{"message_id":1,"date":0,
		"from":{"id":9,"is_bot":false,"first_name":"Ivan","is_premium":true},
		"chat":{"id":9,"type":"private"},"text":"hi"}}`)

	ev, ok, err := Decode(body)
	if err != nil || !ok {
		t.Fatalf("Decode = %v, %v", ok, err)
	}
	if ev.UpdateID != 3 || ev.Text() != "hi" {
		t.Errorf("event = %+v", ev)
	}
	var sender map[string]any
	if err := json.Unmarshal(ev.Sender, &sender); err != nil {
		t.Fatal(err)
	}
	if sender["is_premium"] != true {
		t.Errorf("sender lost fields: %s", ev.Sender)
	}
}

func TestDecode_NoMessageAndMalformed(t *testing.T) {
	if _, ok, err := Decode([]byte(`{"update_id":1}`)); ok || err != nil {
		t.Errorf("no message: ok=%v err=%v", ok, err)
	}
	if _, _, err := Decode([]byte(`{"update_id":`)); err == nil {
		t.Error("malformed body should fail")
	}
}
