package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const testToken = "123456:TEST"

// apiCall is one recorded Bot API request.
type apiCall struct {
	Method string
	Form   url.Values
}

// fakeBotAPI stands in for api.telegram.org. It answers getMe, getFile and
// every send method, and serves file downloads under /file/.
type fakeBotAPI struct {
	srv   *httptest.Server
	mu    sync.Mutex
	calls []apiCall
	files map[string][]byte // file path -> contents
	fail  map[string]string // method -> error description
}

func newFakeBotAPI(t *testing.T) *fakeBotAPI {
	t.Helper()
	f := &fakeBotAPI{files: map[string][]byte{}, fail: map[string]string{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeBotAPI) handle(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/file/") {
		path := strings.TrimPrefix(r.URL.Path, "/file/bot"+testToken+"/")
		data, ok := f.files[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
		return
	}

	_ = r.ParseForm()
	parts := strings.Split(r.URL.Path, "/")
	method := parts[len(parts)-1]

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Form: r.Form})
	desc, failing := f.fail[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		fmt.Fprintf(w, `{"ok":false,"error_code":400,"description":%q}`, desc)
		return
	}

	switch method {
	case "getMe":
		io.WriteString(w, `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Lingua","username":"linguabot"}}`)
	case "getFile":
		id := r.Form.Get("file_id")
		fmt.Fprintf(w, `{"ok":true,"result":{"file_id":%q,"file_path":"voice/%s.oga"}}`, id, id)
	case "sendChatAction", "setWebhook", "deleteWebhook":
		io.WriteString(w, `{"ok":true,"result":true}`)
	case "getWebhookInfo":
		io.WriteString(w, `{"ok":true,"result":{"url":"https://example.com/api/webhook","pending_update_count":3}}`)
	default:
		chatID := r.Form.Get("chat_id")
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":%s,"type":"private"}}}`, chatID)
	}
}

func (f *fakeBotAPI) recorded() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]apiCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// lastCall returns the most recent call to method, failing the test if there is none.
func (f *fakeBotAPI) lastCall(t *testing.T, method string) apiCall {
	t.Helper()
	calls := f.recorded()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i]
		}
	}
	t.Fatalf("no %s call recorded; got %v", method, calls)
	return apiCall{}
}

func (f *fakeBotAPI) client(t *testing.T) *Client {
	t.Helper()
	c, err := New(Config{
		Token:        testToken,
		APIEndpoint:  f.srv.URL + "/bot%s/%s",
		FileEndpoint: f.srv.URL + "/file/bot%s/%s",
		HTTPClient:   f.srv.Client(),
		Logger:       testLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// decodeJSON is a small helper for update fixtures.
func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
}

var bg = context.Background()
