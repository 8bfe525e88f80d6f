package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/JRomainG/TGVMaxBot/internal/logger"
)

type telegramStub struct {
	mu       sync.Mutex
	requests []map[string]string
	failSend bool
}

func (s *telegramStub) handler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"TGVMax","username":"tgvmax_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		s.mu.Lock()
		s.requests = append(s.requests, map[string]string{
			"chat_id":              r.PostForm.Get("chat_id"),
			"text":                 r.PostForm.Get("text"),
			"disable_notification": r.PostForm.Get("disable_notification"),
		})
		s.mu.Unlock()
		if s.failSend {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":99,"type":"private"},"text":"ok"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTelegramServer(t *testing.T, stub *telegramStub) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(stub.handler))
	t.Cleanup(ts.Close)
	return ts.URL + "/bot%s/%s"
}

func TestTelegramSinkSend(t *testing.T) {
	tests := []struct {
		name       string
		silent     bool
		wantSilent string
	}{
		{"audible", false, ""},
		{"silent", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &telegramStub{}
			sink, err := NewTelegramSink("123:abc", newTelegramServer(t, stub), logger.NewNop())
			if err != nil {
				t.Fatalf("NewTelegramSink() error = %v", err)
			}

			if err := sink.Send(context.Background(), 99, "hello", SendOptions{Silent: tt.silent}); err != nil {
				t.Fatalf("Send() error = %v", err)
			}

			if len(stub.requests) != 1 {
				t.Fatalf("sendMessage calls = %d, want 1", len(stub.requests))
			}
			req := stub.requests[0]
			if req["chat_id"] != "99" || req["text"] != "hello" {
				t.Errorf("request = %v", req)
			}
			if req["disable_notification"] != tt.wantSilent {
				t.Errorf("disable_notification = %q, want %q", req["disable_notification"], tt.wantSilent)
			}
		})
	}
}

func TestTelegramSinkSendFailure(t *testing.T) {
	stub := &telegramStub{failSend: true}
	sink, err := NewTelegramSink("123:abc", newTelegramServer(t, stub), logger.NewNop())
	if err != nil {
		t.Fatalf("NewTelegramSink() error = %v", err)
	}

	if err := sink.Send(context.Background(), 99, "hello", SendOptions{}); err == nil {
		t.Error("Send() error = nil, want API error")
	}
}

func TestTelegramSinkCancelledContext(t *testing.T) {
	stub := &telegramStub{}
	sink, err := NewTelegramSink("123:abc", newTelegramServer(t, stub), logger.NewNop())
	if err != nil {
		t.Fatalf("NewTelegramSink() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sink.Send(ctx, 99, "hello", SendOptions{}); err == nil {
		t.Error("Send() with cancelled context should fail")
	}
	if len(stub.requests) != 0 {
		t.Errorf("sendMessage calls = %d, want 0", len(stub.requests))
	}
}

func TestNewTelegramSinkRejectsBadToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer ts.Close()

	if _, err := NewTelegramSink("bad", ts.URL+"/bot%s/%s", logger.NewNop()); err == nil {
		t.Error("NewTelegramSink() error = nil, want unauthorized")
	}
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(logger.NewNop())
	if err := sink.Send(context.Background(), 1, "hello", SendOptions{Silent: true}); err != nil {
		t.Errorf("Send() error = %v", err)
	}
}
