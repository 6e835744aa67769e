package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, url string, retries int) Client {
	t.Helper()
	c, err := New(nil, Config{
		APIKey:     "SG.test",
		BaseURL:    url + "/",
		FromEmail:  "noreply@example.com",
		FromName:   "MaiOpinion Healthcare Assistant",
		MaxRetries: retries,
		Backoff:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestSendBuildsMailRequest(t *testing.T) {
	var got mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer SG.test" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL, 0).Send(context.Background(), Message{
		To:      []Address{{Email: "patient@example.com"}},
		Subject: " Your Follow-Up Reminder ",
		Text:    "hello",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.StatusCode != http.StatusAccepted || res.MessageID != "msg-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got.From.Email != "noreply@example.com" || got.From.Name != "MaiOpinion Healthcare Assistant" {
		t.Fatalf("default sender not applied: %+v", got.From)
	}
	if got.Subject != "Your Follow-Up Reminder" {
		t.Fatalf("subject = %q", got.Subject)
	}
	if len(got.Content) != 1 || got.Content[0].Type != "text/plain" {
		t.Fatalf("content = %+v", got.Content)
	}
}

func TestSendValidates(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", 0)
	if _, err := c.Send(context.Background(), Message{Subject: "s", Text: "t"}); err == nil {
		t.Fatalf("expected error without recipients")
	}
	if _, err := c.Send(context.Background(), Message{To: []Address{{Email: "a@b.c"}}, Text: "t"}); err == nil {
		t.Fatalf("expected error without subject")
	}
	if _, err := c.Send(context.Background(), Message{To: []Address{{Email: "a@b.c"}}, Subject: "s"}); err == nil {
		t.Fatalf("expected error without content")
	}
}

func TestSendRetriesRetryableStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	msg := Message{To: []Address{{Email: "a@b.c"}}, Subject: "s", Text: "t"}
	res, err := newTestClient(t, srv.URL, 2).Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Attempts != 2 {
		t.Fatalf("attempts = %d", res.Attempts)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestSendDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
	}))
	defer srv.Close()

	msg := Message{To: []Address{{Email: "a@b.c"}}, Subject: "s", Text: "t"}
	_, err := newTestClient(t, srv.URL, 3).Send(context.Background(), msg)
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected HTTPError 400, got %v", err)
	}
	if he.Error() != "sendgrid http 400: bad from" {
		t.Fatalf("message = %q", he.Error())
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestSandboxModeSetsMailSettings(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(nil, Config{APIKey: "k", BaseURL: srv.URL, FromEmail: "noreply@example.com", Sandbox: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	msg := Message{To: []Address{{Email: " a@b.c "}, {Email: ""}}, Subject: "s", Text: "t"}
	if _, err := c.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	settings, _ := got["mail_settings"].(map[string]any)
	sandbox, _ := settings["sandbox_mode"].(map[string]any)
	if sandbox["enable"] != true {
		t.Fatalf("sandbox not enabled: %v", got["mail_settings"])
	}
	p := got["personalizations"].([]any)[0].(map[string]any)
	if to := p["to"].([]any); len(to) != 1 {
		t.Fatalf("blank recipient kept: %v", to)
	}
}
