package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"factsift/internal/config"
)

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	var gotPath, gotChatID, gotText, gotPreview string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotChatID = r.PostFormValue("chat_id")
		gotText = r.PostFormValue("text")
		gotPreview = r.PostFormValue("disable_web_page_preview")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "bot-token", ChatID: "12345"})
	n.apiBase = server.URL
	n.client = server.Client()

	if err := n.PublishDigest(context.Background(), "Analysis finished"); err != nil {
		t.Fatalf("PublishDigest error: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotChatID != "12345" {
		t.Fatalf("unexpected chat id: %s", gotChatID)
	}
	if gotText != "Analysis finished" {
		t.Fatalf("unexpected text: %s", gotText)
	}
	if gotPreview != "true" {
		t.Fatalf("link previews should be disabled, got %q", gotPreview)
	}
}

func TestPublishDigestRequiresConfig(t *testing.T) {
	t.Parallel()

	n := NewNotifier(config.TelegramConfig{BotToken: "bot-token"})

	err := n.PublishDigest(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "misconfigured") {
		t.Fatalf("expected a misconfiguration error, got %v", err)
	}
}

func TestPublishDigestHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier(config.TelegramConfig{BotToken: "bot-token", ChatID: "12345"})
	n.apiBase = server.URL
	n.client = server.Client()

	err := n.PublishDigest(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "telegram error") {
		t.Fatalf("expected a telegram error, got %v", err)
	}
}
