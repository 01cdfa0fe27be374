package notification_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saulo-duarte/cyberaware-lambda/internal/notification"
)

func TestTemplates(t *testing.T) {
	t.Run("Verification", func(t *testing.T) {
		msg, err := notification.VerificationEmail("ana@example.com", "482913")
		if err != nil {
			t.Fatalf("VerificationEmail failed: %v", err)
		}
		if msg.To != "ana@example.com" || !strings.Contains(msg.Subject, "Verification") {
			t.Errorf("unexpected message header: %+v", msg)
		}
		if !strings.Contains(msg.HTML, "482913") || !strings.Contains(msg.PlainText, "482913") {
			t.Error("code missing from message body")
		}
	})

	t.Run("ResetEscapesCode", func(t *testing.T) {
		msg, err := notification.ResetPasswordEmail("ana@example.com", "<b>1</b>")
		if err != nil {
			t.Fatalf("ResetPasswordEmail failed: %v", err)
		}
		if strings.Contains(msg.HTML, "<b>1</b>") {
			t.Error("template must escape interpolated values")
		}
	})
}

func TestSendGridSender(t *testing.T) {
	var payload map[string]interface{}
	status := http.StatusAccepted

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	sender := notification.NewSendGridSender("test-key", "no-reply@cyberaware.app", srv.URL)
	msg := notification.Message{To: "ana@example.com", Subject: "Hi", PlainText: "hello", HTML: "<p>hello</p>"}

	t.Run("Accepted", func(t *testing.T) {
		if err := sender.Send(context.Background(), msg); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if payload["subject"] != "Hi" {
			t.Errorf("unexpected payload: %v", payload)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		status = http.StatusBadRequest
		if err := sender.Send(context.Background(), msg); err == nil {
			t.Fatal("expected an error for a non-2xx response")
		}
	})
}

func TestLogSender(t *testing.T) {
	if err := (notification.LogSender{}).Send(context.Background(), notification.Message{Subject: "x"}); err != nil {
		t.Fatalf("LogSender should never fail: %v", err)
	}
}
