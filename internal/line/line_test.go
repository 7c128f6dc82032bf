// quotebot - LINE quotation assistant
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

package line

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const testSecret = "test-channel-secret"

const deliveryJSON = `{
  "destination": "Ubot",
  "events": [
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "01HEVENT1",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "reply-token-1",
      "source": {"type": "user", "userId": "Uuser1"},
      "message": {"type": "text", "id": "100", "quoteToken": "q1", "text": "今天排程"}
    },
    {
      "type": "follow",
      "mode": "active",
      "timestamp": 1700000000001,
      "webhookEventId": "01HEVENT2",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "reply-token-2",
      "source": {"type": "user", "userId": "Uuser2"},
      "follow": {"isUnblocked": false}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000002,
      "webhookEventId": "01HEVENT3",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "reply-token-3",
      "source": {"type": "group", "groupId": "Cgroup", "userId": "Uuser3"},
      "message": {"type": "text", "id": "101", "quoteToken": "q2", "text": "完成 任務A"}
    }
  ]
}`

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	return req
}

func TestParse_ValidDelivery(t *testing.T) {
	p := NewParser(testSecret)

	events, status, err := p.Parse(signedRequest(deliveryJSON, sign(testSecret, deliveryJSON)))
	if status != StatusOK || err != nil {
		t.Fatalf("status = %v, err = %v", status, err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	msgs, skipped := TextMessages(events)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 text messages, got %d", len(msgs))
	}

	first := msgs[0]
	if first.Text != "今天排程" || first.ReplyToken != "reply-token-1" || first.UserID != "Uuser1" || first.EventID != "01HEVENT1" {
		t.Errorf("first message = %+v", first)
	}
	if msgs[1].UserID != "Cgroup" {
		t.Errorf("group message source = %q, want Cgroup", msgs[1].UserID)
	}
}

func TestParse_InvalidSignature(t *testing.T) {
	p := NewParser(testSecret)

	tests := map[string]string{
		"wrong secret": sign("other-secret", deliveryJSON),
		"missing":      "",
		"garbage":      "not-a-signature",
	}
	for name, sig := range tests {
		t.Run(name, func(t *testing.T) {
			_, status, err := p.Parse(signedRequest(deliveryJSON, sig))
			if status != StatusInvalidSignature {
				t.Errorf("status = %v, want %v", status, StatusInvalidSignature)
			}
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParse_MalformedBody(t *testing.T) {
	p := NewParser(testSecret)
	body := `{"events": [`

	_, status, err := p.Parse(signedRequest(body, sign(testSecret, body)))
	if status != StatusMalformed {
		t.Errorf("status = %v, want %v", status, StatusMalformed)
	}
	if err == nil {
		t.Error("expected error")
	}
}

func TestParseStatus_String(t *testing.T) {
	if StatusInvalidSignature.String() != "invalid_signature" {
		t.Errorf("got %q", StatusInvalidSignature.String())
	}
	if ParseStatus(42).String() != "unknown" {
		t.Errorf("got %q", ParseStatus(42).String())
	}
}

func TestClient_ReplyText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody struct {
		ReplyToken string `json:"replyToken"`
		Messages   []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("decode reply body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sentMessages":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient("access-token", messaging_api.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := c.ReplyText(context.Background(), "reply-token-1", "hello", "world"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	if gotPath != "/v2/bot/message/reply" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer access-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody.ReplyToken != "reply-token-1" {
		t.Errorf("reply token = %q", gotBody.ReplyToken)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Type != "text" || gotBody.Messages[1].Text != "world" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
}

func TestClient_ReplyTextLimits(t *testing.T) {
	c, err := NewClient("access-token")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := c.ReplyText(context.Background(), ""); err == nil {
		t.Error("expected error for empty reply token")
	}
	if err := c.ReplyText(context.Background(), "tok", "1", "2", "3", "4", "5", "6"); err == nil {
		t.Error("expected error above reply limit")
	}
	if err := c.ReplyText(context.Background(), "tok"); err != nil {
		t.Errorf("no texts should be a no-op, got %v", err)
	}
}
