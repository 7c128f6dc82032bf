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

// Package line wraps the LINE Messaging API: verifying and decoding inbound
// webhook deliveries, and sending replies against a reply token.
package line

import (
	"errors"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// ParseStatus is the outcome of verifying and decoding a webhook delivery.
type ParseStatus int

const (
	StatusOK ParseStatus = iota
	StatusInvalidSignature
	StatusMalformed
)

func (s ParseStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidSignature:
		return "invalid_signature"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// TextMessage is an inbound text message together with its one-shot reply
// handle.
type TextMessage struct {
	EventID    string
	ReplyToken string
	UserID     string
	Text       string
}

// Parser verifies the X-Line-Signature header against the channel secret
// and decodes the delivery into events.
type Parser struct {
	channelSecret string
}

// NewParser creates a Parser for the given channel secret.
func NewParser(channelSecret string) *Parser {
	return &Parser{channelSecret: channelSecret}
}

// Parse reads the request body. A non-OK status comes with the underlying
// error for logging; callers map the status to an HTTP response.
func (p *Parser) Parse(r *http.Request) ([]webhook.EventInterface, ParseStatus, error) {
	cb, err := webhook.ParseRequest(p.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return nil, StatusInvalidSignature, err
		}
		return nil, StatusMalformed, err
	}
	return cb.Events, StatusOK, nil
}

// TextMessages picks the text message events out of a delivery, in order.
// The second return value counts the events that were skipped.
func TextMessages(events []webhook.EventInterface) ([]TextMessage, int) {
	var msgs []TextMessage
	skipped := 0

	for _, event := range events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			skipped++
			continue
		}
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			skipped++
			continue
		}
		msgs = append(msgs, TextMessage{
			EventID:    e.WebhookEventId,
			ReplyToken: e.ReplyToken,
			UserID:     sourceID(e.Source),
			Text:       text.Text,
		})
	}

	return msgs, skipped
}

func sourceID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	default:
		return ""
	}
}
