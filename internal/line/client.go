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
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// maxMessagesPerReply is the LINE API limit on messages in one reply call.
const maxMessagesPerReply = 5

// Replier sends text back to the conversation a reply token belongs to.
// A reply token is single-use.
type Replier interface {
	ReplyText(ctx context.Context, replyToken string, texts ...string) error
}

// Client sends replies through the Messaging API.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

// NewClient creates a Client authenticated with the channel access token.
// Extra options (endpoint, HTTP client) are passed through to the SDK.
func NewClient(channelAccessToken string, opts ...messaging_api.MessagingApiAPIOption) (*Client, error) {
	opts = append([]messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
	}, opts...)

	api, err := messaging_api.NewMessagingApiAPI(channelAccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return &Client{api: api}, nil
}

// ReplyText sends each text as its own message bubble.
func (c *Client) ReplyText(ctx context.Context, replyToken string, texts ...string) error {
	if replyToken == "" {
		return errors.New("empty reply token")
	}
	if len(texts) == 0 {
		return nil
	}
	if len(texts) > maxMessagesPerReply {
		return fmt.Errorf("%d messages exceeds reply limit of %d", len(texts), maxMessagesPerReply)
	}

	messages := make([]messaging_api.MessageInterface, len(texts))
	for i, t := range texts {
		messages[i] = &messaging_api.TextMessage{Text: t}
	}

	if _, err := c.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}); err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}
