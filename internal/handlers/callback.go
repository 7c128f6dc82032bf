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

package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jredh-dev/quotebot/internal/line"
)

// Callback receives LINE webhook deliveries.
// POST /callback
//
// A bad signature or an undecodable body gets 400 and nothing else
// happens. Otherwise every text message is routed and answered on its
// reply token before the 200 goes out; a failed reply is logged and does
// not change the response, since LINE would only redeliver the event.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	events, status, err := h.parser.Parse(r)
	switch status {
	case line.StatusOK:
	case line.StatusInvalidSignature:
		h.log.Warn("webhook rejected", zap.Stringer("status", status), zap.String("remote", r.RemoteAddr))
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	default:
		h.log.Warn("webhook rejected", zap.Stringer("status", status), zap.Error(err))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	msgs, skipped := line.TextMessages(events)
	if skipped > 0 {
		h.log.Debug("skipped non-text events", zap.Int("count", skipped))
	}

	ctx := r.Context()
	for _, m := range msgs {
		log := h.log.With(zap.String("event_id", m.EventID), zap.String("source", m.UserID))
		log.Info("message received", zap.String("text", m.Text))

		reply := h.router.Route(ctx, m.Text)
		if err := h.replier.ReplyText(ctx, m.ReplyToken, reply.Texts...); err != nil {
			log.Error("reply failed", zap.String("strategy", reply.Strategy), zap.Error(err))
			continue
		}
		log.Info("replied", zap.String("strategy", reply.Strategy))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK")) //nolint:errcheck
}
