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

// Package handlers serves the bot's HTTP surface: the LINE webhook, signed
// document downloads and a read-only view of the quotation ledger.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jredh-dev/quotebot/internal/ledger"
	"github.com/jredh-dev/quotebot/internal/line"
	"github.com/jredh-dev/quotebot/internal/router"
)

// Dispatcher picks the reply for one inbound text.
type Dispatcher interface {
	Route(ctx context.Context, text string) router.Reply
}

// FileOpener resolves a signed download token to a stored file.
type FileOpener interface {
	Open(token string) (*os.File, string, error)
}

// QuoteLister lists archived quotations, newest first.
type QuoteLister interface {
	Recent(ctx context.Context, limit int) ([]*ledger.Record, error)
}

// Deps are the Handler's collaborators. Files and Quotes are optional;
// their routes are only mounted when set.
type Deps struct {
	Parser  *line.Parser
	Replier line.Replier
	Router  Dispatcher
	Files   FileOpener
	Quotes  QuoteLister
	Logger  *zap.Logger
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	parser  *line.Parser
	replier line.Replier
	router  Dispatcher
	files   FileOpener
	quotes  QuoteLister
	log     *zap.Logger
}

// New creates a new Handler.
func New(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		parser:  d.Parser,
		replier: d.Replier,
		router:  d.Router,
		files:   d.Files,
		quotes:  d.Quotes,
		log:     log,
	}
}

// Mount registers the handler's routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/callback", h.Callback)
	if h.files != nil {
		r.Get("/files/{token}", h.File)
	}
	if h.quotes != nil {
		r.Get("/api/quotes", h.ListQuotes)
	}
}

// Index answers liveness probes from LINE's console and humans alike.
// GET /
func (h *Handler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("LINE Bot is running!")) //nolint:errcheck
}

func jsonOK(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
