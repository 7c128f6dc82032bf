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
	"errors"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jredh-dev/quotebot/internal/ledger"
	"github.com/jredh-dev/quotebot/internal/storage"
)

const (
	defaultQuoteLimit = 20
	maxQuoteLimit     = 100
)

// File serves a document published to local storage.
// GET /files/{token}
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	f, key, err := h.files.Open(chi.URLParam(r, "token"))
	switch {
	case errors.Is(err, storage.ErrInvalidToken):
		http.Error(w, "link is invalid or has expired", http.StatusForbidden)
		return
	case errors.Is(err, storage.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		h.log.Error("open stored file", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.log.Error("stat stored file", zap.String("key", key), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := path.Base(key)
	w.Header().Set("Content-Type", storage.ContentType(key))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// ListQuotes returns the most recent archived quotations.
// GET /api/quotes?limit=N
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	limit := defaultQuoteLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxQuoteLimit {
			jsonError(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := h.quotes.Recent(r.Context(), limit)
	if err != nil {
		h.log.Error("list quotes", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []*ledger.Record{}
	}
	jsonOK(w, http.StatusOK, map[string]interface{}{"quotes": recs})
}
