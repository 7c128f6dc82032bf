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

// Package ledger keeps an archive of issued quotations: who they were for,
// what they cost and where the documents were stored. It holds no
// conversation state.
package ledger

import (
	"context"
	"time"

	"github.com/jredh-dev/quotebot/internal/quote"
)

// Item is one billed line of an archived quotation.
type Item struct {
	Description string `json:"description" firestore:"description"`
	Amount      int64  `json:"amount" firestore:"amount"`
}

// Record is an issued quotation.
type Record struct {
	ID         string    `json:"id" firestore:"id"`
	Number     string    `json:"number" firestore:"number"`
	Owner      string    `json:"owner" firestore:"owner"`
	Address    string    `json:"address" firestore:"address"`
	Items      []Item    `json:"items" firestore:"items"`
	Total      int64     `json:"total" firestore:"total"`
	Tax        int64     `json:"tax" firestore:"tax"`
	GrandTotal int64     `json:"grand_total" firestore:"grand_total"`
	DocKey     string    `json:"doc_key" firestore:"doc_key"`
	PDFKey     string    `json:"pdf_key" firestore:"pdf_key"`
	IssuedAt   time.Time `json:"issued_at" firestore:"issued_at"`
}

// Store persists records.
type Store interface {
	Record(ctx context.Context, rec *Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)
	Close() error
}

// FromQuotation builds a record for q stored under the given keys.
func FromQuotation(q quote.Quotation, docKey, pdfKey string) *Record {
	req := q.Request
	items := make([]Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = Item{Description: it.Description, Amount: it.Amount}
	}
	return &Record{
		ID:         q.ID,
		Number:     q.Number,
		Owner:      req.Owner,
		Address:    req.Address,
		Items:      items,
		Total:      req.Total,
		Tax:        req.Tax,
		GrandTotal: req.GrandTotal,
		DocKey:     docKey,
		PDFKey:     pdfKey,
		IssuedAt:   q.IssuedAt,
	}
}
