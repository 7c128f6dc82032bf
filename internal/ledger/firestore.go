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

package ledger

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

const quotesCollection = "quotes"

// FirestoreConfig selects the Firebase project and database.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsPath string // empty = application default credentials
	Database        string // empty or "(default)" = default database
}

// FirestoreStore is a Store backed by a Firestore collection. Each record
// is a document keyed by the quotation ID.
type FirestoreStore struct {
	client *firestore.Client
}

// OpenFirestore connects to Firestore through a Firebase app.
func OpenFirestore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	if cfg.Database != "" && cfg.Database != firestore.DefaultDatabaseID {
		client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.Database, opts...)
		if err != nil {
			return nil, fmt.Errorf("firestore client: %w", err)
		}
		return &FirestoreStore{client: client}, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the Firestore client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Record writes rec, replacing any document with the same ID.
func (s *FirestoreStore) Record(ctx context.Context, rec *Record) error {
	if _, err := s.client.Collection(quotesCollection).Doc(rec.ID).Set(ctx, rec); err != nil {
		return fmt.Errorf("set quote %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns the newest records first.
func (s *FirestoreStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	docs, err := s.client.Collection(quotesCollection).
		OrderBy("issued_at", firestore.Desc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	records := make([]*Record, 0, len(docs))
	for _, doc := range docs {
		r := &Record{}
		if err := doc.DataTo(r); err != nil {
			return nil, fmt.Errorf("decode quote %s: %w", doc.Ref.ID, err)
		}
		records = append(records, r)
	}
	return records, nil
}
