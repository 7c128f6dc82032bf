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
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id          TEXT PRIMARY KEY,
	number      TEXT NOT NULL UNIQUE,
	owner       TEXT NOT NULL DEFAULT '',
	address     TEXT NOT NULL DEFAULT '',
	items       TEXT NOT NULL DEFAULT '[]', -- JSON array of {description, amount}
	total       INTEGER NOT NULL DEFAULT 0,
	tax         INTEGER NOT NULL DEFAULT 0,
	grand_total INTEGER NOT NULL DEFAULT 0,
	doc_key     TEXT NOT NULL DEFAULT '',
	pdf_key     TEXT NOT NULL DEFAULT '',
	issued_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quotes_issued_at ON quotes(issued_at);
`

// SQLiteStore is a Store backed by a local SQLite file.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer, many readers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

// Close shuts down the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Record inserts rec.
func (s *SQLiteStore) Record(ctx context.Context, rec *Record) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO quotes (id, number, owner, address, items, total, tax, grand_total, doc_key, pdf_key, issued_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Number, rec.Owner, rec.Address, string(items),
		rec.Total, rec.Tax, rec.GrandTotal, rec.DocKey, rec.PDFKey, rec.IssuedAt.UTC().Truncate(time.Second),
	)
	if err != nil {
		return fmt.Errorf("insert quote %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns the newest records first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, number, owner, address, items, total, tax, grand_total, doc_key, pdf_key, issued_at
		 FROM quotes ORDER BY issued_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		r := &Record{}
		var items string
		if err := rows.Scan(
			&r.ID, &r.Number, &r.Owner, &r.Address, &items,
			&r.Total, &r.Tax, &r.GrandTotal, &r.DocKey, &r.PDFKey, &r.IssuedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(items), &r.Items); err != nil {
			return nil, fmt.Errorf("decode items for %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
