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

package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/api/option"
)

func TestGCSPublishAbortsUploadOnReadError(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bucket":"quotes-bucket","name":"a.pdf"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	ctx := context.Background()
	g, err := NewGCS(ctx, "quotes-bucket", "", time.Hour,
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewGCS: %v", err)
	}
	defer g.Close()

	// A directory opens fine but fails on the first read.
	if _, err := g.Publish(ctx, t.TempDir(), "a.pdf"); err == nil {
		t.Fatal("expected upload error")
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("storage received %d requests; a failed copy must not commit an object", n)
	}
}

func TestGCSPublishRejectsUnsafeKey(t *testing.T) {
	g, err := NewGCS(context.Background(), "quotes-bucket", "", time.Hour, option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewGCS: %v", err)
	}
	defer g.Close()

	if _, err := g.Publish(context.Background(), writeTemp(t, "x"), "../a.pdf"); err != ErrInvalidKey {
		t.Errorf("err = %v, want ErrInvalidKey", err)
	}
}
