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

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jredh-dev/quotebot/internal/ledger"
	"github.com/jredh-dev/quotebot/internal/quote"
)

type fakeRenderer struct {
	got  quote.Quotation
	dst  string
	fail error
}

func (f *fakeRenderer) Render(q quote.Quotation, dst string) error {
	f.got, f.dst = q, dst
	if f.fail != nil {
		return f.fail
	}
	return os.WriteFile(dst, []byte("docx"), 0o644)
}

type fakeConverter struct {
	fail error
}

func (f *fakeConverter) Convert(_ context.Context, src string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	out := strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
	return out, os.WriteFile(out, []byte("%PDF"), 0o644)
}

type fakePublisher struct {
	mu        sync.Mutex
	published map[string]string // key -> local path
	failOn    string
}

func (f *fakePublisher) Publish(_ context.Context, localPath, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && strings.HasSuffix(key, f.failOn) {
		return "", errors.New("bucket unavailable")
	}
	if _, err := os.Stat(localPath); err != nil {
		return "", err
	}
	if f.published == nil {
		f.published = make(map[string]string)
	}
	f.published[key] = localPath
	return "https://files.example.com/" + key + "?sig=abc", nil
}

type fakeRecorder struct {
	records []*ledger.Record
	fail    error
}

func (f *fakeRecorder) Record(_ context.Context, rec *ledger.Record) error {
	if f.fail != nil {
		return f.fail
	}
	f.records = append(f.records, rec)
	return nil
}

type fixture struct {
	renderer  *fakeRenderer
	converter *fakeConverter
	publisher *fakePublisher
	recorder  *fakeRecorder
	tempDir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		renderer:  &fakeRenderer{},
		converter: &fakeConverter{},
		publisher: &fakePublisher{},
		recorder:  &fakeRecorder{},
		tempDir:   t.TempDir(),
	}
}

func (f *fixture) pipeline() *Pipeline {
	return New(Options{
		Renderer:  f.renderer,
		Converter: f.converter,
		Publisher: f.publisher,
		Recorder:  f.recorder,
		KeyPrefix: "quotes",
		TempDir:   f.tempDir,
		Now:       func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) },
		NewID:     func() string { return "1a2b3c4d-0000-4000-8000-000000000000" },
	})
}

func (f *fixture) assertScratchRemoved(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %d entries", len(entries))
	}
}

func TestRun_PublishesBothDocuments(t *testing.T) {
	f := newFixture(t)

	res, err := f.pipeline().Run(context.Background(), "业主：王先生\n地址：台北市中山路1號\nA.維修：1,000")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	req := res.Request
	if req.Owner != "王先生" || req.Address != "台北市中山路1號" {
		t.Errorf("labels = %q / %q", req.Owner, req.Address)
	}
	if req.Total != 1000 || req.Tax != 50 || req.GrandTotal != 1050 {
		t.Errorf("totals = %d / %d / %d", req.Total, req.Tax, req.GrandTotal)
	}

	if res.Number != "Q20261017-1A2B3C4D" {
		t.Errorf("number = %q", res.Number)
	}
	wantBase := "quotes/2026/10/1a2b3c4d-0000-4000-8000-000000000000"
	if res.DocKey != wantBase+".docx" || res.PDFKey != wantBase+".pdf" {
		t.Errorf("keys = %q / %q", res.DocKey, res.PDFKey)
	}
	if !strings.Contains(res.DocURL, res.DocKey) || !strings.Contains(res.PDFURL, res.PDFKey) {
		t.Errorf("urls = %q / %q", res.DocURL, res.PDFURL)
	}
	if len(f.publisher.published) != 2 {
		t.Errorf("published %d files, want 2", len(f.publisher.published))
	}

	if f.renderer.got.Request != req {
		t.Error("renderer did not receive the priced request")
	}
	if filepath.Base(f.renderer.dst) != res.Number+".docx" {
		t.Errorf("render target = %q", f.renderer.dst)
	}

	if len(f.recorder.records) != 1 || f.recorder.records[0].GrandTotal != 1050 {
		t.Errorf("records = %+v", f.recorder.records)
	}

	f.assertScratchRemoved(t)
}

func TestRun_NoItemsIsNotAnError(t *testing.T) {
	f := newFixture(t)

	res, err := f.pipeline().Run(context.Background(), "just some words")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Request.Items) != 0 || res.Request.GrandTotal != 0 {
		t.Errorf("request = %+v", res.Request)
	}
}

func TestRun_StageFailures(t *testing.T) {
	tests := []struct {
		name    string
		breakIt func(f *fixture)
		wantErr string
	}{
		{"render", func(f *fixture) { f.renderer.fail = errors.New("bad template") }, "render"},
		{"convert", func(f *fixture) { f.converter.fail = errors.New("soffice crashed") }, "convert"},
		{"publish docx", func(f *fixture) { f.publisher.failOn = ".docx" }, "publish docx"},
		{"publish pdf", func(f *fixture) { f.publisher.failOn = ".pdf" }, "publish pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.breakIt(f)

			_, err := f.pipeline().Run(context.Background(), "A.維修：1,000")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want prefix %q", err, tt.wantErr)
			}
			if len(f.recorder.records) != 0 {
				t.Error("failed run must not be recorded")
			}
			f.assertScratchRemoved(t)
		})
	}
}

func TestRun_AmountOverflowFailsBeforeRendering(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline().Run(context.Background(), "A.x：9,223,372,036,854,775,807\nB.y：1")
	if !errors.Is(err, quote.ErrAmountOverflow) {
		t.Fatalf("err = %v, want ErrAmountOverflow", err)
	}
	if !strings.HasPrefix(err.Error(), "price") {
		t.Errorf("error = %q, want prefix %q", err, "price")
	}
	if f.renderer.dst != "" {
		t.Error("renderer must not run for an unpriceable quotation")
	}
	if len(f.publisher.published) != 0 || len(f.recorder.records) != 0 {
		t.Error("nothing may be published or recorded")
	}
	f.assertScratchRemoved(t)
}

func TestRun_RecorderFailureDoesNotFailRun(t *testing.T) {
	f := newFixture(t)
	f.recorder.fail = errors.New("ledger down")

	if _, err := f.pipeline().Run(context.Background(), "A.維修：1,000"); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRun_NilRecorder(t *testing.T) {
	f := newFixture(t)
	p := New(Options{
		Renderer:  f.renderer,
		Converter: f.converter,
		Publisher: f.publisher,
		TempDir:   f.tempDir,
	})

	res, err := p.Run(context.Background(), "A.維修：1,000")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(res.Number, "Q") {
		t.Errorf("number = %q", res.Number)
	}
}

func TestQuoteNumber(t *testing.T) {
	issued := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := quoteNumber(issued, "abc"); got != "Q20260102-ABC" {
		t.Errorf("short id = %q", got)
	}
	if got := quoteNumber(issued, "deadbeef-cafe"); got != "Q20260102-DEADBEEF" {
		t.Errorf("uuid = %q", got)
	}
}
