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

// Package pipeline turns quotation text into published documents:
// parse, price, render a Word file, convert it to PDF, upload both and
// return time-limited links.
//
// Every step runs synchronously inside the caller's request. Scratch files
// live in a per-run temporary directory that is removed when Run returns,
// whether it succeeded or not.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jredh-dev/quotebot/internal/ledger"
	"github.com/jredh-dev/quotebot/internal/quote"
)

// Renderer fills the quotation template and writes a .docx file to dst.
type Renderer interface {
	Render(q quote.Quotation, dst string) error
}

// Converter produces a PDF next to src and returns its path.
type Converter interface {
	Convert(ctx context.Context, src string) (string, error)
}

// Publisher stores a local file under key and returns a time-limited URL.
type Publisher interface {
	Publish(ctx context.Context, localPath, key string) (string, error)
}

// Recorder archives issued quotations.
type Recorder interface {
	Record(ctx context.Context, rec *ledger.Record) error
}

// Result is the outcome of a successful run.
type Result struct {
	quote.Quotation
	DocKey string
	PDFKey string
	DocURL string
	PDFURL string
}

// Options configures a Pipeline. Renderer, Converter and Publisher are
// required; Recorder may be nil.
type Options struct {
	Calculator quote.Calculator
	Renderer   Renderer
	Converter  Converter
	Publisher  Publisher
	Recorder   Recorder
	KeyPrefix  string
	TempDir    string // parent for per-run scratch dirs; empty = os.TempDir()
	Logger     *zap.Logger

	// Overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Pipeline runs quotations. It is safe for concurrent use as long as its
// collaborators are.
type Pipeline struct {
	opts Options
	log  *zap.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{opts: opts, log: log}
}

// Run processes one quotation message. Text without any recognisable line
// items still produces a (zero-valued) quotation.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	req := quote.Parse(text)
	if err := p.opts.Calculator.Apply(req); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	id := p.opts.NewID()
	issued := p.opts.Now()
	q := quote.Quotation{
		ID:       id,
		Number:   quoteNumber(issued, id),
		IssuedAt: issued,
		Request:  req,
	}

	log := p.log.With(zap.String("quote_id", id), zap.String("quote_number", q.Number))
	log.Info("quotation parsed",
		zap.Int("items", len(req.Items)),
		zap.Int64("grand_total", req.GrandTotal),
	)

	dir, err := os.MkdirTemp(p.opts.TempDir, "quote-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("remove scratch dir", zap.String("dir", dir), zap.Error(err))
		}
	}()

	docPath := filepath.Join(dir, q.Number+".docx")
	if err := p.opts.Renderer.Render(q, docPath); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	pdfPath, err := p.opts.Converter.Convert(ctx, docPath)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}

	base := path.Join(p.opts.KeyPrefix, issued.Format("2006/01"), id)
	res := &Result{
		Quotation: q,
		DocKey:    base + ".docx",
		PDFKey:    base + ".pdf",
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := p.opts.Publisher.Publish(gctx, docPath, res.DocKey)
		if err != nil {
			return fmt.Errorf("publish docx: %w", err)
		}
		res.DocURL = url
		return nil
	})
	g.Go(func() error {
		url, err := p.opts.Publisher.Publish(gctx, pdfPath, res.PDFKey)
		if err != nil {
			return fmt.Errorf("publish pdf: %w", err)
		}
		res.PDFURL = url
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if p.opts.Recorder != nil {
		if err := p.opts.Recorder.Record(ctx, ledger.FromQuotation(q, res.DocKey, res.PDFKey)); err != nil {
			// Links are already live; a ledger failure does not fail the run.
			log.Error("record quotation", zap.Error(err))
		}
	}

	log.Info("quotation published", zap.String("doc_key", res.DocKey), zap.String("pdf_key", res.PDFKey))
	return res, nil
}

// quoteNumber is the human-facing identifier printed on the document,
// e.g. Q20261017-1A2B3C4D.
func quoteNumber(issued time.Time, id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Q%s-%s", issued.Format("20060102"), strings.ToUpper(short))
}
