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

package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoOutput is returned when the converter exits cleanly but leaves no PDF.
var ErrNoOutput = errors.New("converter produced no pdf")

// DefaultConvertTimeout bounds a single LibreOffice run.
const DefaultConvertTimeout = 60 * time.Second

// Converter turns .docx files into PDF with a headless LibreOffice.
type Converter struct {
	bin      string
	timeout  time.Duration
	validate bool
	log      *zap.Logger
}

// ConverterOptions configures a Converter.
type ConverterOptions struct {
	Bin      string // soffice executable; looked up in PATH if not absolute
	Timeout  time.Duration
	Validate bool // run the output through ValidatePDF
	Logger   *zap.Logger
}

func NewConverter(opts ConverterOptions) *Converter {
	if opts.Bin == "" {
		opts.Bin = "soffice"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultConvertTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Converter{bin: opts.Bin, timeout: opts.Timeout, validate: opts.Validate, log: opts.Logger}
}

// Convert writes <name>.pdf next to src and returns its path.
//
// Each run gets its own LibreOffice profile inside the output directory;
// concurrent soffice processes sharing one profile block on its lock.
func (c *Converter) Convert(ctx context.Context, src string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dir := filepath.Dir(src)
	profile := filepath.Join(dir, "lo-profile")
	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")

	cmd := exec.CommandContext(ctx, c.bin,
		"-env:UserInstallation=file://"+filepath.ToSlash(profile),
		"--headless",
		"--convert-to", "pdf",
		"--outdir", dir,
		src,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s: %w", c.bin, ctx.Err())
		}
		return "", fmt.Errorf("%s: %w: %s", c.bin, err, strings.TrimSpace(stderr.String()))
	}
	c.log.Debug("converted document",
		zap.String("src", filepath.Base(src)),
		zap.Duration("took", time.Since(start)),
	)

	if _, err := os.Stat(out); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoOutput
		}
		return "", err
	}
	if c.validate {
		if err := ValidatePDF(out); err != nil {
			return "", fmt.Errorf("validate %s: %w", filepath.Base(out), err)
		}
	}
	return out, nil
}
