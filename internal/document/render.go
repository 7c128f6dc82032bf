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

// Package document renders quotations to Word files and converts them to
// PDF.
//
// A .docx file is a zip archive; the body lives in word/document.xml. A
// template is any .docx whose document.xml is a Go text/template. Every
// placeholder must sit inside a single run (<w:r>), since Word splits runs
// freely when text is edited.
package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jredh-dev/quotebot/internal/document/templates"
	"github.com/jredh-dev/quotebot/internal/quote"
)

const (
	documentPart     = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
)

// ErrNoDocumentPart is returned for templates without word/document.xml.
var ErrNoDocumentPart = errors.New("template has no " + documentPart)

type part struct {
	name string
	data []byte
}

// Template is a parsed .docx template.
type Template struct {
	parts []part
	doc   *template.Template
}

// LoadTemplate reads the .docx at path, or the bundled template when path
// is empty.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		sub, err := fs.Sub(templates.FS, "quote")
		if err != nil {
			return nil, err
		}
		return loadFS(sub)
	}
	return loadDocx(path)
}

func loadFS(fsys fs.FS) (*Template, error) {
	var parts []part
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		parts = append(parts, part{name: name, data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read bundled template: %w", err)
	}
	return newTemplate(parts)
}

func loadDocx(path string) (*Template, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", path, err)
	}
	defer zr.Close()

	var parts []part
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		parts = append(parts, part{name: f.Name, data: data})
	}
	return newTemplate(parts)
}

func newTemplate(parts []part) (*Template, error) {
	// [Content_Types].xml goes first, as Word writes it.
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].name == contentTypesPart && parts[j].name != contentTypesPart
	})

	for _, p := range parts {
		if p.name != documentPart {
			continue
		}
		doc, err := template.New("document").Option("missingkey=error").Parse(string(p.data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}
		return &Template{parts: parts, doc: doc}, nil
	}
	return nil, ErrNoDocumentPart
}

// Renderer fills a Template with a quotation.
type Renderer struct {
	tmpl     *Template
	taxRate  decimal.Decimal
	location *time.Location
}

// NewRenderer creates a Renderer. The tax rate is only printed; the amounts
// come precomputed on the quotation. A nil location means time.Local.
func NewRenderer(tmpl *Template, taxRate decimal.Decimal, location *time.Location) *Renderer {
	if location == nil {
		location = time.Local
	}
	return &Renderer{tmpl: tmpl, taxRate: taxRate, location: location}
}

// View is the data document.xml is executed against. String fields are
// already XML-escaped.
type View struct {
	Number     string
	IssuedDate string
	Owner      string
	Address    string
	Items      []ViewItem
	Total      string
	Tax        string
	TaxRate    string
	GrandTotal string
}

type ViewItem struct {
	Index       int
	Description string
	Amount      string
}

func (r *Renderer) view(q quote.Quotation) View {
	req := q.Request
	items := make([]ViewItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = ViewItem{
			Index:       i + 1,
			Description: escape(it.Description),
			Amount:      quote.FormatAmount(it.Amount),
		}
	}
	return View{
		Number:     escape(q.Number),
		IssuedDate: q.IssuedAt.In(r.location).Format("2006-01-02"),
		Owner:      escape(req.Owner),
		Address:    escape(req.Address),
		Items:      items,
		Total:      quote.FormatAmount(req.Total),
		Tax:        quote.FormatAmount(req.Tax),
		TaxRate:    r.taxRate.Shift(2).String() + "%",
		GrandTotal: quote.FormatAmount(req.GrandTotal),
	}
}

// Render writes the filled .docx to dst. dst is removed if rendering fails.
func (r *Renderer) Render(q quote.Quotation, dst string) (err error) {
	var doc bytes.Buffer
	if err := r.tmpl.doc.Execute(&doc, r.view(q)); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	zw := zip.NewWriter(f)
	for _, p := range r.tmpl.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
		data := p.data
		if p.name == documentPart {
			data = doc.Bytes()
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func escape(s string) string {
	var b strings.Builder
	// xml.EscapeText only fails when the writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
