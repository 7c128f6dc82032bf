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
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrEmptyPDF is returned for a structurally valid PDF without pages.
var ErrEmptyPDF = errors.New("pdf has no pages")

func init() {
	// Keep pdfcpu from writing a config directory under $HOME.
	model.ConfigPath = "disable"
}

// ValidatePDF checks that path is a readable PDF with at least one page.
func ValidatePDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return fmt.Errorf("pdfcpu read: %w", err)
	}
	if ctx.PageCount < 1 {
		return ErrEmptyPDF
	}
	return nil
}
