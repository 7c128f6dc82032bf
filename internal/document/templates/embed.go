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

// Package templates provides the bundled quotation document template.
//
// quote/ holds the unzipped parts of a .docx file. word/document.xml is a
// Go text/template; see document.Renderer for the fields it can use.
package templates

import "embed"

//go:embed all:quote
var FS embed.FS
