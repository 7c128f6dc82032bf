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

package quote

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Line labels. Both the traditional and simplified spelling of "owner" are
// accepted since people type on whichever keyboard they have.
var (
	ownerLabels   = []string{"業主", "业主"}
	addressLabels = []string{"地址"}
	labelSeps     = []string{"：", ":"}
)

// itemPattern matches "<code><sep><description><sep><amount>", e.g.
// "A.維修：1,000" or "3 Cable run 12,500". The code group is not kept.
//
// Separators include Unicode space separators such as the ideographic space
// (U+3000) Chinese input methods type. Amounts may be typed with full-width
// digits and commas; those are folded to ASCII by parseAmount.
var itemPattern = regexp.MustCompile(`^([A-Za-z0-9]+)[.:\s\p{Zs}]+(.+?)[：:\s\p{Zs}]+([0-9０-９][0-9０-９,，]*)`)

// Parse reads text line by line and collects the owner, address and line
// items it finds. Lines that match nothing are skipped; Parse never fails.
//
// The owner/address checks and the item check are independent, so a single
// line can populate a label and an item at the same time. Later labels
// overwrite earlier ones.
func Parse(text string) *Request {
	req := &Request{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if v, ok := labelValue(line, ownerLabels); ok {
			req.Owner = v
		} else if v, ok := labelValue(line, addressLabels); ok {
			req.Address = v
		}

		if item, ok := parseItem(line); ok {
			req.Items = append(req.Items, item)
		}
	}

	return req
}

// labelValue returns the trimmed text after "<label><sep>" when line starts
// with one of labels.
func labelValue(line string, labels []string) (string, bool) {
	for _, label := range labels {
		rest, ok := strings.CutPrefix(line, label)
		if !ok {
			continue
		}
		for _, sep := range labelSeps {
			if v, ok := strings.CutPrefix(rest, sep); ok {
				return strings.TrimSpace(v), true
			}
		}
	}
	return "", false
}

func parseItem(line string) (LineItem, bool) {
	m := itemPattern.FindStringSubmatch(line)
	if m == nil {
		return LineItem{}, false
	}

	amount, ok := parseAmount(m[3])
	if !ok {
		return LineItem{}, false
	}

	return LineItem{
		Description: strings.TrimSpace(m[2]),
		Amount:      amount,
	}, true
}

// parseAmount converts a comma-grouped numeral into an integer.
func parseAmount(s string) (int64, bool) {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, ",", "")

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
