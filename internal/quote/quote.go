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

// Package quote turns the free-form text of a chat message into a priced
// quotation: owner, site address, billed line items and their totals.
//
// A Request is built fresh for every inbound message and never shared
// between messages.
package quote

import "time"

// LineItem is a single billed entry on a quotation.
type LineItem struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

// Request is the structured form of one quotation message.
//
// Total, Tax and GrandTotal are zero until a Calculator has been applied.
type Request struct {
	Owner      string     `json:"owner"`
	Address    string     `json:"address"`
	Items      []LineItem `json:"items"`
	Total      int64      `json:"total"`
	Tax        int64      `json:"tax"`
	GrandTotal int64      `json:"grand_total"`
}

// Quotation is a priced Request together with the identity it is issued
// under.
type Quotation struct {
	ID       string    `json:"id"`
	Number   string    `json:"number"`
	IssuedAt time.Time `json:"issued_at"`
	Request  *Request  `json:"request"`
}
