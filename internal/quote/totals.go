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
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the business tax applied to every quotation (5%).
var DefaultTaxRate = decimal.New(5, -2)

// Calculator derives subtotal, tax and grand total from line items.
// The zero value uses DefaultTaxRate.
type Calculator struct {
	rate decimal.Decimal
	set  bool
}

// NewCalculator returns a Calculator using rate, e.g. "0.05".
func NewCalculator(rate string) (Calculator, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return Calculator{}, fmt.Errorf("parse tax rate %q: %w", rate, err)
	}
	if d.IsNegative() {
		return Calculator{}, fmt.Errorf("tax rate %q is negative", rate)
	}
	return Calculator{rate: d, set: true}, nil
}

// Rate returns the tax rate in use.
func (c Calculator) Rate() decimal.Decimal {
	if !c.set {
		return DefaultTaxRate
	}
	return c.rate
}

// ErrAmountOverflow is returned when a total does not fit in an int64.
var ErrAmountOverflow = errors.New("quotation amount out of range")

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// Totals returns the sum of item amounts, the tax on that sum truncated to
// a whole unit, and their sum. An empty slice yields three zeros. Sums that
// leave the int64 range fail with ErrAmountOverflow.
func (c Calculator) Totals(items []LineItem) (total, tax, grandTotal int64, err error) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromInt(it.Amount))
	}
	t := sum.Mul(c.Rate()).Floor()
	grand := sum.Add(t)

	for _, d := range []decimal.Decimal{sum, t, grand} {
		if d.LessThan(minAmount) || d.GreaterThan(maxAmount) {
			return 0, 0, 0, ErrAmountOverflow
		}
	}
	return sum.IntPart(), t.IntPart(), grand.IntPart(), nil
}

// Apply fills the computed fields of r. r is left untouched on error.
func (c Calculator) Apply(r *Request) error {
	total, tax, grand, err := c.Totals(r.Items)
	if err != nil {
		return err
	}
	r.Total, r.Tax, r.GrandTotal = total, tax, grand
	return nil
}

// Totals computes totals with DefaultTaxRate.
func Totals(items []LineItem) (total, tax, grandTotal int64, err error) {
	return Calculator{}.Totals(items)
}
