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
	"reflect"
	"testing"
)

func TestParse_QuotationMessage(t *testing.T) {
	req := Parse("业主：王先生\n地址：台北市中山路1號\nA.維修：1,000")

	if req.Owner != "王先生" {
		t.Errorf("owner = %q, want %q", req.Owner, "王先生")
	}
	if req.Address != "台北市中山路1號" {
		t.Errorf("address = %q, want %q", req.Address, "台北市中山路1號")
	}
	want := []LineItem{{Description: "維修", Amount: 1000}}
	if !reflect.DeepEqual(req.Items, want) {
		t.Errorf("items = %+v, want %+v", req.Items, want)
	}
}

func TestParse_ItemLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *LineItem
	}{
		{"full-width colon", "A.Widget：1,250", &LineItem{"Widget", 1250}},
		{"ascii colon", "B:Pipe:300", &LineItem{"Pipe", 300}},
		{"whitespace separators", "3 Cable run 12,500", &LineItem{"Cable run", 12500}},
		{"several separators", "C.   電線   2,000", &LineItem{"電線", 2000}},
		{"multi-group numeral", "D.Panel：1,234,567", &LineItem{"Panel", 1234567}},
		{"full-width digits", "E.清潔：１，５００", &LineItem{"清潔", 1500}},
		{"trailing text ignored", "F.Paint：800 元", &LineItem{"Paint", 800}},
		{"windows line ending", "G.Tile：90\r", &LineItem{"Tile", 90}},
		{"no code", "維修：1,000", nil},
		{"no amount", "A.維修：", nil},
		{"no separator after code", "A維修", nil},
		{"plain sentence", "hello there", nil},
		{"overflow", "H.Big：99999999999999999999", nil},
		{"ideographic spaces", "A\u3000維修\u30001,000", &LineItem{"維修", 1000}},
		{"ideographic space after code", "J.\u3000配管：450", &LineItem{"配管", 450}},
		{"no-break space separator", "K\u00a0Lamp\u00a02,000", &LineItem{"Lamp", 2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Parse(tt.line)
			if tt.want == nil {
				if len(req.Items) != 0 {
					t.Fatalf("expected no items, got %+v", req.Items)
				}
				return
			}
			if len(req.Items) != 1 {
				t.Fatalf("expected 1 item, got %+v", req.Items)
			}
			if req.Items[0] != *tt.want {
				t.Errorf("item = %+v, want %+v", req.Items[0], *tt.want)
			}
		})
	}
}

func TestParse_AmountStripsCommas(t *testing.T) {
	cases := map[string]int64{
		"1":         1,
		"1,000":     1000,
		"10,000":    10000,
		"1,2,3":     123,
		"1,000,000": 1000000,
	}
	for numeral, want := range cases {
		req := Parse("A.Item：" + numeral)
		if len(req.Items) != 1 {
			t.Fatalf("%s: expected 1 item, got %d", numeral, len(req.Items))
		}
		if req.Items[0].Amount != want {
			t.Errorf("%s: amount = %d, want %d", numeral, req.Items[0].Amount, want)
		}
	}
}

func TestParse_KeepsOrderOfAppearance(t *testing.T) {
	req := Parse("B.Second：2\nnoise line\nA.First：1\nC.Third：3")

	var got []string
	for _, it := range req.Items {
		got = append(got, it.Description)
	}
	want := []string{"Second", "First", "Third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestParse_LabelsLastWriteWins(t *testing.T) {
	req := Parse("業主：甲\n地址：舊址\n業主：乙\n地址: 新址 ")

	if req.Owner != "乙" {
		t.Errorf("owner = %q, want 乙", req.Owner)
	}
	if req.Address != "新址" {
		t.Errorf("address = %q, want 新址", req.Address)
	}
}

func TestParse_LabelNeedsSeparator(t *testing.T) {
	req := Parse("業主王先生\n地址")
	if req.Owner != "" || req.Address != "" {
		t.Errorf("expected empty labels, got owner=%q address=%q", req.Owner, req.Address)
	}
}

// Label and item checks run independently, but labels start with a CJK
// character and item codes with an ASCII letter or digit, so no single
// line can fill both.
func TestParse_LabelAndItemDoNotOverlap(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		owner   string
		address string
		items   int
	}{
		{"owner line shaped like an item", "業主：A.x：1", "A.x：1", "", 0},
		{"address line shaped like an item", "地址：3 Main St 100", "", "3 Main St 100", 0},
		{"item mentioning a label", "A.業主：500", "", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Parse(tt.line)
			if req.Owner != tt.owner || req.Address != tt.address || len(req.Items) != tt.items {
				t.Errorf("Parse(%q) = owner %q, address %q, items %+v", tt.line, req.Owner, req.Address, req.Items)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   "} {
		req := Parse(in)
		if req.Owner != "" || req.Address != "" || len(req.Items) != 0 {
			t.Errorf("Parse(%q) = %+v, want empty request", in, req)
		}
	}
}
