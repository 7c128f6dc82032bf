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

package router

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk form of extra keyword rules:
//
//	rules:
//	  - id: hours
//	    match: exact
//	    keyword: 營業時間
//	    reply: 週一至週五 9:00-18:00
type ruleFile struct {
	Rules []struct {
		ID      string `yaml:"id"`
		Match   string `yaml:"match"`
		Keyword string `yaml:"keyword"`
		Reply   string `yaml:"reply"`
	} `yaml:"rules"`
}

// LoadRules reads extra keyword rules from a YAML file.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes YAML rules, keeping file order. match defaults to
// exact.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rules := make([]Rule, 0, len(f.Rules))
	for i, r := range f.Rules {
		if r.Keyword == "" || r.Reply == "" {
			return nil, fmt.Errorf("rule %d: keyword and reply are required", i+1)
		}
		var kind MatchKind
		switch strings.ToLower(r.Match) {
		case "", "exact":
			kind = MatchExact
		case "prefix":
			kind = MatchPrefix
		default:
			return nil, fmt.Errorf("rule %d: unknown match %q", i+1, r.Match)
		}
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("rule-%d", i+1)
		}
		rules = append(rules, Rule{ID: id, Match: kind, Keyword: r.Keyword, Reply: r.Reply})
	}
	return rules, nil
}
