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

// Package router decides how the bot answers one inbound text message.
//
// Keyword rules are tried in order and the first match wins. Text that no
// rule claims goes to the fallback strategy: an echo in the basic bot, the
// quotation pipeline in the quote bot. Nothing is remembered between
// messages.
package router

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jredh-dev/quotebot/config"
)

// MatchKind controls how a Rule's keyword is compared to the message.
type MatchKind int

const (
	MatchExact  MatchKind = iota // whole message, case-insensitive
	MatchPrefix                  // message starts with keyword, case-insensitive
)

// Rule is a canned keyword reply.
type Rule struct {
	ID      string
	Match   MatchKind
	Keyword string
	Reply   string
}

// Reply is what the bot sends back. Strategy names the branch that produced
// it, for logs and tests.
type Reply struct {
	Strategy string
	Texts    []string
}

// Fallback answers messages that no rule matched.
type Fallback interface {
	Name() string
	Handle(ctx context.Context, text string) Reply
}

// Router holds the rules and the fallback.
type Router struct {
	rules    []Rule
	fallback Fallback
	log      *zap.Logger
}

// New creates a Router. A nil logger disables logging.
func New(rules []Rule, fallback Fallback, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{rules: rules, fallback: fallback, log: log}
}

// KeywordRules returns the schedule and completion rules from config, in
// dispatch order.
func KeywordRules(cfg config.BotConfig) []Rule {
	return []Rule{
		{ID: "schedule", Match: MatchExact, Keyword: cfg.ScheduleKeyword, Reply: cfg.ScheduleReply},
		{ID: "done", Match: MatchPrefix, Keyword: cfg.DoneKeyword, Reply: cfg.DoneReply},
	}
}

// Route picks exactly one strategy for text and returns its reply.
func (r *Router) Route(ctx context.Context, text string) Reply {
	for _, rule := range r.rules {
		if rule.matches(text) {
			r.log.Debug("rule matched", zap.String("rule", rule.ID))
			return Reply{Strategy: rule.ID, Texts: []string{rule.Reply}}
		}
	}

	r.log.Debug("no rule matched", zap.String("fallback", r.fallback.Name()))
	return r.fallback.Handle(ctx, text)
}

func (rule Rule) matches(text string) bool {
	if rule.Keyword == "" {
		return false
	}
	switch rule.Match {
	case MatchExact:
		return strings.EqualFold(text, rule.Keyword)
	case MatchPrefix:
		return strings.HasPrefix(strings.ToLower(text), strings.ToLower(rule.Keyword))
	default:
		return false
	}
}
