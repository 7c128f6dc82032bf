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
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jredh-dev/quotebot/internal/pipeline"
	"github.com/jredh-dev/quotebot/internal/quote"
)

const (
	echoFormat  = "你說了：%s"
	quoteFailed = "抱歉，報價單產生失敗，請稍後再試。"
)

// Echo repeats the message back inside a sentence.
type Echo struct{}

func (Echo) Name() string { return "echo" }

func (Echo) Handle(_ context.Context, text string) Reply {
	return Reply{Strategy: "echo", Texts: []string{fmt.Sprintf(echoFormat, text)}}
}

// Quoter runs the quotation pipeline over a message.
type Quoter interface {
	Run(ctx context.Context, text string) (*pipeline.Result, error)
}

// Quote treats the whole message as a quotation request and replies with
// download links. Pipeline failures become an apology instead of a silent
// drop.
type Quote struct {
	Quoter  Quoter
	LinkTTL time.Duration
	Log     *zap.Logger
}

func (q *Quote) Name() string { return "quote" }

func (q *Quote) Handle(ctx context.Context, text string) Reply {
	res, err := q.Quoter.Run(ctx, text)
	if err != nil {
		if q.Log != nil {
			q.Log.Error("quotation failed", zap.Error(err))
		}
		return Reply{Strategy: "quote_failed", Texts: []string{quoteFailed}}
	}
	return Reply{Strategy: "quote", Texts: []string{q.summary(res)}}
}

func (q *Quote) summary(res *pipeline.Result) string {
	req := res.Request
	s := fmt.Sprintf("報價單 %s 已產生\n", res.Number)
	if req.Owner != "" {
		s += fmt.Sprintf("業主：%s\n", req.Owner)
	}
	s += fmt.Sprintf("總計：%s（稅額 %s）\n", quote.FormatAmount(req.GrandTotal), quote.FormatAmount(req.Tax))
	s += fmt.Sprintf("PDF：%s\nWord：%s", res.PDFURL, res.DocURL)
	if q.LinkTTL > 0 {
		s += "\n連結有效時間：" + humanTTL(q.LinkTTL)
	}
	return s
}

func humanTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d 小時", int(d/time.Hour))
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d 分鐘", int(d/time.Minute))
	}
	return d.String()
}
