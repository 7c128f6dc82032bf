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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"go.uber.org/zap"

	"github.com/jredh-dev/quotebot/config"
	"github.com/jredh-dev/quotebot/internal/document"
	"github.com/jredh-dev/quotebot/internal/handlers"
	"github.com/jredh-dev/quotebot/internal/ledger"
	"github.com/jredh-dev/quotebot/internal/line"
	"github.com/jredh-dev/quotebot/internal/logger"
	"github.com/jredh-dev/quotebot/internal/pipeline"
	"github.com/jredh-dev/quotebot/internal/quote"
	"github.com/jredh-dev/quotebot/internal/router"
	"github.com/jredh-dev/quotebot/internal/server"
	"github.com/jredh-dev/quotebot/internal/storage"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("quotebot %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg := config.Load()

	log, err := logger.New(logger.Options{Service: "quotebot", Env: cfg.Server.Env, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	srv := server.New(server.Options{Logger: log})

	var lineOpts []messaging_api.MessagingApiAPIOption
	if cfg.Line.APIEndpoint != "" {
		lineOpts = append(lineOpts, messaging_api.WithEndpoint(cfg.Line.APIEndpoint))
	}
	client, err := line.NewClient(cfg.Line.ChannelAccessToken, lineOpts...)
	if err != nil {
		log.Fatal("line client", zap.Error(err))
	}

	deps := handlers.Deps{
		Parser:  line.NewParser(cfg.Line.ChannelSecret),
		Replier: client,
		Logger:  log,
	}

	var fallback router.Fallback = router.Echo{}
	if cfg.Bot.Mode == config.ModeQuote {
		ctx := context.Background()

		publisher, files, err := newPublisher(ctx, cfg, srv)
		if err != nil {
			log.Fatal("storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		}
		deps.Files = files

		store, err := newLedger(ctx, cfg.Ledger)
		if err != nil {
			log.Fatal("ledger", zap.String("backend", cfg.Ledger.Backend), zap.Error(err))
		}
		var recorder pipeline.Recorder
		if store != nil {
			srv.OnStop(func() {
				if err := store.Close(); err != nil {
					log.Warn("close ledger", zap.Error(err))
				}
			})
			recorder = store
			deps.Quotes = store
		}

		p, err := newPipeline(cfg, publisher, recorder, log)
		if err != nil {
			log.Fatal("quotation pipeline", zap.Error(err))
		}
		fallback = &router.Quote{Quoter: p, LinkTTL: cfg.Storage.URLTTL, Log: log}
	}

	rules := router.KeywordRules(cfg.Bot)
	if cfg.Bot.RulesPath != "" {
		extra, err := router.LoadRules(cfg.Bot.RulesPath)
		if err != nil {
			log.Fatal("keyword rules", zap.Error(err))
		}
		rules = append(rules, extra...)
	}
	deps.Router = router.New(rules, fallback, log)
	handlers.New(deps).Mount(srv.Router)

	log.Info("quotebot configured",
		zap.String("version", version),
		zap.String("mode", cfg.Bot.Mode),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("ledger", cfg.Ledger.Backend),
		zap.String("webhook", cfg.Server.PublicBaseURL+"/callback"),
	)

	if err := srv.ListenAndServe(":" + cfg.Server.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func newPipeline(cfg *config.Config, publisher pipeline.Publisher, recorder pipeline.Recorder, log *zap.Logger) (*pipeline.Pipeline, error) {
	calc, err := quote.NewCalculator(cfg.Quote.TaxRate)
	if err != nil {
		return nil, err
	}
	tmpl, err := document.LoadTemplate(cfg.Quote.TemplatePath)
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Options{
		Calculator: calc,
		Renderer:   document.NewRenderer(tmpl, calc.Rate(), time.Local),
		Converter: document.NewConverter(document.ConverterOptions{
			Bin:      cfg.Quote.ConverterBin,
			Timeout:  cfg.Quote.ConvertTimeout,
			Validate: cfg.Quote.ValidatePDF,
			Logger:   log,
		}),
		Publisher: publisher,
		Recorder:  recorder,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Logger:    log,
	}), nil
}

// newPublisher returns the configured storage backend. For the local
// backend it also returns the store, which serves GET /files/{token}.
func newPublisher(ctx context.Context, cfg *config.Config, srv *server.Server) (pipeline.Publisher, handlers.FileOpener, error) {
	sc := cfg.Storage
	switch sc.Backend {
	case config.StorageS3:
		p, err := storage.NewS3(ctx, storage.S3Options{
			Region:          sc.Region,
			Bucket:          sc.Bucket,
			AccessKeyID:     sc.AccessKeyID,
			SecretAccessKey: sc.SecretAccessKey,
			Endpoint:        sc.Endpoint,
			TTL:             sc.URLTTL,
		})
		return p, nil, err
	case config.StorageGCS:
		p, err := storage.NewGCS(ctx, sc.Bucket, sc.CredentialsPath, sc.URLTTL)
		if err != nil {
			return nil, nil, err
		}
		srv.OnStop(func() { p.Close() })
		return p, nil, nil
	case config.StorageLocal:
		p, err := storage.NewLocal(sc.LocalDir, cfg.Server.PublicBaseURL, sc.SigningKey, sc.URLTTL)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}

func newLedger(ctx context.Context, lc config.LedgerConfig) (ledger.Store, error) {
	switch lc.Backend {
	case config.LedgerSQLite:
		return ledger.OpenSQLite(lc.DBPath)
	case config.LedgerFirestore:
		return ledger.OpenFirestore(ctx, ledger.FirestoreConfig{
			ProjectID:       lc.ProjectID,
			CredentialsPath: lc.CredentialsPath,
			Database:        lc.FirestoreDatabase,
		})
	default:
		return nil, nil
	}
}
