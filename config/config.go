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

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Bot modes.
const (
	ModeEcho  = "echo"
	ModeQuote = "quote"
)

// Storage backends.
const (
	StorageS3    = "s3"
	StorageGCS   = "gcs"
	StorageLocal = "local"
)

// Ledger backends.
const (
	LedgerNone      = "none"
	LedgerSQLite    = "sqlite"
	LedgerFirestore = "firestore"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Line    LineConfig
	Bot     BotConfig
	Quote   QuoteConfig
	Storage StorageConfig
	Ledger  LedgerConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string // used to build links for the local storage backend
}

type LogConfig struct {
	Level string
}

type LineConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
	APIEndpoint        string // empty = https://api.line.me
}

type BotConfig struct {
	Mode            string // echo or quote
	ScheduleKeyword string
	ScheduleReply   string
	DoneKeyword     string
	DoneReply       string
	RulesPath       string // optional YAML file of extra keyword rules
}

type QuoteConfig struct {
	TemplatePath   string // empty = embedded template
	TaxRate        string
	ConverterBin   string
	ConvertTimeout time.Duration
	ValidatePDF    bool
}

type StorageConfig struct {
	Backend   string
	Bucket    string
	KeyPrefix string
	URLTTL    time.Duration

	// S3
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, for S3-compatible services

	// GCS
	CredentialsPath string

	// Local
	LocalDir   string
	SigningKey string
}

type LedgerConfig struct {
	Backend string
	DBPath  string

	// Firestore
	ProjectID         string
	CredentialsPath   string
	FirestoreDatabase string
}

// Load returns application configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() *Config {
	// Load the .env file for dev (ignore error if file doesn't exist for prod)
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")

	return &Config{
		Server: ServerConfig{
			Port:          port,
			Env:           getEnv("ENV", "development"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Line: LineConfig{
			ChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
			ChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
			APIEndpoint:        getEnv("LINE_API_ENDPOINT", ""),
		},
		Bot: BotConfig{
			Mode:            strings.ToLower(getEnv("BOT_MODE", ModeQuote)),
			ScheduleKeyword: getEnv("SCHEDULE_KEYWORD", "今天排程"),
			ScheduleReply:   getEnv("SCHEDULE_REPLY", "今天要去：XX大樓、YY大廈維修！"),
			DoneKeyword:     getEnv("DONE_KEYWORD", "完成"),
			DoneReply:       getEnv("DONE_REPLY", "好的，已記錄完成。"),
			RulesPath:       getEnv("BOT_RULES_PATH", ""),
		},
		Quote: QuoteConfig{
			TemplatePath:   getEnv("QUOTE_TEMPLATE_PATH", ""),
			TaxRate:        getEnv("QUOTE_TAX_RATE", "0.05"),
			ConverterBin:   getEnv("CONVERTER_BIN", "soffice"),
			ConvertTimeout: getEnvDuration("CONVERT_TIMEOUT", 60*time.Second),
			ValidatePDF:    getEnvBool("VALIDATE_PDF", true),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", StorageS3)),
			Bucket:          getEnv("STORAGE_BUCKET", ""),
			KeyPrefix:       getEnv("STORAGE_KEY_PREFIX", "quotes"),
			URLTTL:          getEnvDuration("STORAGE_URL_TTL", time.Hour),
			Region:          getEnv("AWS_REGION", "ap-northeast-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			CredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),
			LocalDir:        getEnv("LOCAL_STORAGE_DIR", "./data/files"),
			SigningKey:      getEnv("LOCAL_SIGNING_KEY", ""),
		},
		Ledger: LedgerConfig{
			Backend:           strings.ToLower(getEnv("LEDGER_BACKEND", LedgerNone)),
			DBPath:            getEnv("LEDGER_DB_PATH", "./data/quotes.db"),
			ProjectID:         getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath:   getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			FirestoreDatabase: getEnv("FIRESTORE_DATABASE", "(default)"),
		},
	}
}

// Validate reports every missing or inconsistent setting. The messaging
// credentials are always required; storage settings only in quote mode.
func (c *Config) Validate() error {
	var missing []string
	var errs []error

	if c.Line.ChannelAccessToken == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if c.Line.ChannelSecret == "" {
		missing = append(missing, "LINE_CHANNEL_SECRET")
	}

	switch c.Bot.Mode {
	case ModeEcho:
	case ModeQuote:
		switch c.Storage.Backend {
		case StorageS3:
			if c.Storage.Bucket == "" {
				missing = append(missing, "STORAGE_BUCKET")
			}
			if c.Storage.AccessKeyID == "" {
				missing = append(missing, "AWS_ACCESS_KEY_ID")
			}
			if c.Storage.SecretAccessKey == "" {
				missing = append(missing, "AWS_SECRET_ACCESS_KEY")
			}
		case StorageGCS:
			if c.Storage.Bucket == "" {
				missing = append(missing, "STORAGE_BUCKET")
			}
		case StorageLocal:
			if c.Storage.SigningKey == "" {
				missing = append(missing, "LOCAL_SIGNING_KEY")
			}
		default:
			errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
		}
		if c.Storage.URLTTL <= 0 {
			errs = append(errs, errors.New("STORAGE_URL_TTL must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BOT_MODE %q", c.Bot.Mode))
	}

	switch c.Ledger.Backend {
	case LedgerNone, LedgerSQLite:
	case LedgerFirestore:
		if c.Ledger.ProjectID == "" {
			missing = append(missing, "FIREBASE_PROJECT_ID")
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_BACKEND %q", c.Ledger.Backend))
	}

	if len(missing) > 0 {
		errs = append([]error{fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))}, errs...)
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolVal, err := strconv.ParseBool(value)
		if err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
