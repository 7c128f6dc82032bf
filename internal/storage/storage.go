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

// Package storage publishes generated quotation files and hands out
// time-limited download links for them.
//
// Keys are slash-separated object names such as
// "quotes/2026/10/<id>.pdf". Every backend returns a URL that stops
// working once its TTL has passed; none of them makes objects public.
package storage

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidKey   = errors.New("invalid object key")
	ErrInvalidToken = errors.New("invalid or expired download token")
	ErrNotFound     = errors.New("object not found")
)

// Publisher stores the file at localPath under key and returns a signed
// URL for it.
type Publisher interface {
	Publish(ctx context.Context, localPath, key string) (string, error)
}

// contentTypes covers the files the bot produces.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ContentType returns the MIME type for key, or application/octet-stream.
func ContentType(key string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// cleanKey rejects keys that are empty, absolute or escape their root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	if !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", ErrInvalidKey
	}
	return clean, nil
}
