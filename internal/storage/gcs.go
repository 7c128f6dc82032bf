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

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS publishes to a Google Cloud Storage bucket and links through V4
// signed URLs. Signing needs a service account key, either from
// credentialsPath or from the application default credentials.
type GCS struct {
	client *gcs.Client
	bucket string
	ttl    time.Duration
}

// Extra client options (endpoint, authentication) are passed to the GCS
// client after the credentials file.
func NewGCS(ctx context.Context, bucket, credentialsPath string, ttl time.Duration, extra ...option.ClientOption) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := gcs.NewClient(ctx, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, ttl: ttl}, nil
}

func (g *GCS) Publish(ctx context.Context, localPath, key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Cancelling the writer's context aborts the upload; closing it would
	// commit whatever was written so far.
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bkt := g.client.Bucket(g.bucket)
	w := bkt.Object(key).NewWriter(uploadCtx)
	w.ContentType = ContentType(key)
	if _, err := io.Copy(w, f); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("upload gs://%s/%s: %w", g.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload gs://%s/%s: %w", g.bucket, key, err)
	}

	url, err := bkt.SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(g.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign gs://%s/%s: %w", g.bucket, key, err)
	}
	return url, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
