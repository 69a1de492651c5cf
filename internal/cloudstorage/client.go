// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package cloudstorage abstracts the object store holding source records and
// output tables. A root is either a plain filesystem path or an
// s3://bucket/prefix URL; keys are slash-separated paths relative to the root.
package cloudstorage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cardinalhq/songlake/internal/awsclient"
)

// Object describes one stored object under a root.
type Object struct {
	Key  string
	Size int64
}

// Client provides a unified interface for storage operations across providers.
type Client interface {
	// List returns all objects whose key starts with the given prefix,
	// in lexical key order. Listing a missing or unreachable root is an
	// error; an empty result is not.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Open returns a stream over the object's bytes.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Put uploads a local file to the given key, replacing any existing
	// object.
	Put(ctx context.Context, key, sourceFilename string) error

	// Delete removes the object at key. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// S3Settings carries optional S3 connection overrides from configuration.
type S3Settings struct {
	Region    string
	Endpoint  string
	RoleARN   string
	PathStyle bool
}

// ForRoot returns a client for the given root. Roots with an s3:// scheme
// are backed by S3; anything else is treated as a local directory.
func ForRoot(ctx context.Context, root string, s3s S3Settings) (Client, error) {
	bucket, prefix, ok := strings.Cut(strings.TrimPrefix(root, "s3://"), "/")
	if !strings.HasPrefix(root, "s3://") {
		return &fileClient{base: root}, nil
	}
	if !ok {
		prefix = ""
	}
	if bucket == "" {
		return nil, fmt.Errorf("invalid s3 root %q: missing bucket", root)
	}

	mgr, err := awsclient.NewManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("create AWS manager: %w", err)
	}
	opts := []awsclient.S3Option{}
	if s3s.Region != "" {
		opts = append(opts, awsclient.WithRegion(s3s.Region))
	}
	if s3s.Endpoint != "" {
		opts = append(opts, awsclient.WithEndpoint(s3s.Endpoint))
	}
	if s3s.RoleARN != "" {
		opts = append(opts, awsclient.WithRole(s3s.RoleARN))
	}
	if s3s.PathStyle {
		opts = append(opts, awsclient.WithPathStyle())
	}
	s3c, err := mgr.GetS3(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}
	return &s3Client{client: s3c, bucket: bucket, prefix: strings.TrimSuffix(prefix, "/")}, nil
}
