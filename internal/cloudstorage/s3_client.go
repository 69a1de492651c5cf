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

package cloudstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/cardinalhq/songlake/internal/awsclient"
)

type s3Client struct {
	client *awsclient.S3Client
	bucket string
	prefix string
}

func (c *s3Client) fullKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + "/" + key
}

func s3ErrorIs404(err error) bool {
	var noKeyErr *types.NoSuchKey
	return errors.As(err, &noKeyErr)
}

func (c *s3Client) List(ctx context.Context, prefix string) ([]Object, error) {
	full := c.fullKey(prefix)
	if full != "" && !strings.HasSuffix(full, "/") {
		full += "/"
	}

	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(c.client.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(full),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket" {
				return nil, fmt.Errorf("list s3://%s/%s: bucket does not exist: %w", c.bucket, full, err)
			}
			return nil, fmt.Errorf("list s3://%s/%s: %w", c.bucket, full, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if c.prefix != "" {
				key = strings.TrimPrefix(key, c.prefix+"/")
			}
			objects = append(objects, Object{Key: key, Size: aws.ToInt64(obj.Size)})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (c *s3Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.client.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.fullKey(key)),
	})
	if err != nil {
		if s3ErrorIs404(err) {
			return nil, fmt.Errorf("s3://%s/%s: %w", c.bucket, c.fullKey(key), os.ErrNotExist)
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", c.bucket, c.fullKey(key), err)
	}
	return out.Body, nil
}

func (c *s3Client) Put(ctx context.Context, key, sourceFilename string) error {
	uploader := manager.NewUploader(c.client.Client)
	file, err := os.Open(sourceFilename)
	if err != nil {
		return fmt.Errorf("open source file %s: %w", sourceFilename, err)
	}
	defer func() { _ = file.Close() }()

	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.fullKey(key)),
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", c.bucket, c.fullKey(key), err)
	}
	return nil
}

func (c *s3Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.fullKey(key)),
	})
	if err != nil && !s3ErrorIs404(err) {
		return fmt.Errorf("delete s3://%s/%s: %w", c.bucket, c.fullKey(key), err)
	}
	return nil
}
