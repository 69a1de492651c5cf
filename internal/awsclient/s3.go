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

package awsclient

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Client struct {
	Client *s3.Client
}

type s3Config struct {
	RoleARN  string
	Region   string
	applyS3s []func(*s3.Options)
}

// S3Option is a functional option for GetS3.
type S3Option func(*s3Config)

// WithRole sets the IAM Role ARN to assume (empty = no assume).
func WithRole(roleARN string) S3Option {
	return func(c *s3Config) {
		c.RoleARN = roleARN
	}
}

// WithRegion overrides the AWS region for this call.
func WithRegion(region string) S3Option {
	return func(c *s3Config) {
		c.Region = region
	}
}

// WithEndpoint forces a custom S3 endpoint (eg MinIO, Ceph).
func WithEndpoint(url string) S3Option {
	return func(c *s3Config) {
		c.applyS3s = append(c.applyS3s, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(url)
		})
	}
}

// WithPathStyle uses path-style addressing instead of virtual-host.
func WithPathStyle() S3Option {
	return func(c *s3Config) {
		c.applyS3s = append(c.applyS3s, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
}

// GetS3 returns an S3 client for the given options, caching assumed-role
// credential providers per role ARN.
func (m *Manager) GetS3(ctx context.Context, opts ...S3Option) (*S3Client, error) {
	cfg := &s3Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	awsCfg := m.baseCfg.Copy()
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	if cfg.RoleARN != "" {
		m.Lock()
		provider, ok := m.providers[cfg.RoleARN]
		if !ok {
			provider = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(m.stsClient, cfg.RoleARN,
				func(o *stscreds.AssumeRoleOptions) {
					o.RoleSessionName = m.sessionName
				}))
			m.providers[cfg.RoleARN] = provider
		}
		m.Unlock()
		awsCfg.Credentials = provider
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		for _, apply := range cfg.applyS3s {
			apply(o)
		}
	})
	return &S3Client{Client: client}, nil
}
