// Package objectstore talks to the S3-compatible bucket holding run files
// and project documents. Browsers never see the bucket credentials: they
// get presigned PUT and GET URLs instead.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/labdrive/internal/common"
)

const amzDateFormat = "20060102T150405Z"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// API is the part of *s3.Client the store calls directly.
type API interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures New.
type Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
	// Expiry is the lifetime of presigned URLs.
	Expiry time.Duration
}

// Object is one listed key.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Store struct {
	bucket  string
	expiry  time.Duration
	api     API
	presign *s3.PresignClient
	clock   clock.Clock
}

// New builds the S3 client with static credentials and path-style
// addressing, which MinIO expects.
func New(ctx context.Context, o Options) (*Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKey,
			o.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		if o.BaseEndpoint != "" {
			opts.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		opts.UsePathStyle = true
	})

	return NewWith(client, newS3PresignClient(client), o.Bucket, o.Expiry, clock.New()), nil
}

// NewWith assembles a Store from prepared clients.
func NewWith(api API, presign *s3.PresignClient, bucket string, expiry time.Duration, clk clock.Clock) *Store {
	return &Store{bucket: bucket, expiry: expiry, api: api, presign: presign, clock: clk}
}

// Expiry returns how long presigned URLs stay valid.
func (s *Store) Expiry() time.Duration { return s.expiry }

// PresignPut returns a URL the holder may PUT key to until the returned
// instant.
func (s *Store) PresignPut(ctx context.Context, key string) (string, time.Time, error) {
	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, s.signedExpiry(req.URL), nil
}

// PresignGet returns a URL the holder may GET key from until the returned
// instant.
func (s *Store) PresignGet(ctx context.Context, key string) (string, time.Time, error) {
	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, s.signedExpiry(req.URL), nil
}

// signedExpiry is the end of the window encoded in a SigV4 URL: X-Amz-Date
// plus the configured lifetime. The signer stamps X-Amz-Date from the wall
// clock, so the store clock is only used when the URL carries no date.
func (s *Store) signedExpiry(raw string) time.Time {
	if u, err := url.Parse(raw); err == nil {
		if signed, err := time.Parse(amzDateFormat, u.Query().Get("X-Amz-Date")); err == nil {
			return signed.Add(s.expiry).UTC()
		}
	}
	return s.clock.Now().Add(s.expiry).UTC()
}

// List returns every object under prefix, following continuation tokens.
func (s *Store) List(ctx context.Context, prefix string) ([]Object, error) {
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	objects := make([]Object, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, o := range page.Contents {
			objects = append(objects, Object{
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}
	return objects, nil
}

// Delete removes key. A missing key yields common.ErrorNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("head %s: %w", key, err)
	}

	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
