package objectstore

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/labdrive/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pages     []*s3.ListObjectsV2Output
	listCalls []*s3.ListObjectsV2Input
	listErr   error
	headErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls = append(f.listCalls, in)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pages[len(f.listCalls)-1], nil
}

func (f *fakeAPI) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), Options{
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "labdrive",
		BaseEndpoint: "http://127.0.0.1:9000",
		Expiry:       15 * time.Minute,
	})
	require.NoError(t, err)
	return s
}

func TestNew_AppliesOptions(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	s, err := New(context.Background(), Options{Region: "eu-west-1", Bucket: "b", BaseEndpoint: "http://minio:9000", Expiry: time.Minute})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, time.Minute, s.Expiry())
}

func TestNew_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := New(context.Background(), Options{})
	assert.ErrorContains(t, err, "no config")
}

func TestPresignPut_SignsPathStyleURL(t *testing.T) {
	s := newTestStore(t)
	mock := clock.NewMock()
	mock.Set(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	s.clock = mock

	raw, expiry, err := s.PresignPut(context.Background(), "projects/p/runs/r/raw_data/a.csv")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/labdrive/projects/p/runs/r/raw_data/a.csv", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	signed, err := time.Parse("20060102T150405Z", u.Query().Get("X-Amz-Date"))
	require.NoError(t, err)
	assert.Equal(t, signed.Add(15*time.Minute).UTC(), expiry, "expiry must match the signed window, not the store clock")
}

func TestPresign_ExpiryFollowsSignedDate(t *testing.T) {
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() { presignPutObject, presignGetObject = origPut, origGet })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://minio/b/k?X-Amz-Date=20260301T120000Z&X-Amz-Expires=60"}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://minio/b/k?X-Amz-Expires=60"}, nil
	}

	mock := clock.NewMock()
	mock.Set(time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC))
	s := NewWith(&fakeAPI{}, nil, "b", time.Minute, mock)

	_, expiry, err := s.PresignPut(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC), expiry)

	// no X-Amz-Date: fall back to the store clock
	_, expiry, err = s.PresignGet(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 13, 31, 0, 0, time.UTC), expiry)
}

func TestPresignGet_SignsURL(t *testing.T) {
	s := newTestStore(t)

	raw, _, err := s.PresignGet(context.Background(), "projects/p/documents/plan.pdf")
	require.NoError(t, err)
	assert.True(t, strings.Contains(raw, "/labdrive/projects/p/documents/plan.pdf?"), raw)
}

func TestPresign_Errors(t *testing.T) {
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() { presignPutObject, presignGetObject = origPut, origGet })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put boom")
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get boom")
	}

	s := NewWith(&fakeAPI{}, nil, "b", time.Minute, clock.New())

	_, _, err := s.PresignPut(context.Background(), "k")
	assert.ErrorContains(t, err, "put boom")
	_, _, err = s.PresignGet(context.Background(), "k")
	assert.ErrorContains(t, err, "get boom")
}

func TestList_FollowsContinuation(t *testing.T) {
	now := time.Now().UTC()
	api := &fakeAPI{pages: []*s3.ListObjectsV2Output{
		{
			Contents:              []types.Object{{Key: aws.String("p/a.csv"), Size: aws.Int64(3), LastModified: aws.Time(now)}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents: []types.Object{{Key: aws.String("p/b.csv"), Size: aws.Int64(5)}},
		},
	}}
	s := NewWith(api, nil, "b", time.Minute, clock.New())

	got, err := s.List(context.Background(), "p/")
	require.NoError(t, err)
	assert.Equal(t, []Object{
		{Key: "p/a.csv", Size: 3, LastModified: now},
		{Key: "p/b.csv", Size: 5},
	}, got)
	require.Len(t, api.listCalls, 2)
	assert.Equal(t, "p/", aws.ToString(api.listCalls[0].Prefix))
	assert.Equal(t, "next", aws.ToString(api.listCalls[1].ContinuationToken))
}

func TestList_Empty(t *testing.T) {
	s := NewWith(&fakeAPI{pages: []*s3.ListObjectsV2Output{{}}}, nil, "b", time.Minute, clock.New())

	got, err := s.List(context.Background(), "none/")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_Error(t *testing.T) {
	s := NewWith(&fakeAPI{listErr: errors.New("denied")}, nil, "b", time.Minute, clock.New())

	_, err := s.List(context.Background(), "p/")
	assert.ErrorContains(t, err, "denied")
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	s := NewWith(api, nil, "b", time.Minute, clock.New())

	require.NoError(t, s.Delete(context.Background(), "p/a.csv"))
	assert.Equal(t, []string{"p/a.csv"}, api.deleted)
}

func TestDelete_Missing(t *testing.T) {
	api := &fakeAPI{headErr: &types.NotFound{}}
	s := NewWith(api, nil, "b", time.Minute, clock.New())

	err := s.Delete(context.Background(), "p/a.csv")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, api.deleted)
}

func TestDelete_Errors(t *testing.T) {
	s := NewWith(&fakeAPI{headErr: errors.New("timeout")}, nil, "b", time.Minute, clock.New())
	err := s.Delete(context.Background(), "k")
	assert.ErrorContains(t, err, "timeout")
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	s = NewWith(&fakeAPI{deleteErr: errors.New("denied")}, nil, "b", time.Minute, clock.New())
	assert.ErrorContains(t, s.Delete(context.Background(), "k"), "denied")
}
