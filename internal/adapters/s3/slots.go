package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/pkg/metrics"
)

// Slots implements ports.SlotStore with one object per key in an
// S3-compatible bucket. A PutObject replaces the object atomically.
type Slots struct {
	client *minio.Client
	bucket string
	prefix string
}

// Options configures the S3 connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// New connects to the endpoint and makes sure the bucket exists.
func New(ctx context.Context, opts Options) (*Slots, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
		slog.Info("created slot bucket", "bucket", opts.Bucket)
	}

	return &Slots{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

func (s *Slots) objectKey(key string) string {
	return s.prefix + key + ".json"
}

func (s *Slots) Get(ctx context.Context, key string) ([]byte, error) {
	defer metrics.ObserveSlot("s3", "get", time.Now())

	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.ErrSlotEmpty
		}
		return nil, err
	}
	return data, nil
}

func (s *Slots) Set(ctx context.Context, key string, value []byte) error {
	defer metrics.ObserveSlot("s3", "set", time.Now())

	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key), bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}

func (s *Slots) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, s.objectKey(key), minio.RemoveObjectOptions{})
}

func (s *Slots) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}
