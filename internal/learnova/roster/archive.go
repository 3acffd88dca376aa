package roster

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/learnova/learnova/pkg/idx"
)

// Archiver keeps a copy of every uploaded roster.
type Archiver interface {
	Archive(ctx context.Context, courseID, filename string, data []byte) (string, error)
}

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an object store is configured.
func (c ArchiveConfig) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// MinioArchiver stores rosters in an S3 compatible bucket.
type MinioArchiver struct {
	mc     *minio.Client
	bucket string
}

func NewMinioArchiver(cfg ArchiveConfig) (*MinioArchiver, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("roster archive: endpoint and credentials are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "learnova-rosters"
	}
	return &MinioArchiver{mc: mc, bucket: bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (a *MinioArchiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.mc.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// ObjectKey is where a roster upload is stored.
func ObjectKey(courseID, filename string) string {
	return "courses/" + courseID + "/rosters/" + idx.New().String() + strings.ToLower(filepath.Ext(filename))
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

func (a *MinioArchiver) Archive(ctx context.Context, courseID, filename string, data []byte) (string, error) {
	key := ObjectKey(courseID, filename)
	_, err := a.mc.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(filename),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
