package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores uploads in an S3-compatible bucket. The reference is the
// object key: "uploads/" prefix plus a UUID plus the original extension,
// non-guessable and immune to path traversal.
type Minio struct {
	client *minio.Client
	bucket string
}

// MinioConfig carries the connection settings for the object store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	// Sanity check: bucket must exist.
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket does not exist: %s", cfg.Bucket)
	}

	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		secure = (u.Scheme == "https")
		return u.Host, secure, nil
	}

	// No scheme provided, treat as host:port (insecure by default for local MinIO).
	return raw, false, nil
}

func (m *Minio) Save(ctx context.Context, origName, contentType string, r io.Reader) (string, int64, error) {
	key := "uploads/" + uuid.New().String() + filepath.Ext(origName)

	info, err := m.client.PutObject(ctx, m.bucket, key, r, -1,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", 0, err
	}
	return key, info.Size, nil
}

func (m *Minio) Open(ctx context.Context, ref string) (io.ReadCloser, int64, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	// Force an early error for missing objects.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return obj, stat.Size, nil
}

func (m *Minio) Remove(ctx context.Context, ref string) error {
	return m.client.RemoveObject(ctx, m.bucket, ref, minio.RemoveObjectOptions{})
}
