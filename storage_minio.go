package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// s3Store keeps bytes in an S3-compatible bucket. Locations are
// fully-qualified object URLs; downloads answer with a redirect to them.
type s3Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func newS3Store(cfg Config) (*s3Store, error) {
	if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" || cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 configuration incomplete: S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required")
	}
	endpoint, secure, err := normalizeEndpoint(cfg.S3Endpoint)
	if err != nil {
		return nil, fmt.Errorf("S3_ENDPOINT: %w", err)
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), cfg.S3Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket does not exist: %s", cfg.S3Bucket)
	}
	public := strings.TrimRight(cfg.S3PublicURL, "/")
	if public == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, endpoint, cfg.S3Bucket)
	}
	return &s3Store{client: client, bucket: cfg.S3Bucket, publicURL: public}, nil
}

// normalizeEndpoint accepts either "minio:9000" or "https://minio:9000" and
// returns the host form minio-go expects.
func normalizeEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}
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
		return u.Host, u.Scheme == "https", nil
	}
	return raw, false, nil
}

func (s *s3Store) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := generatedName(name)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.publicURL + "/" + key, nil
}

func (s *s3Store) Remove(ctx context.Context, location string) error {
	key, err := s.objectKey(location)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *s3Store) Resolve(ctx context.Context, location string) (*Blob, error) {
	if _, err := s.objectKey(location); err != nil {
		return nil, err
	}
	return &Blob{RedirectURL: location}, nil
}

// objectKey extracts the object key from a recorded location URL. Keys are
// flat (no slashes), so the last path segment is always the key.
func (s *s3Store) objectKey(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("not an object location: %s", location)
	}
	key := path.Base(u.Path)
	if key == "." || key == "/" || key == "" {
		return "", fmt.Errorf("not an object location: %s", location)
	}
	return key, nil
}
