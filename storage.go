package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrBlobMissing reports that a location is known to the index but its bytes
// are gone from storage. Handlers map it to a 404 distinct from an unknown id.
var ErrBlobMissing = errors.New("stored bytes missing")

// Blob is a resolved location: a local path to stream from, or a URL to
// redirect the client to. Exactly one field is set.
type Blob struct {
	Path        string
	RedirectURL string
}

// BlobStore abstracts where uploaded bytes live. Put stores a payload under a
// collision-resistant name derived from the original and returns the location
// string recorded in the files table. Remove releases the bytes behind a
// location; removing bytes that are already gone is not an error.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, location string) error
	Resolve(ctx context.Context, location string) (*Blob, error)
}

// newBlobStore picks the storage backend from config.
func newBlobStore(cfg Config) (BlobStore, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return newLocalStore(cfg.UploadBase)
	case "s3":
		return newS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// localStore writes bytes under a fixed upload root. Locations are the
// /uploads/<generated-name> paths the router also serves statically.
type localStore struct {
	baseDir string
}

func newLocalStore(baseDir string) (*localStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload base dir %s: %w", baseDir, err)
	}
	return &localStore{baseDir: baseDir}, nil
}

func (s *localStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	gen := generatedName(name)
	dst := filepath.Join(s.baseDir, gen)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}
	return "/uploads/" + gen, nil
}

func (s *localStore) Remove(ctx context.Context, location string) error {
	p, err := s.localPath(location)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *localStore) Resolve(ctx context.Context, location string) (*Blob, error) {
	p, err := s.localPath(location)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobMissing
		}
		return nil, err
	}
	return &Blob{Path: p}, nil
}

func (s *localStore) localPath(location string) (string, error) {
	rel, ok := strings.CutPrefix(location, "/uploads/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return "", fmt.Errorf("not a local upload location: %s", location)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(rel)), nil
}

// generatedName prefixes the original filename with a high-resolution
// timestamp so repeated uploads of the same name cannot collide.
func generatedName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), base)
}
