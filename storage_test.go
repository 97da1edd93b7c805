package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLocalStorePutResolveRemove(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("newLocalStore: %v", err)
	}
	ctx := context.Background()

	location, err := store.Put(ctx, "report.txt", strings.NewReader("payload"), 7, "text/plain")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !strings.HasPrefix(location, "/uploads/") || !strings.HasSuffix(location, "-report.txt") {
		t.Fatalf("unexpected location: %s", location)
	}

	blob, err := store.Resolve(ctx, location)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if blob.RedirectURL != "" {
		t.Fatal("local store must not redirect")
	}
	data, err := os.ReadFile(blob.Path)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected blob content: %q", data)
	}

	if err := store.Remove(ctx, location); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := store.Resolve(ctx, location); !errors.Is(err, ErrBlobMissing) {
		t.Fatalf("expected ErrBlobMissing after remove, got %v", err)
	}
	// removing already-released bytes is not an error
	if err := store.Remove(ctx, location); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
}

func TestLocalStoreGeneratedNamesDoNotCollide(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("newLocalStore: %v", err)
	}
	ctx := context.Background()
	first, err := store.Put(ctx, "same.txt", strings.NewReader("one"), 3, "text/plain")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	second, err := store.Put(ctx, "same.txt", strings.NewReader("two"), 3, "text/plain")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if first == second {
		t.Fatalf("locations collided: %s", first)
	}
}

func TestLocalStoreRejectsForeignLocation(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("newLocalStore: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Resolve(ctx, "https://bucket.example.com/key"); err == nil || errors.Is(err, ErrBlobMissing) {
		t.Fatalf("expected hard error for non-local location, got %v", err)
	}
	if err := store.Remove(ctx, "/uploads/../etc/passwd"); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestGeneratedNameStripsDirectories(t *testing.T) {
	got := generatedName("../../evil.sh")
	if strings.Contains(got, "/") || strings.Contains(got, "..") {
		t.Fatalf("generated name leaks path segments: %s", got)
	}
	if !strings.HasSuffix(got, "-evil.sh") {
		t.Fatalf("original basename lost: %s", got)
	}
}
