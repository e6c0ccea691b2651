package store

import (
	"context"
	"errors"
	"testing"

	"promail/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	key := UserKey("alice@example.com")

	if _, err := fs.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get before Put = %v, want ErrNotFound", err)
	}
	if err := fs.Put(ctx, key, []byte(`{"points":100}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	value, err := fs.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(value) != `{"points":100}` {
		t.Fatalf("Get = %s", value)
	}
	if err := fs.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Get(ctx, key); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestFileStoreDeleteAbsentKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.Delete(context.Background(), "promail_usage"); err != nil {
		t.Fatalf("Delete absent = %v, want nil", err)
	}
}

func TestFileStoreRejectsEscapingKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"", "  ", "../etc/passwd", ".hidden"} {
		if err := fs.Put(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("Put(%q) succeeded, want error", key)
		}
	}
}

func TestFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatalf("NewFileStore with blank path succeeded")
	}
}
