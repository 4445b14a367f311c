package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocalBackendRoundTrip(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}
	ctx := context.Background()

	content := []byte("%PDF-1.4 fake document body")
	key := GenerateKey("notes", "lecture-01.pdf")

	written, err := backend.Save(ctx, key, bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != int64(len(content)) {
		t.Errorf("Save wrote %d bytes, want %d", written, len(content))
	}

	exists, err := backend.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected object to exist after Save")
	}

	reader, size, err := backend.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()
	if size != int64(len(content)) {
		t.Errorf("Open reported size %d, want %d", size, len(content))
	}
	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("read content does not match written content")
	}

	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	exists, err = backend.Exists(ctx, key)
	if err != nil {
		t.Fatalf("Exists after delete: %v", err)
	}
	if exists {
		t.Error("expected object to be gone after Delete")
	}
}

func TestLocalBackendOpenMissing(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}

	_, _, err = backend.Open(context.Background(), "notes/does-not-exist.pdf")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("Open of missing object returned %v, want ErrNotExist", err)
	}
}

func TestLocalBackendDeleteMissingIsNoop(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}

	if err := backend.Delete(context.Background(), "notes/gone.pdf"); err != nil {
		t.Errorf("Delete of missing object returned %v, want nil", err)
	}
}

func TestLocalBackendRejectsTraversal(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalBackend: %v", err)
	}
	ctx := context.Background()

	badKeys := []string{
		"../escape.pdf",
		"notes/../../escape.pdf",
		"/etc/passwd",
	}
	for _, key := range badKeys {
		if _, err := backend.Save(ctx, key, strings.NewReader("x")); err == nil {
			t.Errorf("Save accepted traversal key %q", key)
		}
		if _, _, err := backend.Open(ctx, key); err == nil {
			t.Errorf("Open accepted traversal key %q", key)
		}
	}
}

func TestGenerateKey(t *testing.T) {
	key1 := GenerateKey("notes", "Lecture 01.PDF")
	key2 := GenerateKey("notes", "Lecture 01.PDF")

	if key1 == key2 {
		t.Error("expected unique keys for repeated uploads of the same filename")
	}
	if !strings.HasPrefix(key1, "notes/") {
		t.Errorf("key %q missing prefix", key1)
	}
	if !strings.HasSuffix(key1, ".pdf") {
		t.Errorf("key %q should keep a lowercase .pdf extension", key1)
	}
	if strings.Contains(key1, "Lecture") {
		t.Errorf("key %q leaks the original filename", key1)
	}

	// Extension defaults to .pdf when the filename has none
	if !strings.HasSuffix(GenerateKey("notes", "noext"), ".pdf") {
		t.Error("expected default .pdf extension")
	}
}
