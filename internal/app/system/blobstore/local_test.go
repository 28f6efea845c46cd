// internal/app/system/blobstore/local_test.go

package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPutAndDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	store, err := NewLocal(root, "/uploads/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	url, err := store.Put(ctx, "staff-photos", "avatar.PNG", "image/png", strings.NewReader("fake-png"), 8)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/staff-photos/") {
		t.Errorf("url %q lacks folder prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url %q should keep a lowercased extension", url)
	}

	rel := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read stored blob: %v", err)
	}
	if string(data) != "fake-png" {
		t.Errorf("stored %q", data)
	}

	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); !os.IsNotExist(err) {
		t.Error("blob still present after delete")
	}
	// Deleting again is fine.
	if err := store.Delete(ctx, url); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLocalDistinctKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	a, err := store.Put(ctx, "logos", "logo.jpg", "image/jpeg", strings.NewReader("a"), 1)
	if err != nil {
		t.Fatalf("Put a: %v", err)
	}
	b, err := store.Put(ctx, "logos", "logo.jpg", "image/jpeg", strings.NewReader("b"), 1)
	if err != nil {
		t.Fatalf("Put b: %v", err)
	}
	if a == b {
		t.Errorf("same filename must not collide: %q", a)
	}
}

func TestLocalDeleteRejectsForeignAndTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	if err := store.Delete(ctx, "https://elsewhere.example.com/x.png"); err == nil {
		t.Error("foreign url should be rejected")
	}
	if err := store.Delete(ctx, "/uploads/../../etc/passwd"); err == nil {
		t.Error("traversal should be rejected")
	}
}
