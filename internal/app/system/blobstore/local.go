// internal/app/system/blobstore/local.go

package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores blobs on the filesystem under Root and serves them under
// BaseURL (the router mounts a file server there). Used in development
// and single-node deployments.
type Local struct {
	Root    string // e.g. ./data/uploads
	BaseURL string // e.g. /uploads
}

// NewLocal creates the root directory if needed.
func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root: %w", err)
	}
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := objectKey(folder, filename)

	full := filepath.Join(l.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("blobstore: mkdir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("blobstore: create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("blobstore: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("blobstore: close: %w", err)
	}
	return l.BaseURL + "/" + key, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, l.BaseURL+"/")
	if !ok {
		return errNotMine
	}
	// Refuse anything that resolves outside the root.
	full := filepath.Join(l.Root, filepath.FromSlash(key))
	if rel, err := filepath.Rel(l.Root, full); err != nil || strings.HasPrefix(rel, "..") {
		return errNotMine
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blobstore: remove: %w", err)
	}
	return nil
}
