// internal/app/system/blobstore/blobstore.go

// Package blobstore stores uploaded images (profile photos, business
// logos, deal banners) and hands back the public URL that gets written
// into the owning document.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store writes blobs and reports where they can be fetched.
type Store interface {
	// Put stores the content under a fresh key inside folder and returns
	// the public URL. contentType is advisory for backends that serve
	// the blob directly.
	Put(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// objectKey builds a collision-free key that keeps the original
// extension so browsers content-sniff correctly.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

var errNotMine = fmt.Errorf("blobstore: url not managed by this store")
