package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrObjectExists is returned when a Put would overwrite a stored object.
	// Object names are never reused; a replaced product image gets a fresh
	// name and the old object stays behind (no orphan cleanup).
	ErrObjectExists = errors.New("object already exists")
)

// ObjectStore is the capability the admin workflow needs from blob storage:
// write-once uploads and a publicly resolvable URL per object.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader) error
	PublicURL(name string) string
}

// UniqueName builds a collision-resistant object name from an upload's
// original filename, keeping its extension: <unix-nano>-<8 hex chars><ext>.
func UniqueName(original string) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing is effectively unreachable; fall back to the
		// nanosecond clock alone rather than aborting the upload.
		return fmt.Sprintf("%d%s", time.Now().UnixNano(), normalizeExt(original))
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix), normalizeExt(original))
}

func normalizeExt(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}
