// Package storage keeps generated document files on the local filesystem or
// in an S3 bucket.
package storage

import (
	"fmt"
	"path"
	"strings"

	"lawbix/internal/domain"
)

// ErrObjectNotFound wraps domain.ErrNotFound for missing blobs.
var ErrObjectNotFound = fmt.Errorf("%w: object", domain.ErrNotFound)

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))
	k = strings.TrimPrefix(k, "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", domain.Invalid("key", "invalid storage key")
	}
	return k, nil
}
