// internal/storage/storage.go
package storage

import (
	"context"
	"io"
)

// ObjectInfo carries the metadata the download paths surface as response
// headers.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStorage is the narrow contract the export pipeline depends on: a
// key either opens as a readable stream or is reported missing via
// domain.ErrNotFound. Implementations must be safe for concurrent use and
// stateless per call.
type ObjectStorage interface {
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
