// internal/export/zip.go
package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/rs/zerolog/log"

	"github.com/fieldsight/survey-api/internal/domain"
	"github.com/fieldsight/survey-api/internal/storage"
)

// manifestEntryName is appended to partial archives so a consumer can tell
// which requested members are missing without comparing against the
// original request.
const manifestEntryName = "MANIFEST.txt"

// ArchiveResult reports what actually made it into the archive.
type ArchiveResult struct {
	Appended []string
	Skipped  []string
}

// Partial reports whether any requested member was skipped.
func (r ArchiveResult) Partial() bool {
	return len(r.Skipped) > 0
}

// ZipAssembler streams object-store members into a single zip archive.
type ZipAssembler struct {
	store storage.ObjectStorage
}

func NewZipAssembler(store storage.ObjectStorage) *ZipAssembler {
	return &ZipAssembler{store: store}
}

// Assemble writes one zip archive to w, appending members strictly in the
// caller-supplied order and fetching them one at a time. Members whose
// objects are missing or fail to open are logged and skipped; the archive
// still finalizes and a manifest entry records the skips. The archive is
// never buffered whole: each member streams straight from the object store
// into w.
//
// A member that fails mid-copy aborts the whole archive: its local header
// is already on the wire and the stream cannot be rewound.
func (a *ZipAssembler) Assemble(ctx context.Context, w io.Writer, keys []string) (ArchiveResult, error) {
	var result ArchiveResult

	if len(keys) == 0 {
		return result, fmt.Errorf("files list cannot be empty: %w", domain.ErrValidation)
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return result, fmt.Errorf("archive assembly canceled: %w", err)
		}

		name := strings.TrimSpace(key)
		if err := a.appendMember(ctx, zw, name); err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, errOpenFailed) {
				log.Warn().Err(err).Str("key", name).Msg("skipping archive member")
				result.Skipped = append(result.Skipped, name)
				continue
			}
			zw.Close()
			return result, fmt.Errorf("append member %s: %w", name, errors.Join(domain.ErrExecution, err))
		}
		result.Appended = append(result.Appended, name)
	}

	if result.Partial() {
		if err := a.writeManifest(zw, result.Skipped); err != nil {
			zw.Close()
			return result, fmt.Errorf("write archive manifest: %w", err)
		}
	}

	// Close flushes the central directory; only now is the zip complete.
	if err := zw.Close(); err != nil {
		return result, fmt.Errorf("finalize archive: %w", errors.Join(domain.ErrExecution, err))
	}
	return result, nil
}

// errOpenFailed classifies open failures separately from copy failures so
// the caller can keep skip semantics for the former only.
var errOpenFailed = errors.New("member stream could not be opened")

func (a *ZipAssembler) appendMember(ctx context.Context, zw *zip.Writer, name string) error {
	rc, _, err := a.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", errOpenFailed, err)
	}
	defer rc.Close()

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	if _, err := io.Copy(entry, rc); err != nil {
		return fmt.Errorf("copy entry body: %w", err)
	}
	return nil
}

func (a *ZipAssembler) writeManifest(zw *zip.Writer, skipped []string) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     manifestEntryName,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("skipped members:\n")
	for _, key := range skipped {
		b.WriteString(key)
		b.WriteByte('\n')
	}
	_, err = io.WriteString(entry, b.String())
	return err
}
