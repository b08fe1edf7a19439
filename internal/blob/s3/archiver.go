package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

// multipartThreshold switches uploads to the multipart manager for large
// runs.
const multipartThreshold = 8 * 1024 * 1024

// RunArchiver implements domain.Archiver by serializing a detection run's
// opportunity set to JSONL and uploading it to object storage, partitioned
// by run date:
//
//	opportunities/2026/08/30/run-1756555200.jsonl
//
// Archives are write-only cold storage; nothing in the engine reads them
// back.
type RunArchiver struct {
	writer *Writer
}

// NewRunArchiver creates a RunArchiver uploading through the given Writer.
func NewRunArchiver(writer *Writer) *RunArchiver {
	return &RunArchiver{writer: writer}
}

// ArchiveRun uploads the opportunity set of one detection run and returns
// the object path. An empty run uploads nothing and returns an empty path.
func (a *RunArchiver) ArchiveRun(ctx context.Context, runAt time.Time, opps []domain.Opportunity) (string, error) {
	if len(opps) == 0 {
		return "", nil
	}

	buf, err := marshalJSONL(opps)
	if err != nil {
		return "", fmt.Errorf("s3blob: archive run marshal: %w", err)
	}

	path := runPath(runAt)

	if len(buf) > multipartThreshold {
		err = a.writer.PutMultipart(ctx, path, bytes.NewReader(buf), minPartSize)
	} else {
		err = a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson")
	}
	if err != nil {
		return "", fmt.Errorf("s3blob: archive run upload: %w", err)
	}

	return path, nil
}

// runPath builds the object key for a run, partitioned by UTC date.
func runPath(runAt time.Time) string {
	utc := runAt.UTC()
	return fmt.Sprintf("opportunities/%s/run-%d.jsonl", utc.Format("2006/01/02"), utc.Unix())
}

// marshalJSONL serialises a slice of values as newline-delimited JSON.
// Each element is marshalled as a single compact JSON line followed by '\n'.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// Compile-time interface check.
var _ domain.Archiver = (*RunArchiver)(nil)
