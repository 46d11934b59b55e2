package letterpdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ofuentes/go-letterpdf/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// BatchResult holds the outcome of one item in a batch export.
type BatchResult struct {
	Code       string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// ExportBatch exports every document in order, writing one
// "<code>.pdf" file per item into outDir.
//
// Items run strictly sequentially, never concurrently: each export's
// surfaces are torn down before the next begins, because all items share
// the one live rendering surface. The configured pacing delay is
// inserted between successive emissions for host environments that
// throttle rapid file saves. One item's failure is recorded in its
// result and does not abort the remaining items; cancellation marks the
// remaining items with the context error.
func (e *Exporter) ExportBatch(ctx context.Context, docs []DocumentContent, outDir string) ([]BatchResult, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	results := make([]BatchResult, 0, len(docs))
	for i, doc := range docs {
		if i > 0 && e.cfg.pacing > 0 {
			if err := pace(ctx, e.cfg.pacing); err != nil {
				for _, rest := range docs[i:] {
					results = append(results, BatchResult{Code: rest.Code, Err: err})
				}
				return results, nil
			}
		}
		results = append(results, e.exportItem(ctx, doc, outDir))
	}
	return results, nil
}

// exportItem runs one batch item and writes its output file.
func (e *Exporter) exportItem(ctx context.Context, doc DocumentContent, outDir string) BatchResult {
	start := time.Now()
	result := BatchResult{Code: doc.Code}

	exported, err := e.Export(ctx, doc)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	name, err := fileutil.SafeFileName(doc.Code)
	if err != nil {
		result.Err = fmt.Errorf("document %s: naming output: %w", doc.Code, err)
		result.Duration = time.Since(start)
		return result
	}

	path := filepath.Join(outDir, name+".pdf")
	// #nosec G306 -- exported documents are meant to be readable
	if err := os.WriteFile(path, exported.PDF, filePermissions); err != nil {
		result.Err = fmt.Errorf("document %s: writing output: %w", doc.Code, err)
		result.Duration = time.Since(start)
		return result
	}

	result.OutputPath = path
	result.Duration = time.Since(start)
	return result
}

// pace sleeps for the pacing delay, honoring cancellation.
func pace(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// BatchSummary tallies succeeded and failed batch items.
type BatchSummary struct {
	Succeeded int
	Failed    int
}

// SummarizeBatch counts successes and failures in batch results.
func SummarizeBatch(results []BatchResult) BatchSummary {
	var s BatchSummary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}
