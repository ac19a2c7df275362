package ingest

// pipeline.go wires the stages into the single Import entry point consumed
// by the upload handler. Rows are streamed off the tokenizer rather than
// materialized, so peak memory is one row plus the growing result
// accumulators. Normalization can fan out across a bounded set of worker
// goroutines; indexed writes keep result order independent of completion
// order, and the duplicate scan stays a single ordered pass.

import (
	"errors"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ImportOptions configures a single import. The zero Delimiter means ','.
type ImportOptions struct {
	Delimiter          rune   `json:"delimiter,omitempty"`
	SkipEmptyRows      bool   `json:"skipEmptyRows"`
	DefaultCountryCode string `json:"defaultCountryCode,omitempty"`

	// Workers bounds the goroutines normalizing rows. Values below 2 keep
	// the pipeline fully sequential.
	Workers int `json:"workers,omitempty"`
}

// DefaultImportOptions returns the options used when the caller has no
// overrides: comma delimiter, empty rows skipped, country code "1",
// sequential processing.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		Delimiter:          ',',
		SkipEmptyRows:      true,
		DefaultCountryCode: "1",
		Workers:            1,
	}
}

// ImportStats summarizes one import for audit logging.
type ImportStats struct {
	DataRows         int   `json:"dataRows"`
	Valid            int   `json:"valid"`
	Invalid          int   `json:"invalid"`
	Duplicates       int   `json:"duplicates"`
	EmptyRowsSkipped int   `json:"emptyRowsSkipped"`
	DurationMS       int64 `json:"durationMs"`
}

// ImportResult is the terminal artifact of one import, owned entirely by
// the caller once returned; the pipeline holds no state across calls.
type ImportResult struct {
	Prospects   []EnrichedProspect  `json:"enriched"`
	Invalid     []InvalidProspect   `json:"invalid"`
	Duplicates  []DuplicateProspect `json:"duplicates"`
	ParseErrors []ParseError        `json:"parseErrors"`
	Stats       ImportStats         `json:"stats"`
}

// Import runs the full pipeline over rawCSV. A fatal parse error aborts the
// import with only ParseErrors populated and no partial results. Otherwise
// every stage runs to completion even when some records are invalid:
// partial success is the normal case, not an error state.
func Import(rawCSV string, opts ImportOptions) ImportResult {
	start := time.Now()
	dialect := Dialect{Delimiter: opts.Delimiter, SkipEmptyRows: opts.SkipEmptyRows}
	rr := NewRowReader(strings.NewReader(rawCSV), dialect)

	header, err := rr.Next()
	if err != nil {
		return abortedResult(rr, start, err)
	}
	mapping := DetectHeaders(header.Fields)

	var records []ProspectRecord
	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return abortedResult(rr, start, err)
		}
		records = append(records, projectRow(row, mapping))
	}

	normalized := normalizeAll(records, opts)
	part := Validate(normalized)

	return ImportResult{
		Prospects:  Enrich(part.Valid),
		Invalid:    part.Invalid,
		Duplicates: part.Duplicates,
		Stats: ImportStats{
			DataRows:         len(records),
			Valid:            len(part.Valid),
			Invalid:          len(part.Invalid),
			Duplicates:       len(part.Duplicates),
			EmptyRowsSkipped: rr.Skipped(),
			DurationMS:       time.Since(start).Milliseconds(),
		},
	}
}

// abortedResult builds the terminal result for an import that ended before
// producing records: empty input, or a fatal parse error. Records projected
// before a mid-file error are discarded so a fatal error never returns
// partial results.
func abortedResult(rr *RowReader, start time.Time, err error) ImportResult {
	var result ImportResult
	if !errors.Is(err, io.EOF) {
		result.ParseErrors = asParseErrors(err)
	}
	result.Stats.EmptyRowsSkipped = rr.Skipped()
	result.Stats.DurationMS = time.Since(start).Milliseconds()
	return result
}

// normalizeAll normalizes every record, fanning out across opts.Workers
// goroutines when asked to. Each worker owns a contiguous index range, so
// output order always matches input order.
func normalizeAll(records []ProspectRecord, opts ImportOptions) []ProspectRecord {
	nopts := NormalizeOptions{DefaultCountryCode: opts.DefaultCountryCode}
	out := make([]ProspectRecord, len(records))

	if opts.Workers < 2 || len(records) < 2 {
		for i, r := range records {
			out[i] = Normalize(r, nopts)
		}
		return out
	}

	chunk := (len(records) + opts.Workers - 1) / opts.Workers
	var g errgroup.Group
	for lo := 0; lo < len(records); lo += chunk {
		hi := min(lo+chunk, len(records))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = Normalize(records[i], nopts)
			}
			return nil
		})
	}
	// Normalize never fails, so the group error is always nil.
	_ = g.Wait()
	return out
}
