package web

// handlers.go contains the import and health handlers. The import handler
// is the only inbound entry point to the pipeline: it reads the CSV
// payload, runs ingest.Import and hands the enriched prospects to the
// store. Record-level problems come back in the response body; only
// structural CSV failures and infrastructure errors map to error statuses.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yoprobotics/ai-sales-agent/internal/ingest"
	"github.com/yoprobotics/ai-sales-agent/internal/logging"
)

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport accepts a CSV export (raw body or multipart "file" field)
// for the account named in the X-Account-ID header, runs the ingestion
// pipeline and upserts the enriched prospects.
//
// Responses:
//   - 200 with the full ImportResult, including invalid rows and duplicates
//   - 422 when the CSV is structurally malformed (fatal parse error)
//   - 413 when the payload exceeds the configured size limit
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.Header.Get("X-Account-ID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "missing or invalid X-Account-ID header")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxUploadSize)
	rawCSV, err := readCSVPayload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("payload exceeds %d bytes", s.cfg.Import.MaxUploadSize))
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result := ingest.Import(rawCSV, s.importOptions(r))

	logger := logging.WithFields(r.Context(), "account_id", accountID)
	if len(result.ParseErrors) > 0 {
		logger.Warn("import aborted on parse error",
			"line", result.ParseErrors[0].Line,
			"message", result.ParseErrors[0].Message,
		)
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	var upserted int64
	if len(result.Prospects) > 0 {
		upserted, err = s.store.UpsertProspects(r.Context(), accountID, result.Prospects)
		if err != nil {
			logger.Error("prospect upsert failed", "error", err)
			writeError(w, r, http.StatusInternalServerError, "failed to save prospects")
			return
		}
	}

	logger.Info("import complete",
		"data_rows", result.Stats.DataRows,
		"valid", result.Stats.Valid,
		"invalid", result.Stats.Invalid,
		"duplicates", result.Stats.Duplicates,
		"upserted", upserted,
		"duration_ms", result.Stats.DurationMS,
	)
	writeJSON(w, http.StatusOK, result)
}

// readCSVPayload extracts the CSV text from the request: the "file" field
// of a multipart form, or the raw request body.
func readCSVPayload(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("multipart upload requires a %q field: %w", "file", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty request body")
	}
	return string(data), nil
}

// importOptions builds pipeline options from service config, letting the
// request override the delimiter via the "delimiter" query parameter.
func (s *Server) importOptions(r *http.Request) ingest.ImportOptions {
	opts := ingest.DefaultImportOptions()
	opts.Delimiter = parseDelimiter(s.cfg.Import.Delimiter, ',')
	opts.SkipEmptyRows = !s.cfg.Import.KeepEmptyRows
	opts.DefaultCountryCode = s.cfg.Import.DefaultCountryCode
	opts.Workers = s.cfg.Import.Workers

	if v := r.URL.Query().Get("delimiter"); v != "" {
		opts.Delimiter = parseDelimiter(v, opts.Delimiter)
	}
	return opts
}

// parseDelimiter accepts a literal delimiter character or one of the names
// "comma", "semicolon", "tab", "pipe". Anything else keeps the fallback.
func parseDelimiter(v string, fallback rune) rune {
	switch strings.ToLower(v) {
	case "comma":
		return ','
	case "semicolon":
		return ';'
	case "tab", `\t`:
		return '\t'
	case "pipe":
		return '|'
	}
	if runes := []rune(v); len(runes) == 1 {
		return runes[0]
	}
	return fallback
}
