// Package store persists enriched prospects to PostgreSQL. The upsert is
// keyed by (account_id, email), so re-importing a file an account already
// uploaded updates the existing rows instead of erroring; dedup against
// prior imports is the store's concern, not the pipeline's.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoprobotics/ai-sales-agent/internal/ingest"
)

// Store wraps a pgx pool with prospect persistence operations.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping verifies database connectivity. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const upsertProspectSQL = `
INSERT INTO prospects (
	id, account_id, email, first_name, last_name,
	company_name, company_domain, company_size_bucket, industries,
	job_title, phone, linkedin_url, location, notes, source_line
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (account_id, email) DO UPDATE SET
	first_name          = EXCLUDED.first_name,
	last_name           = EXCLUDED.last_name,
	company_name        = EXCLUDED.company_name,
	company_domain      = EXCLUDED.company_domain,
	company_size_bucket = EXCLUDED.company_size_bucket,
	industries          = EXCLUDED.industries,
	job_title           = EXCLUDED.job_title,
	phone               = EXCLUDED.phone,
	linkedin_url        = EXCLUDED.linkedin_url,
	location            = EXCLUDED.location,
	notes               = EXCLUDED.notes,
	source_line         = EXCLUDED.source_line,
	updated_at          = now()`

// UpsertProspects writes prospects for an account in a single batched round
// trip and returns the number of rows written.
func (s *Store) UpsertProspects(ctx context.Context, accountID uuid.UUID, prospects []ingest.EnrichedProspect) (int64, error) {
	if len(prospects) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range prospects {
		batch.Queue(upsertProspectSQL,
			uuid.New(), accountID, p.Email,
			toPgText(p.FirstName), toPgText(p.LastName),
			toPgText(p.Company), toPgText(p.CompanyDomain),
			toPgText(p.CompanySizeBucket), p.Industries,
			toPgText(p.JobTitle), toPgText(p.Phone),
			toPgText(p.LinkedinURL), toPgText(p.Location), toPgText(p.Notes),
			int32(p.Line),
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	var written int64
	for _, p := range prospects {
		tag, err := results.Exec()
		if err != nil {
			return written, fmt.Errorf("upsert prospect %s (line %d): %w", p.Email, p.Line, err)
		}
		written += tag.RowsAffected()
	}
	return written, nil
}

// toPgText maps empty strings to NULL so optional prospect fields stay
// nullable in the schema.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
