// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"time"
)

// Record summarizes one cataloged document.
type Record struct {
	Source      string
	Stem        string
	Pages       int
	ConvertedAt time.Time
	Artifacts   int
	Tables      int
	Figures     int
}

// List returns every cataloged document with artifact counts, sorted
// by stem.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.source, d.stem, d.pages, d.converted_at,
			COUNT(a.document_id),
			COALESCE(SUM(CASE WHEN a.kind = 'table' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.kind = 'figure' THEN 1 ELSE 0 END), 0)
		FROM documents d
		LEFT JOIN artifacts a ON a.document_id = d.id
		GROUP BY d.id
		ORDER BY d.stem`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r           Record
			convertedAt string
		)
		if err := rows.Scan(
			&r.Source, &r.Stem, &r.Pages, &convertedAt,
			&r.Artifacts, &r.Tables, &r.Figures,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if convertedAt != "" {
			r.ConvertedAt, _ = time.Parse(time.RFC3339Nano, convertedAt)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
