package db

import (
	"context"

	"chatwidget/internal/models"
)

// IncrementQueryLookup upserts an answer count by keyword and outcome.
func (d *DB) IncrementQueryLookup(ctx context.Context, keyword, outcome string) error {
	if keyword == "" || outcome == "" {
		return ErrInvalidLookup
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO query_lookups (keyword, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (keyword, outcome) DO UPDATE
		SET count = query_lookups.count + 1, last_seen_at = NOW()
	`, keyword, outcome)
	return err
}

// GetAllQueryLookups returns all lookup rows for metrics export.
func (d *DB) GetAllQueryLookups(ctx context.Context) ([]models.QueryLookup, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT keyword, outcome, count, last_seen_at
		FROM query_lookups
		ORDER BY count DESC, keyword
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.QueryLookup
	for rows.Next() {
		var l models.QueryLookup
		if err := rows.Scan(&l.Keyword, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// GetTopKeywords returns the most frequently matched keywords.
func (d *DB) GetTopKeywords(ctx context.Context, limit int) ([]models.QueryLookup, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT keyword, outcome, count, last_seen_at
		FROM query_lookups
		WHERE outcome = $1
		ORDER BY count DESC, keyword
		LIMIT $2
	`, models.OutcomeMatched, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.QueryLookup
	for rows.Next() {
		var l models.QueryLookup
		if err := rows.Scan(&l.Keyword, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
