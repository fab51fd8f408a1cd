// Package permitinfo stores permit display metadata (permit name and
// division names) in sqlite so repeated runs skip the metadata fetch.
// Availability data is never cached; it changes under our feet.
package permitinfo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/emiller/permitwatch/internal/availability"
)

type Repository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewRepository(db *sql.DB, ttl time.Duration) *Repository {
	return &Repository{db: db, ttl: ttl, now: time.Now}
}

// Get returns the cached metadata for a permit, or nil when the cache
// has no fresh entry.
func (r *Repository) Get(ctx context.Context, permitID int) (*availability.PermitInfo, error) {
	const query = `SELECT name, divisions, fetched_at FROM permit_info WHERE permit_id = ?`

	var name, divisionsJSON, fetchedStr string
	err := r.db.QueryRowContext(ctx, query, permitID).Scan(&name, &divisionsJSON, &fetchedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get permit info: %w", err)
	}

	fetchedAt, err := time.Parse(time.RFC3339, fetchedStr)
	if err != nil || r.now().Sub(fetchedAt) > r.ttl {
		return nil, nil
	}

	divisions := make(map[string]string)
	if err := json.Unmarshal([]byte(divisionsJSON), &divisions); err != nil {
		return nil, fmt.Errorf("decode cached divisions: %w", err)
	}

	return &availability.PermitInfo{
		ID:        permitID,
		Name:      name,
		Divisions: divisions,
	}, nil
}

// Put upserts a permit's metadata with the current time as fetched-at.
func (r *Repository) Put(ctx context.Context, info *availability.PermitInfo) error {
	divisionsJSON, err := json.Marshal(info.Divisions)
	if err != nil {
		return fmt.Errorf("encode divisions: %w", err)
	}

	const query = `INSERT INTO permit_info (permit_id, name, divisions, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(permit_id) DO UPDATE SET
			name = excluded.name,
			divisions = excluded.divisions,
			fetched_at = excluded.fetched_at`

	_, err = r.db.ExecContext(ctx, query,
		info.ID, info.Name, string(divisionsJSON), r.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save permit info: %w", err)
	}
	return nil
}
