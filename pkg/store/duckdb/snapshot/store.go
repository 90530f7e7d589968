package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bakeops/ovenboard/pkg/models/store"
)

// Store persists the last good inventory fetch. Save replaces the whole
// snapshot; Load returns it for render-from-cache when the bakehouse is
// unreachable.
type Store interface {
	Save(ctx context.Context, snapshots []store.InventorySnapshot) error
	Load(ctx context.Context) ([]store.InventorySnapshot, error)
	CapturedAt(ctx context.Context) (*time.Time, error)
}

type snapshotStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{db: db}, nil
}

func (s *snapshotStore) Save(ctx context.Context, snapshots []store.InventorySnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_snapshots`); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	query := `
		INSERT INTO inventory_snapshots (
			product_key, display_name, quantity, restock_threshold,
			daily_rate, unit_cost, last_updated, captured_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, snap := range snapshots {
		_, err := tx.ExecContext(ctx, query,
			snap.ProductKey,
			snap.DisplayName,
			snap.Quantity,
			snap.RestockThreshold,
			snap.DailyRate,
			snap.UnitCost,
			snap.LastUpdated,
			snap.CapturedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", snap.ProductKey, err)
		}
	}

	return tx.Commit()
}

func (s *snapshotStore) Load(ctx context.Context) ([]store.InventorySnapshot, error) {
	query := `
		SELECT product_key, display_name, quantity, restock_threshold,
		       daily_rate, unit_cost, last_updated, captured_at
		FROM inventory_snapshots
		ORDER BY product_key
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []store.InventorySnapshot
	for rows.Next() {
		var snap store.InventorySnapshot
		var threshold sql.NullInt64
		var lastUpdated sql.NullTime

		err := rows.Scan(
			&snap.ProductKey,
			&snap.DisplayName,
			&snap.Quantity,
			&threshold,
			&snap.DailyRate,
			&snap.UnitCost,
			&lastUpdated,
			&snap.CapturedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if threshold.Valid {
			v := int(threshold.Int64)
			snap.RestockThreshold = &v
		}
		if lastUpdated.Valid {
			t := lastUpdated.Time
			snap.LastUpdated = &t
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

func (s *snapshotStore) CapturedAt(ctx context.Context) (*time.Time, error) {
	var captured sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT MAX(captured_at) FROM inventory_snapshots`).Scan(&captured)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot capture time: %w", err)
	}
	if !captured.Valid {
		return nil, nil
	}
	return &captured.Time, nil
}
