package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bakeops/ovenboard/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}

func TestSave_ReplacesSnapshotInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	threshold := 20
	captured := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM inventory_snapshots").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO inventory_snapshots").
		WithArgs("rye-800", "Rye Loaf", 50, threshold, 10.0, 2.4, nil, captured).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO inventory_snapshots").
		WithArgs("bag-250", "Baguette", 200, nil, 10.0, 0.9, nil, captured).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.Save(context.Background(), []store.InventorySnapshot{
		{ProductKey: "rye-800", DisplayName: "Rye Loaf", Quantity: 50, RestockThreshold: &threshold, DailyRate: 10, UnitCost: 2.4, CapturedAt: captured},
		{ProductKey: "bag-250", DisplayName: "Baguette", Quantity: 200, DailyRate: 10, UnitCost: 0.9, CapturedAt: captured},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM inventory_snapshots").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO inventory_snapshots").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	s, err := NewStore(db)
	require.NoError(t, err)

	err = s.Save(context.Background(), []store.InventorySnapshot{
		{ProductKey: "rye-800", Quantity: 50},
	})
	assert.ErrorContains(t, err, "rye-800")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	captured := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 2, 28, 18, 30, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"product_key", "display_name", "quantity", "restock_threshold",
		"daily_rate", "unit_cost", "last_updated", "captured_at",
	}).
		AddRow("bag-250", "Baguette", 200, nil, 10.0, 0.9, nil, captured).
		AddRow("rye-800", "Rye Loaf", 50, 20, 10.0, 2.4, updated, captured)

	mock.ExpectQuery("SELECT (.+) FROM inventory_snapshots").WillReturnRows(rows)

	s, err := NewStore(db)
	require.NoError(t, err)

	snapshots, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	assert.Equal(t, "bag-250", snapshots[0].ProductKey)
	assert.Nil(t, snapshots[0].RestockThreshold)
	assert.Nil(t, snapshots[0].LastUpdated)

	require.NotNil(t, snapshots[1].RestockThreshold)
	assert.Equal(t, 20, *snapshots[1].RestockThreshold)
	require.NotNil(t, snapshots[1].LastUpdated)
	assert.Equal(t, updated, *snapshots[1].LastUpdated)
	assert.Equal(t, captured, snapshots[1].CapturedAt)
}

func TestCapturedAt(t *testing.T) {
	t.Run("returns the capture time", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		captured := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT MAX\\(captured_at\\) FROM inventory_snapshots").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(captured))

		s, err := NewStore(db)
		require.NoError(t, err)

		got, err := s.CapturedAt(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, captured, *got)
	})

	t.Run("empty table yields nil", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT MAX\\(captured_at\\) FROM inventory_snapshots").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		s, err := NewStore(db)
		require.NoError(t, err)

		got, err := s.CapturedAt(context.Background())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
