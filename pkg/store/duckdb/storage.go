package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const InventorySnapshotSchema = `
	CREATE TABLE IF NOT EXISTS inventory_snapshots (
		product_key VARCHAR NOT NULL,
		display_name VARCHAR NOT NULL,
		quantity INTEGER NOT NULL,
		restock_threshold INTEGER NULL,
		daily_rate DOUBLE NOT NULL,
		unit_cost DOUBLE NOT NULL,
		last_updated TIMESTAMP NULL,
		captured_at TIMESTAMP NOT NULL,
		PRIMARY KEY (product_key)
	);
`

var bootQueries = []string{
	InventorySnapshotSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=2", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
