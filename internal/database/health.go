package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CheckHealth(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return pool.Ping(ctx)
}

// SupplierProbe is the first supplier row, read at startup to confirm the schema is reachable.
type SupplierProbe struct {
	ID     int64
	Name   string
	Exists bool
}

// ProbeSuppliers reads a single row from proveedores. An empty table is not an error.
func ProbeSuppliers(ctx context.Context, pool *pgxpool.Pool) (SupplierProbe, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var probe SupplierProbe
	err := pool.QueryRow(ctx, `SELECT id, nombre FROM proveedores ORDER BY id LIMIT 1`).Scan(&probe.ID, &probe.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return probe, nil
		}
		return probe, fmt.Errorf("select supplier: %w", err)
	}

	probe.Exists = true
	return probe, nil
}
