package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/ordenes/internal/database"
	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) InsertHeader(ctx context.Context, order domain.Order) (int64, error) {
	query := `
		INSERT INTO ordenes_compra (numero_orden, fecha, proveedor_id, estado)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		order.Number,
		order.Date,
		order.SupplierID,
		order.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order header: %w", err)
	}

	return id, nil
}

// InsertDetails writes the whole batch in one statement.
func (r *Repository) InsertDetails(ctx context.Context, lines []domain.DetailLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO detalle_orden (orden_id, producto_id, cantidad)
		SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::bigint[])
	`

	orderIDs := make([]int64, len(lines))
	productIDs := make([]int64, len(lines))
	quantities := make([]int64, len(lines))
	for i, line := range lines {
		orderIDs[i] = line.OrderID
		productIDs[i] = line.ProductID
		quantities[i] = line.Quantity
	}

	if _, err := r.pool.Exec(ctx, query, orderIDs, productIDs, quantities); err != nil {
		return fmt.Errorf("insert order details: %w", err)
	}

	return nil
}

func (r *Repository) FindHeaders(ctx context.Context, number string) ([]domain.OrderHeaderView, error) {
	query := `
		SELECT o.id, o.numero_orden, o.fecha, o.proveedor_id, o.estado,
		       COALESCE(p.nombre, '')
		FROM ordenes_compra o
		LEFT JOIN proveedores p ON p.id = o.proveedor_id
		WHERE ($1::text = '*' OR o.numero_orden = $1)
		ORDER BY o.id
	`

	rows, err := r.pool.Query(ctx, query, number)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	headers := []domain.OrderHeaderView{}
	for rows.Next() {
		var h domain.OrderHeaderView
		if err := rows.Scan(
			&h.ID,
			&h.Number,
			&h.Date,
			&h.SupplierID,
			&h.Status,
			&h.Supplier.Name,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		h.Supplier.ID = h.SupplierID
		headers = append(headers, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return headers, nil
}

func (r *Repository) FindDetails(ctx context.Context, orderID int64) ([]domain.DetailLineView, error) {
	query := `
		SELECT d.producto_id, COALESCE(p.nombre, ''), d.cantidad
		FROM detalle_orden d
		LEFT JOIN productos p ON p.id = d.producto_id
		WHERE d.orden_id = $1
		ORDER BY d.id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order details: %w", err)
	}
	defer rows.Close()

	details := []domain.DetailLineView{}
	for rows.Next() {
		var d domain.DetailLineView
		if err := rows.Scan(&d.ProductID, &d.ProductName, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan order detail: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order details: %w", err)
	}

	return details, nil
}

func (r *Repository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	query := `
		SELECT id, numero_orden, fecha, proveedor_id, estado
		FROM ordenes_compra
		WHERE numero_orden = $1
	`

	var order domain.Order
	err := r.pool.QueryRow(ctx, query, number).Scan(
		&order.ID,
		&order.Number,
		&order.Date,
		&order.SupplierID,
		&order.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	return &order, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (int64, error) {
	query := `
		UPDATE ordenes_compra
		SET estado = $1
		WHERE numero_orden = $2
	`

	result, err := r.pool.Exec(ctx, query, status, number)
	if err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *Repository) DeleteDetails(ctx context.Context, orderID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM detalle_orden WHERE orden_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order details: %w", err)
	}
	return nil
}

func (r *Repository) DeleteHeader(ctx context.Context, orderID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM ordenes_compra WHERE id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order header: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return database.CheckHealth(ctx, r.pool)
}
