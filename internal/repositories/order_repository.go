package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodcourt-labs/order-platform/internal/models"
	"github.com/google/uuid"
)

// OrderFilter scopes a listing: a nil UserID means all orders (admin view);
// Archived selects delivered orders only, otherwise active ones.
type OrderFilter struct {
	UserID   *uuid.UUID
	Archived bool
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter, page int, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder inserts the order row and its item batch in a single
// transaction. The database assigns the id and creation timestamp, which are
// written back into the order. The orders_events trigger publishes the insert
// on commit.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	query := `
		INSERT INTO orders (user_id, total, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(dbCtx, query, order.UserID, order.Total, order.Status).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, size)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		if err := tx.QueryRowContext(dbCtx, itemQuery, item.OrderID, item.ProductID, item.Quantity, item.Size).Scan(&item.ID); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT user_id, total, status, created_at
		FROM orders
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&order.UserID, &order.Total, &order.Status, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	itemsQuery := `
		SELECT oi.id, oi.product_id, oi.quantity, oi.size, p.name, p.price, p.image
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {
		item := models.OrderItem{OrderID: id, Product: &models.Product{}}

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Size, &item.Product.Name, &item.Product.Price, &item.Product.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.Product.ID = item.ProductID

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter OrderFilter, page int, size int) ([]models.Order, int, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	where := `WHERE (status = $1) = $2`
	args := []any{models.OrderStatusDelivered, filter.Archived}

	if filter.UserID != nil {
		where += ` AND user_id = $3`
		args = append(args, *filter.UserID)
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM orders ` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := fmt.Sprintf(`
		SELECT id, user_id, total, status, created_at
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, size, offset)

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var order models.Order

		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateOrderStatus writes the new status and returns the updated row. The
// orders_events trigger publishes the update; notification dispatch happens
// in the service layer, once per successful transition.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	dbCtx, cancel := withQueryTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2
		RETURNING id, user_id, total, status, created_at
	`

	order := &models.Order{}

	err := r.DB.QueryRowContext(dbCtx, query, status, id).Scan(&order.ID, &order.UserID, &order.Total, &order.Status, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}
