package store

// load.go implements the replace-all loaders. Every insert uses
// RETURNING so surrogate keys come back in insertion order, which the
// key reconciler depends on. A positional alignment with the input batch
// would make the natural-key join unnecessary; the (id, natural key)
// contract is kept to match the reconciler's design.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/etl"
)

const insertCustomerSQL = `
	INSERT INTO customers (first_name, last_name, email, phone, city, registration_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING customer_id`

const insertProductSQL = `
	INSERT INTO products (product_name, category, price, stock_quantity)
	VALUES ($1, $2, $3, $4)
	RETURNING product_id`

const insertOrderSQL = `
	INSERT INTO orders (customer_id, order_date, total_amount, status)
	VALUES ($1, $2, $3, $4)
	RETURNING order_id`

const insertOrderItemSQL = `
	INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
	VALUES ($1, $2, $3, $4, $5)`

// ReplaceCustomers clears the schema's dependent tables and reloads the
// customers table. Returns (surrogate id, email) per row in insertion
// order.
func (s *Store) ReplaceCustomers(ctx context.Context, records []etl.CleanCustomer) ([]etl.KeyedRow, error) {
	var out []etl.KeyedRow

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		// Dependents first so the FK constraints allow the reload.
		for _, table := range []string{"order_items", "orders", "customers"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		out = make([]etl.KeyedRow, 0, len(records))
		for _, rec := range records {
			var id int64
			err := tx.QueryRow(ctx, insertCustomerSQL,
				rec.FirstName,
				rec.LastName,
				rec.Email,
				pgText(rec.Phone),
				pgText(rec.City),
				pgDate(rec.RegistrationDate),
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("inserting customer %q: %w", rec.Email, err)
			}
			out = append(out, etl.KeyedRow{ID: id, NaturalKey: rec.Email})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceProducts reloads the products table. Returns (surrogate id,
// product name) per row in insertion order.
func (s *Store) ReplaceProducts(ctx context.Context, records []etl.CleanProduct) ([]etl.KeyedRow, error) {
	var out []etl.KeyedRow

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		for _, table := range []string{"order_items", "products"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		out = make([]etl.KeyedRow, 0, len(records))
		for _, rec := range records {
			var id int64
			err := tx.QueryRow(ctx, insertProductSQL,
				rec.Name,
				rec.Category,
				rec.Price,
				rec.StockQuantity,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("inserting product %q: %w", rec.Name, err)
			}
			out = append(out, etl.KeyedRow{ID: id, NaturalKey: rec.Name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceOrders reloads orders and order_items. All orders are inserted
// and assigned ids before any item, since each item references its
// parent order's surrogate id. Returns the number of items inserted.
func (s *Store) ReplaceOrders(ctx context.Context, orders []etl.Order, items []etl.OrderItem) (int, error) {
	inserted := 0

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		for _, table := range []string{"order_items", "orders"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		idByKey := make(map[etl.OrderKey]int64, len(orders))
		for _, o := range orders {
			var id int64
			err := tx.QueryRow(ctx, insertOrderSQL,
				o.Key.CustomerID,
				pgDate(o.Key.Date),
				o.TotalAmount,
				o.Status,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("inserting order for customer %d on %s: %w",
					o.Key.CustomerID, o.Key.Date, err)
			}
			idByKey[o.Key] = id
		}

		for _, item := range items {
			orderID, ok := idByKey[item.Key]
			if !ok {
				return fmt.Errorf("order item references unknown order key (customer %d, date %s)",
					item.Key.CustomerID, item.Key.Date)
			}
			_, err := tx.Exec(ctx, insertOrderItemSQL,
				orderID,
				item.ProductID,
				item.Quantity,
				item.UnitPrice,
				item.Subtotal,
			)
			if err != nil {
				return fmt.Errorf("inserting order item: %w", err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// pgText maps empty strings to NULL.
func pgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// pgDate parses an ISO date, mapping empty or malformed input to NULL.
func pgDate(iso string) pgtype.Date {
	if iso == "" {
		return pgtype.Date{Valid: false}
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}
