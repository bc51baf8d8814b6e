package store

import (
	"context"
	"fmt"
)

// Table DDL, in dependency order. Column names and widths mirror the
// FlexiMart relational schema exactly; surrogate primary keys keep the
// source system's column naming.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id SERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		phone VARCHAR(20),
		city VARCHAR(50),
		registration_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		product_name VARCHAR(100) NOT NULL,
		category VARCHAR(50) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock_quantity INT DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		customer_id INT NOT NULL REFERENCES customers(customer_id),
		order_date DATE NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		status VARCHAR(20) DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		product_id INT NOT NULL REFERENCES products(product_id),
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL
	)`,
}

// CreateSchemaIfAbsent creates the four tables when missing. A failure
// here is structural and aborts the run.
func (s *Store) CreateSchemaIfAbsent(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
