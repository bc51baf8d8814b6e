package etl

// pipeline.go orchestrates the strictly sequential run: each stage fully
// consumes the previous stage's output before the next begins. Row-level
// problems are absorbed into the stats; anything that would corrupt
// referential integrity or leave the schema unusable aborts the run.

import (
	"context"
	"fmt"
	"log/slog"
)

// Source supplies the raw rows (header included) for the three fixed
// feeds: "customers", "products", "sales".
type Source interface {
	ReadFeed(ctx context.Context, feed string) ([][]string, error)
}

// Store persists clean records. Replace operations clear existing rows
// and report the assigned surrogate keys paired with each row's natural
// key, in insertion order. ReplaceOrders persists all orders before any
// item and returns the number of items inserted. Each call is one
// transaction: a failure rolls back that phase only.
type Store interface {
	ReplaceCustomers(ctx context.Context, records []CleanCustomer) ([]KeyedRow, error)
	ReplaceProducts(ctx context.Context, records []CleanProduct) ([]KeyedRow, error)
	ReplaceOrders(ctx context.Context, orders []Order, items []OrderItem) (int, error)
}

// Pipeline wires the source, store, and logger for one synchronous run.
type Pipeline struct {
	src    Source
	store  Store
	logger *slog.Logger
}

// NewPipeline creates a pipeline. The logger should already carry the
// run id.
func NewPipeline(src Source, store Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{src: src, store: store, logger: logger}
}

// Run executes the full pipeline and returns the quality stats for the
// run. On error the returned stats reflect the stages completed so far;
// the caller decides whether a partial report is worth emitting.
func (p *Pipeline) Run(ctx context.Context) (*QualityStats, error) {
	stats := &QualityStats{}

	// Customers: clean, persist, reconcile keys by email.
	custRaw, err := p.readFeed(ctx, CustomersPolicy, &stats.Customers)
	if err != nil {
		return stats, err
	}
	customers := BuildCustomers(CleanRecords(p.logger, CustomersPolicy, custRaw, &stats.Customers))

	persistedCustomers, err := p.store.ReplaceCustomers(ctx, customers)
	if err != nil {
		return stats, fmt.Errorf("loading customers: %w", err)
	}
	stats.Customers.Loaded = len(persistedCustomers)

	customerKeys := BuildNaturalKeyMap(custRaw, "customer_id", "email", persistedCustomers)
	p.logger.Info("customers loaded",
		"stats", stats.Customers, "reconciled", customerKeys.Len())

	// Products: clean, persist, reconcile keys by product name.
	prodRaw, err := p.readFeed(ctx, ProductsPolicy, &stats.Products)
	if err != nil {
		return stats, err
	}
	products := BuildProducts(p.logger, CleanRecords(p.logger, ProductsPolicy, prodRaw, &stats.Products), &stats.Products)

	persistedProducts, err := p.store.ReplaceProducts(ctx, products)
	if err != nil {
		return stats, fmt.Errorf("loading products: %w", err)
	}
	stats.Products.Loaded = len(persistedProducts)

	productKeys := BuildNaturalKeyMap(prodRaw, "product_id", "product_name", persistedProducts)
	p.logger.Info("products loaded",
		"stats", stats.Products, "reconciled", productKeys.Len())

	// Sales: clean, resolve against the key maps, fold into orders.
	salesRaw, err := p.readFeed(ctx, SalesPolicy, &stats.Sales)
	if err != nil {
		return stats, err
	}
	txs := ValidateSales(p.logger,
		CleanRecords(p.logger, SalesPolicy, salesRaw, &stats.Sales),
		customerKeys, productKeys, &stats.Sales)

	orders := AggregateOrders(txs)
	p.logger.Info("transactions aggregated",
		"transactions", len(txs), "orders", orders.Len(), "items", len(orders.Items()))

	itemsInserted, err := p.store.ReplaceOrders(ctx, orders.Orders(), orders.Items())
	if err != nil {
		return stats, fmt.Errorf("loading orders: %w", err)
	}
	stats.Sales.Loaded = itemsInserted
	p.logger.Info("orders loaded", "stats", stats.Sales)

	return stats, nil
}

// readFeed reads and parses one feed, recording the rows-read counter.
// Errors here are structural and fatal.
func (p *Pipeline) readFeed(ctx context.Context, pol EntityPolicy, st *EntityStats) ([]RawRecord, error) {
	rows, err := p.src.ReadFeed(ctx, pol.Entity)
	if err != nil {
		return nil, fmt.Errorf("reading %s feed: %w", pol.Entity, err)
	}

	records, err := ParseRecords(pol, rows)
	if err != nil {
		return nil, err
	}
	st.TotalRead = len(records)
	p.logger.Info("feed read", "entity", pol.Entity, "rows", len(records))

	return records, nil
}
