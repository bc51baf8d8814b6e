package etl

// aggregate.go folds the flat validated transaction stream into grouped
// orders. Each unique (surrogate customer id, transaction date) pair
// becomes one order whose total grows as matching transactions fold in;
// every transaction yields exactly one order item, duplicates included.

import (
	"github.com/shopspring/decimal"
)

// MaxStatusLen mirrors the orders.status column width.
const MaxStatusLen = 20

// DefaultOrderStatus is used when a transaction carries no usable status.
const DefaultOrderStatus = "Completed"

// OrderKey is the grouping key for folding transactions into orders.
type OrderKey struct {
	CustomerID int64
	Date       string // ISO
}

// Order is an aggregated order. TotalAmount grows monotonically while
// transactions fold in; Status is fixed by the first transaction seen
// for the key (an intentional simplification: later statuses in the
// same group are ignored).
type Order struct {
	Key         OrderKey
	TotalAmount decimal.Decimal
	Status      string
}

// OrderItem is one transaction's line within an order. Items are never
// merged: a repeated (order, product) pair stays as separate rows.
type OrderItem struct {
	Key       OrderKey
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// OrderSet is the aggregation working set. It preserves first-seen
// order of grouping keys so persistence is deterministic.
type OrderSet struct {
	orders map[OrderKey]*Order
	keys   []OrderKey
	items  []OrderItem
}

// AggregateOrders groups validated transactions into orders and items.
func AggregateOrders(txs []ValidatedTransaction) *OrderSet {
	set := &OrderSet{orders: make(map[OrderKey]*Order, len(txs))}

	for _, tx := range txs {
		key := OrderKey{CustomerID: tx.CustomerID, Date: tx.Date}

		if o, ok := set.orders[key]; ok {
			o.TotalAmount = o.TotalAmount.Add(tx.Subtotal)
		} else {
			set.orders[key] = &Order{
				Key:         key,
				TotalAmount: tx.Subtotal,
				Status:      orderStatus(tx.Status),
			}
			set.keys = append(set.keys, key)
		}

		set.items = append(set.items, OrderItem{
			Key:       key,
			ProductID: tx.ProductID,
			Quantity:  tx.Quantity,
			UnitPrice: tx.UnitPrice,
			Subtotal:  tx.Subtotal,
		})
	}

	return set
}

// Orders returns the aggregated orders in first-seen key order.
func (s *OrderSet) Orders() []Order {
	out := make([]Order, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, *s.orders[key])
	}
	return out
}

// Items returns one item per validated transaction, in input order.
func (s *OrderSet) Items() []OrderItem {
	return s.items
}

// Len returns the number of distinct orders.
func (s *OrderSet) Len() int {
	return len(s.keys)
}

// orderStatus truncates a transaction status to the column width,
// falling back to DefaultOrderStatus when absent.
func orderStatus(raw string) string {
	if raw == "" {
		return DefaultOrderStatus
	}
	r := []rune(raw)
	if len(r) > MaxStatusLen {
		return string(r[:MaxStatusLen])
	}
	return raw
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
