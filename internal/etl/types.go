// Package etl implements the record reconciliation and order-aggregation
// core of the FlexiMart pipeline: policy-driven row cleaning and
// deduplication, natural-to-surrogate key reconciliation, and folding of
// the flat sales log into grouped orders. The package has no I/O of its
// own; CSV reading and persistence are collaborators behind the Source
// and Store interfaces.
package etl

import (
	"github.com/shopspring/decimal"
)

// RawRecord is one input row as a column name -> cleaned cell mapping.
// No invariants hold; values may be empty or malformed.
type RawRecord map[string]string

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldNumeric
	FieldInt
)

// FieldSpec defines the cleaning rules for a single column.
type FieldSpec struct {
	Name       string              // Column name (lowercase, as in the header)
	Type       FieldType           // Expected data type
	Required   bool                // Record is dropped (and counted) when empty after normalization
	Default    string              // Substituted when empty; counts as a defaulting action
	Normalizer func(string) string // Optional canonicalizer applied to non-empty values
}

// EntityPolicy is the per-entity cleaning configuration: the structural
// column set, the dedup key, and the field rules.
type EntityPolicy struct {
	Entity   string   // Stats/report key: "customers", "products", "sales"
	Columns  []string // Structurally required columns; a missing column aborts the run
	DedupKey string   // Keep-first deduplication column
	Fields   []FieldSpec
}

// CleanCustomer is a customer row that survived validation.
// RegistrationDate is ISO (YYYY-MM-DD) or empty.
type CleanCustomer struct {
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	City             string
	RegistrationDate string
}

// CleanProduct is a product row that survived validation.
type CleanProduct struct {
	Name          string
	Category      string
	Price         decimal.Decimal
	StockQuantity int
}

// ValidatedTransaction is a sales row that survived every validation
// stage, annotated with resolved surrogate ids and the derived subtotal.
type ValidatedTransaction struct {
	CustomerID int64 // surrogate
	ProductID  int64 // surrogate
	Date       string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal // Quantity x UnitPrice
	Status     string
}

// KeyedRow is a persisted row's surrogate id paired with the natural key
// it was inserted under. Store implementations return these in insertion
// order.
type KeyedRow struct {
	ID         int64
	NaturalKey string
}
