package etl

// policy.go fixes the cleaning policies for the three feeds and builds
// the typed clean records from policy-cleaned rows. The pipeline is not
// a generic ETL framework: exactly these three input shapes are
// supported.

import (
	"log/slog"

	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/normalize"
)

// CustomersPolicy cleans the customers feed: dedup by email keep-first,
// email required, phone and registration_date canonicalized, city
// defaulted to "Unknown".
var CustomersPolicy = EntityPolicy{
	Entity:   "customers",
	Columns:  []string{"customer_id", "customer_name", "email", "phone", "city", "registration_date"},
	DedupKey: "email",
	Fields: []FieldSpec{
		{Name: "customer_name", Type: FieldText, Required: true},
		{Name: "email", Type: FieldText, Required: true},
		{Name: "phone", Type: FieldText, Normalizer: normalize.Phone},
		{Name: "city", Type: FieldText, Default: "Unknown"},
		{Name: "registration_date", Type: FieldDate, Normalizer: normalize.Date},
	},
}

// ProductsPolicy cleans the products feed: dedup by product_id,
// category capitalized, price required (coerced later), stock defaulted.
var ProductsPolicy = EntityPolicy{
	Entity:   "products",
	Columns:  []string{"product_id", "product_name", "category", "price", "stock_quantity"},
	DedupKey: "product_id",
	Fields: []FieldSpec{
		{Name: "product_name", Type: FieldText, Required: true},
		{Name: "category", Type: FieldText, Required: true, Normalizer: normalize.Category},
		{Name: "price", Type: FieldNumeric, Required: true},
	},
}

// SalesPolicy cleans the sales feed: dedup by transaction_id, ids and
// unit_price required, transaction_date canonicalized then required.
// The status column is optional and absent from the structural set.
var SalesPolicy = EntityPolicy{
	Entity:   "sales",
	Columns:  []string{"transaction_id", "customer_id", "product_id", "quantity", "unit_price", "transaction_date"},
	DedupKey: "transaction_id",
	Fields: []FieldSpec{
		{Name: "customer_id", Type: FieldText, Required: true},
		{Name: "product_id", Type: FieldText, Required: true},
		{Name: "transaction_date", Type: FieldDate, Required: true, Normalizer: normalize.Date},
		{Name: "unit_price", Type: FieldNumeric, Required: true},
	},
}

// BuildCustomers converts policy-cleaned customer records into typed
// rows, splitting customer_name into first and last name.
func BuildCustomers(records []RawRecord) []CleanCustomer {
	out := make([]CleanCustomer, 0, len(records))
	for _, rec := range records {
		first, last := normalize.SplitName(rec["customer_name"])
		out = append(out, CleanCustomer{
			FirstName:        first,
			LastName:         last,
			Email:            rec["email"],
			Phone:            rec["phone"],
			City:             rec["city"],
			RegistrationDate: rec["registration_date"],
		})
	}
	return out
}

// BuildProducts converts policy-cleaned product records into typed rows.
// Price must coerce to a positive decimal or the record is dropped and
// counted; stock_quantity coerces to a non-negative integer with 0 as
// the default for missing or unparseable values.
func BuildProducts(logger *slog.Logger, records []RawRecord, st *EntityStats) []CleanProduct {
	var invalidPrices int
	out := make([]CleanProduct, 0, len(records))

	for _, rec := range records {
		price, ok := ToDecimal(rec["price"])
		if !ok || !price.IsPositive() {
			st.InvalidDropped++
			invalidPrices++
			continue
		}

		stock := 0
		if raw := rec["stock_quantity"]; raw == "" {
			st.DefaultsApplied++
		} else if n, ok := ToInt(raw); !ok || n < 0 {
			st.DefaultsApplied++
		} else {
			stock = n
		}

		out = append(out, CleanProduct{
			Name:          rec["product_name"],
			Category:      rec["category"],
			Price:         price,
			StockQuantity: stock,
		})
	}

	if invalidPrices > 0 {
		logger.Info("dropped records with invalid price",
			"entity", "products", "count", invalidPrices)
	}

	return out
}
