package etl

// sales.go rewrites policy-cleaned sales rows with surrogate keys and
// coerces the numeric fields. Rows that cannot be resolved or parsed
// are dropped and counted; nothing here is fatal.

import (
	"log/slog"
)

// ValidateSales resolves each cleaned sales record's external
// customer_id and product_id to surrogate keys and derives the
// subtotal. Quantity defaults to 1 when missing, unparseable, or below
// 1; a row with an unparseable unit_price is dropped.
func ValidateSales(logger *slog.Logger, records []RawRecord, customers, products *NaturalKeyMap, st *EntityStats) []ValidatedTransaction {
	var unmappedCustomers, unmappedProducts, invalidPrices int

	out := make([]ValidatedTransaction, 0, len(records))
	for _, rec := range records {
		customerID, ok := customers.Surrogate(rec["customer_id"])
		if !ok {
			st.MissingDropped++
			unmappedCustomers++
			continue
		}
		productID, ok := products.Surrogate(rec["product_id"])
		if !ok {
			st.MissingDropped++
			unmappedProducts++
			continue
		}

		unitPrice, ok := ToDecimal(rec["unit_price"])
		if !ok {
			st.InvalidDropped++
			invalidPrices++
			continue
		}

		qty, ok := ToInt(rec["quantity"])
		if !ok || qty < 1 {
			qty = 1
			st.DefaultsApplied++
		}

		out = append(out, ValidatedTransaction{
			CustomerID: customerID,
			ProductID:  productID,
			Date:       rec["transaction_date"],
			Quantity:   qty,
			UnitPrice:  unitPrice,
			Subtotal:   unitPrice.Mul(decimalFromInt(qty)),
			Status:     rec["status"],
		})
	}

	if unmappedCustomers > 0 {
		logger.Info("dropped records with unmapped customer_id",
			"entity", "sales", "count", unmappedCustomers)
	}
	if unmappedProducts > 0 {
		logger.Info("dropped records with unmapped product_id",
			"entity", "sales", "count", unmappedProducts)
	}
	if invalidPrices > 0 {
		logger.Info("dropped records with invalid unit_price",
			"entity", "sales", "count", invalidPrices)
	}

	return out
}
