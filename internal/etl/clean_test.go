package etl

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// ============================================================
// ParseRecords
// ============================================================

func TestParseRecords(t *testing.T) {
	rows := [][]string{
		{"customer_id", "customer_name", "email", "phone", "city", "registration_date"},
		{"C001", "Priya Sharma", "priya@example.com", "9876543210", "Mumbai", "2024-01-15"},
		{"", "", "", "", "", ""},
		{"C002", "Anil Gupta", "anil@example.com", "", "Delhi", "15/01/2024"},
	}

	records, err := ParseRecords(CustomersPolicy, rows)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (empty row skipped)", len(records))
	}
	if records[0]["email"] != "priya@example.com" {
		t.Errorf("records[0][email] = %q", records[0]["email"])
	}
	if records[1]["customer_id"] != "C002" {
		t.Errorf("records[1][customer_id] = %q", records[1]["customer_id"])
	}
}

func TestParseRecords_HeaderAfterBanner(t *testing.T) {
	rows := [][]string{
		{"FlexiMart Customer Export"},
		{},
		{"customer_id", "customer_name", "email", "phone", "city", "registration_date"},
		{"C001", "Priya Sharma", "priya@example.com", "9876543210", "Mumbai", "2024-01-15"},
	}

	records, err := ParseRecords(CustomersPolicy, rows)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestParseRecords_ShortRowPadded(t *testing.T) {
	rows := [][]string{
		{"customer_id", "customer_name", "email", "phone", "city", "registration_date"},
		{"C001", "Priya Sharma", "priya@example.com"},
	}

	records, err := ParseRecords(CustomersPolicy, rows)
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if got := records[0]["city"]; got != "" {
		t.Errorf("missing trailing cell = %q, want empty", got)
	}
}

func TestParseRecords_MissingColumn(t *testing.T) {
	rows := [][]string{
		{"customer_id", "customer_name", "phone"},
		{"C001", "Priya Sharma", "9876543210"},
	}

	_, err := ParseRecords(CustomersPolicy, rows)
	if err == nil {
		t.Fatal("ParseRecords() expected error for missing email column")
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestParseRecords_EmptyFeed(t *testing.T) {
	_, err := ParseRecords(CustomersPolicy, nil)
	if err == nil {
		t.Fatal("ParseRecords() expected error for empty feed")
	}
}

// ============================================================
// CleanRecords
// ============================================================

func customerRecord(id, name, email, phone, city, date string) RawRecord {
	return RawRecord{
		"customer_id":       id,
		"customer_name":     name,
		"email":             email,
		"phone":             phone,
		"city":              city,
		"registration_date": date,
	}
}

func TestCleanRecords_DedupKeepFirst(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "priya@example.com", "", "Mumbai", "2024-01-15"),
		customerRecord("C002", "Priya S", "priya@example.com", "", "Pune", "2024-02-01"),
		customerRecord("C003", "Anil Gupta", "anil@example.com", "", "Delhi", "2024-01-20"),
	}

	var st EntityStats
	clean := CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	if len(clean) != 2 {
		t.Fatalf("got %d records, want 2", len(clean))
	}
	if st.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", st.DuplicatesRemoved)
	}
	// First occurrence wins
	if clean[0]["city"] != "Mumbai" {
		t.Errorf("kept record city = %q, want Mumbai", clean[0]["city"])
	}
}

func TestCleanRecords_DedupBeforeRequiredCheck(t *testing.T) {
	// Two rows share an email; the first has no name. Dedup keeps the
	// first, then the required check drops it, so neither survives.
	records := []RawRecord{
		customerRecord("C001", "", "priya@example.com", "", "Mumbai", ""),
		customerRecord("C002", "Priya Sharma", "priya@example.com", "", "Pune", ""),
	}

	var st EntityStats
	clean := CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	if len(clean) != 0 {
		t.Fatalf("got %d records, want 0", len(clean))
	}
	if st.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", st.DuplicatesRemoved)
	}
	if st.MissingDropped != 1 {
		t.Errorf("MissingDropped = %d, want 1", st.MissingDropped)
	}
}

func TestCleanRecords_RequiredDrop(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "", "", "Mumbai", ""),
		customerRecord("C002", "", "anil@example.com", "", "Delhi", ""),
		customerRecord("C003", "Meera Iyer", "meera@example.com", "", "Chennai", ""),
	}

	var st EntityStats
	clean := CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	if len(clean) != 1 {
		t.Fatalf("got %d records, want 1", len(clean))
	}
	if st.MissingDropped != 2 {
		t.Errorf("MissingDropped = %d, want 2", st.MissingDropped)
	}
	if clean[0]["email"] != "meera@example.com" {
		t.Errorf("surviving record email = %q", clean[0]["email"])
	}
}

func TestCleanRecords_DefaultApplied(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "priya@example.com", "", "", "2024-01-15"),
	}

	var st EntityStats
	clean := CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	if len(clean) != 1 {
		t.Fatalf("got %d records, want 1", len(clean))
	}
	if clean[0]["city"] != "Unknown" {
		t.Errorf("city = %q, want Unknown", clean[0]["city"])
	}
	if st.DefaultsApplied != 1 {
		t.Errorf("DefaultsApplied = %d, want 1", st.DefaultsApplied)
	}
}

func TestCleanRecords_NormalizersApplied(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "priya@example.com", "98765 43210", "Mumbai", "15/01/2024"),
	}

	var st EntityStats
	clean := CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	if clean[0]["phone"] != "+91-9876543210" {
		t.Errorf("phone = %q, want +91-9876543210", clean[0]["phone"])
	}
	if clean[0]["registration_date"] != "2024-01-15" {
		t.Errorf("registration_date = %q, want 2024-01-15", clean[0]["registration_date"])
	}
}

func TestCleanRecords_UnparseableOptionalDateKeptEmpty(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "priya@example.com", "", "Mumbai", "garbage"),
	}

	var st EntityStats
	clean := CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	if len(clean) != 1 {
		t.Fatalf("got %d records, want 1 (optional date does not drop)", len(clean))
	}
	if clean[0]["registration_date"] != "" {
		t.Errorf("registration_date = %q, want empty", clean[0]["registration_date"])
	}
}

func TestCleanRecords_EmptyDedupKeysCollapse(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "", "", "Mumbai", ""),
		customerRecord("C002", "Anil Gupta", "", "", "Delhi", ""),
	}

	var st EntityStats
	CleanRecords(discardLogger(), CustomersPolicy, records, &st)

	// Both rows have an empty email key; the second counts as a duplicate.
	if st.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", st.DuplicatesRemoved)
	}
}

func TestCleanRecords_Idempotent(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "priya@example.com", "98765 43210", "", "15/01/2024"),
		customerRecord("C002", "Priya S", "priya@example.com", "", "Pune", ""),
		customerRecord("C003", "Anil Gupta", "anil@example.com", "", "Delhi", "2024-01-20"),
	}

	var first EntityStats
	once := CleanRecords(discardLogger(), CustomersPolicy, records, &first)

	var second EntityStats
	twice := CleanRecords(discardLogger(), CustomersPolicy, once, &second)

	if len(twice) != len(once) {
		t.Fatalf("second pass changed record count: %d -> %d", len(once), len(twice))
	}
	if second.DuplicatesRemoved != 0 || second.MissingDropped != 0 || second.DefaultsApplied != 0 {
		t.Errorf("second pass counted work on clean input: %+v", second)
	}
	for i := range once {
		for k, v := range once[i] {
			if twice[i][k] != v {
				t.Errorf("record %d field %q changed: %q -> %q", i, k, v, twice[i][k])
			}
		}
	}
}

// ============================================================
// BuildCustomers / BuildProducts
// ============================================================

func TestBuildCustomers(t *testing.T) {
	records := []RawRecord{
		customerRecord("C001", "Priya Sharma", "priya@example.com", "+91-9876543210", "Mumbai", "2024-01-15"),
		customerRecord("C002", "Madonna", "m@example.com", "", "Delhi", ""),
	}

	customers := BuildCustomers(records)
	if len(customers) != 2 {
		t.Fatalf("got %d customers, want 2", len(customers))
	}
	if customers[0].FirstName != "Priya" || customers[0].LastName != "Sharma" {
		t.Errorf("name split = (%q, %q)", customers[0].FirstName, customers[0].LastName)
	}
	if customers[1].FirstName != "Madonna" || customers[1].LastName != "" {
		t.Errorf("single-token name = (%q, %q)", customers[1].FirstName, customers[1].LastName)
	}
}

func productRecord(id, name, category, price, stock string) RawRecord {
	return RawRecord{
		"product_id":     id,
		"product_name":   name,
		"category":       category,
		"price":          price,
		"stock_quantity": stock,
	}
}

func TestBuildProducts(t *testing.T) {
	records := []RawRecord{
		productRecord("P001", "Laptop", "Electronics", "45999.50", "25"),
		productRecord("P002", "Mouse", "Electronics", "zero", "100"),  // invalid price
		productRecord("P003", "Keyboard", "Electronics", "-10", "5"),  // non-positive price
		productRecord("P004", "Monitor", "Electronics", "8999", ""),   // missing stock
		productRecord("P005", "Cable", "Electronics", "199", "-3"),    // negative stock
		productRecord("P006", "Stand", "Electronics", "1299", "many"), // unparseable stock
	}

	var st EntityStats
	products := BuildProducts(discardLogger(), records, &st)

	if len(products) != 4 {
		t.Fatalf("got %d products, want 4", len(products))
	}
	if st.InvalidDropped != 2 {
		t.Errorf("InvalidDropped = %d, want 2", st.InvalidDropped)
	}
	if st.DefaultsApplied != 3 {
		t.Errorf("DefaultsApplied = %d, want 3", st.DefaultsApplied)
	}
	if !products[0].Price.Equal(mustDecimal(t, "45999.50")) {
		t.Errorf("price = %s, want 45999.50", products[0].Price)
	}
	for _, p := range products[1:] {
		if p.StockQuantity != 0 {
			t.Errorf("product %s stock = %d, want 0", p.Name, p.StockQuantity)
		}
	}
}
