package etl

import "log/slog"

// EntityStats holds the per-entity data quality counters for one run.
//
// Drops and defaulting actions are tracked separately so the counts
// reconcile exactly:
//
//	TotalRead == DuplicatesRemoved + MissingDropped + InvalidDropped + Loaded
//
// The rendered report folds MissingDropped and DefaultsApplied into the
// single "missing values handled" line.
type EntityStats struct {
	TotalRead         int // rows read from the feed (empty rows excluded)
	DuplicatesRemoved int // rows removed by keep-first dedup
	MissingDropped    int // rows dropped for a missing/empty required field or unresolved reference
	DefaultsApplied   int // fields substituted with a default value (row kept)
	InvalidDropped    int // rows dropped for an unparseable or out-of-range value
	Loaded            int // rows persisted successfully
}

// MissingHandled is the count reported as "missing values handled":
// dropped-for-missing rows plus applied defaults.
func (s EntityStats) MissingHandled() int {
	return s.MissingDropped + s.DefaultsApplied
}

// LogValue implements slog.LogValuer for structured logging.
func (s EntityStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("total_read", s.TotalRead),
		slog.Int("duplicates_removed", s.DuplicatesRemoved),
		slog.Int("missing_dropped", s.MissingDropped),
		slog.Int("defaults_applied", s.DefaultsApplied),
		slog.Int("invalid_dropped", s.InvalidDropped),
		slog.Int("loaded", s.Loaded),
	)
}

// QualityStats aggregates the counters for all three entities across a
// single run. It is created at the start of a run and threaded through
// every stage; there is no global state.
type QualityStats struct {
	Customers EntityStats
	Products  EntityStats
	Sales     EntityStats
}

// entityStats pairs an entity name with its counters, in report order.
type entityStats struct {
	Name  string
	Stats *EntityStats
}

func (q *QualityStats) entities() []entityStats {
	return []entityStats{
		{"customers", &q.Customers},
		{"products", &q.Products},
		{"sales", &q.Sales},
	}
}
