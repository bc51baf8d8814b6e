package etl

// clean.go is the row validator/deduplicator. ParseRecords turns raw CSV
// rows into RawRecords and is the only place a structural error (missing
// required column) can abort the run. CleanRecords applies the entity
// policy row by row; bad rows are filtered and counted, never propagated
// as errors.

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/csvio"
)

// ParseRecords locates the header row and converts the data rows that
// follow it into RawRecords. Fully empty rows are skipped. A feed whose
// header lacks any of the policy's required columns is a structural
// mismatch and aborts the run.
func ParseRecords(pol EntityPolicy, rows [][]string) ([]RawRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: feed is empty", pol.Entity)
	}

	headerPos, idx := csvio.FindHeader(rows, pol.Columns)
	if headerPos < 0 {
		return nil, fmt.Errorf("%s: missing required columns: %s",
			pol.Entity, strings.Join(missingColumns(rows[0], pol.Columns), ", "))
	}

	records := make([]RawRecord, 0, len(rows)-headerPos-1)
	for _, row := range rows[headerPos+1:] {
		if csvio.IsEmptyRow(row) {
			continue
		}
		rec := make(RawRecord, len(idx))
		for name, pos := range idx {
			if pos < len(row) {
				rec[name] = csvio.CleanCell(row[pos])
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// CleanRecords applies the policy to the parsed records: keep-first
// deduplication, required-field drops, default substitution, and
// per-field normalization. Counters are updated for every drop and
// defaulting action; the per-stage deltas are logged the same way the
// load phases log theirs.
func CleanRecords(logger *slog.Logger, pol EntityPolicy, records []RawRecord, st *EntityStats) []RawRecord {
	deduped := dedupRecords(pol, records, st)
	if st.DuplicatesRemoved > 0 {
		logger.Info("removed duplicate records",
			"entity", pol.Entity, "key", pol.DedupKey, "count", st.DuplicatesRemoved)
	}

	missingByField := make(map[string]int)
	clean := make([]RawRecord, 0, len(deduped))

recordLoop:
	for _, rec := range deduped {
		for _, f := range pol.Fields {
			v := rec[f.Name]

			if v != "" && f.Normalizer != nil {
				nv := f.Normalizer(v)
				if nv == "" && f.Type == FieldDate {
					logger.Warn("could not parse date",
						"entity", pol.Entity, "field", f.Name, "value", v)
				}
				v = nv
			}

			if v == "" && f.Default != "" {
				v = f.Default
				st.DefaultsApplied++
			}

			if v == "" && f.Required {
				st.MissingDropped++
				missingByField[f.Name]++
				continue recordLoop
			}

			rec[f.Name] = v
		}
		clean = append(clean, rec)
	}

	for _, f := range pol.Fields {
		if n := missingByField[f.Name]; n > 0 {
			logger.Info("dropped records with missing required field",
				"entity", pol.Entity, "field", f.Name, "count", n)
		}
	}

	return clean
}

// dedupRecords removes duplicates by the policy's dedup key, keeping the
// first occurrence. Records with an empty key deduplicate against each
// other, matching the original extract semantics.
func dedupRecords(pol EntityPolicy, records []RawRecord, st *EntityStats) []RawRecord {
	if pol.DedupKey == "" {
		return records
	}

	seen := make(map[string]bool, len(records))
	out := make([]RawRecord, 0, len(records))
	for _, rec := range records {
		key := rec[pol.DedupKey]
		if seen[key] {
			st.DuplicatesRemoved++
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

func missingColumns(header []string, required []string) []string {
	idx := csvio.MakeHeaderIndex(header)
	var missing []string
	for _, name := range required {
		if _, ok := idx[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		// Header row not found at all within the search window.
		return required
	}
	return missing
}
