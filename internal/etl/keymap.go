package etl

// keymap.go rebuilds the link between the source system's identifiers
// and the surrogate keys the database assigned at insert time. The join
// runs through a human-readable natural key (email for customers,
// product name for products): raw input is scanned once for natural key
// -> external id, then each persisted (surrogate id, natural key) pair
// is resolved back to its external id.
//
// If the natural key is not unique in the raw input, the scan silently
// keeps whichever external id wrote last. A positional return from the
// store would avoid the second lookup entirely; the natural-key join is
// kept deliberately (see DESIGN.md).

// NaturalKeyMap is a bidirectional mapping between external natural-key
// identifiers and database-assigned surrogate keys, scoped to one entity
// type. Built once per run after persistence; read-only afterward.
type NaturalKeyMap struct {
	toSurrogate map[string]int64
	toExternal  map[int64]string
}

// BuildNaturalKeyMap joins the raw input against the persisted rows.
// External ids whose records were dropped during validation are simply
// absent from the map.
func BuildNaturalKeyMap(raws []RawRecord, externalIDCol, naturalKeyCol string, persisted []KeyedRow) *NaturalKeyMap {
	lookup := make(map[string]string, len(raws))
	for _, rec := range raws {
		nk := rec[naturalKeyCol]
		ext := rec[externalIDCol]
		if nk != "" && ext != "" {
			lookup[nk] = ext
		}
	}

	m := &NaturalKeyMap{
		toSurrogate: make(map[string]int64, len(persisted)),
		toExternal:  make(map[int64]string, len(persisted)),
	}
	for _, row := range persisted {
		ext, ok := lookup[row.NaturalKey]
		if !ok {
			continue
		}
		m.toSurrogate[ext] = row.ID
		m.toExternal[row.ID] = ext
	}
	return m
}

// Surrogate returns the surrogate key assigned to an external id.
func (m *NaturalKeyMap) Surrogate(externalID string) (int64, bool) {
	id, ok := m.toSurrogate[externalID]
	return id, ok
}

// External returns the external id a surrogate key was assigned to.
func (m *NaturalKeyMap) External(surrogateID int64) (string, bool) {
	ext, ok := m.toExternal[surrogateID]
	return ext, ok
}

// Len returns the number of reconciled id pairs.
func (m *NaturalKeyMap) Len() int {
	return len(m.toSurrogate)
}
