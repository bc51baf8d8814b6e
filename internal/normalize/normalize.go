// Package normalize provides pure field canonicalizers for the raw CSV
// extracts. All functions are deterministic, do no I/O, and map empty
// input to empty output.
package normalize

import (
	"strings"
	"time"
	"unicode"
)

// Date layouts tried in fixed order. Day-first layouts come before
// month-first, so an ambiguous value like "02-03-2024" resolves day-first.
// Non-padded layout values accept both padded and unpadded components.
var dateLayouts = []string{
	"2006-1-2", // ISO
	"2/1/2006", // day/month/year
	"2-1-2006", // day-month-year
	"2006/1/2", // year/month/day
	"1-2-2006", // month-day-year
}

// Phone standardizes a phone number to the +CC-NNNNNNNNNN shape,
// e.g. "+91-9876543210". All characters except digits and '+' are
// stripped. Input already carrying a '+' keeps its prefix verbatim;
// otherwise "+91-" is attached to the last 10 digits. This is
// best-effort formatting, not validation: a malformed country code
// passes through unchanged and callers must tolerate non-canonical
// output.
func Phone(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	if strings.HasPrefix(clean, "+") {
		if len(clean) > 3 {
			return clean[:3] + "-" + clean[3:]
		}
		return clean
	}

	if len(clean) >= 10 {
		return "+91-" + clean[len(clean)-10:]
	}
	if clean == "" {
		return ""
	}
	return "+91-" + clean
}

// Category standardizes category casing: "electronics", "ELECTRONICS"
// and "Electronics" all become "Electronics".
func Category(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	r := []rune(raw)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}

// Date converts a date in any supported layout to ISO (YYYY-MM-DD).
// The first matching layout wins; unparseable input yields "" and the
// caller decides whether that is worth a warning.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// SplitName splits a full name on the first whitespace run.
// A single-token name yields an empty last name.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}

	cut := strings.IndexFunc(full, unicode.IsSpace)
	if cut < 0 {
		return full, ""
	}
	return full[:cut], strings.TrimLeftFunc(full[cut:], unicode.IsSpace)
}
