package etl

import "testing"

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "45999.50", "45999.5", true},
		{"integer", "1200", "1200", true},
		{"dollar sign", "$1,299.99", "1299.99", true},
		{"euro sign", "€45.50", "45.5", true},
		{"pound sign", "£10", "10", true},
		{"thousands separators", "1,234,567.89", "1234567.89", true},
		{"accounting negative", "(123.45)", "-123.45", true},
		{"leading plus", "+42", "42", true},
		{"whitespace", "  99.99  ", "99.99", true},
		{"scientific", "1.5e3", "1500", true},
		{"empty", "", "0", false},
		{"text", "abc", "0", false},
		{"mixed", "12abc", "0", false},
		{"lone dot", ".", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToDecimal(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToDecimal(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.String() != tt.want {
				t.Errorf("ToDecimal(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"5", 5, true},
		{"5.9", 5, true}, // truncates, not rounds
		{"-3", -3, true},
		{"1,200", 1200, true},
		{"", 0, false},
		{"two", 0, false},
	}

	for _, tt := range tests {
		got, ok := ToInt(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToInt(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
