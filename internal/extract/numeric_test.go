package extract

import (
	"math"
	"testing"
)

func TestNumericText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "trailing text", in: "23.456 (as of Mar 2024)", want: "23.456", wantOK: true},
		{name: "leading whitespace", in: "   18 times earnings", want: "18", wantOK: true},
		{name: "number inside prose", in: "PE is about 31.2x", want: "31.2", wantOK: true},
		{name: "no number", in: "not available", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := NumericText(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("NumericText(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("NumericText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	t.Parallel()

	if got, err := ParseDecimal("1,234.5"); err != nil || got != 1234.5 {
		t.Errorf("ParseDecimal(1,234.5) = %v, %v", got, err)
	}
	for _, in := range []string{"", "N/A", "NaN", "Inf"} {
		if _, err := ParseDecimal(in); err == nil {
			t.Errorf("ParseDecimal(%q) error = nil, want error", in)
		}
	}
}

func TestParsePercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{in: "18%", want: 0.18},
		{in: "-5%", want: -0.05},
		{in: "12", want: 0.12},
		{in: "1,250 %", want: 12.5},
	}
	for _, tt := range tests {
		got, err := ParsePercent(tt.in)
		if err != nil {
			t.Errorf("ParsePercent(%q) error = %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParsePercent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParsePercent("%"); err == nil {
		t.Error(`ParsePercent("%") error = nil, want error`)
	}
}

func TestKeepDigits(t *testing.T) {
	t.Parallel()

	if got := keepDigits("₹ 1,234.5 Cr.", ""); got != "1234.5." {
		t.Errorf("keepDigits() = %q, want %q", got, "1234.5.")
	}
	if got := keepDigits("-12 %", "%-"); got != "-12%" {
		t.Errorf("keepDigits() = %q, want %q", got, "-12%")
	}
}
