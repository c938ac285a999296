package util

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"0.01", 1, false},
		{"100", 10000, false},
		{" 7.5 ", 750, false},
		{"99999999.99", 9999999999, false},
		{"", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"-3.50", 0, true},
		{"0.001", 0, true}, // rounds to zero cents
		{"100000001", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %d, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCheckAmount_Rounding(t *testing.T) {
	// 19.99 is not exactly representable; rounding must not lose a cent
	got, err := CheckAmount(19.99)
	if err != nil {
		t.Fatalf("CheckAmount(19.99) error = %v", err)
	}
	if got != 1999 {
		t.Errorf("CheckAmount(19.99) = %d, want 1999", got)
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{100000, "1000.00"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
