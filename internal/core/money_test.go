package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatReais(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0.00"},
		{1, "R$ 0.01"},
		{10000, "R$ 100.00"},
		{123456, "R$ 1234.56"},
		{-2550, "-R$ 25.50"},
	}
	for _, tc := range cases {
		if got := FormatReais(tc.cents); got != tc.want {
			t.Fatalf("FormatReais(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneySigned(t *testing.T) {
	m := Money{Cents: 1050}
	if got := m.Signed(Income); got != "+ R$ 10.50" {
		t.Fatalf("income: got %q", got)
	}
	if got := m.Signed(Expense); got != "- R$ 10.50" {
		t.Fatalf("expense: got %q", got)
	}
	// missing type counts as expense
	if got := m.Signed(""); got != "- R$ 10.50" {
		t.Fatalf("legacy: got %q", got)
	}
}
