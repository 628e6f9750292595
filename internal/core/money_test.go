package core

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
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
		{"1.005", 101, true}, // half away from zero
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"1200", 120000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false}, // rounds to zero
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"1000000000000000", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestParseBalanceAcceptsZero(t *testing.T) {
	m, err := ParseBalance("0")
	if err != nil || !m.IsZero() {
		t.Fatalf("expected zero balance, got %v (err=%v)", m, err)
	}
	if _, err := ParseBalance("-3"); err == nil {
		t.Fatalf("expected error for negative balance")
	}
}

func TestMoneyString(t *testing.T) {
	cases := map[int64]string{
		0:      "0.00",
		5:      "0.05",
		120000: "1200.00",
		-5000:  "-50.00",
	}
	for cents, want := range cases {
		if got := Cents(cents).String(); got != want {
			t.Fatalf("%d cents: expected %s, got %s", cents, want, got)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	m := Cents(15000).Sub(Cents(5000)).Add(Cents(1))
	if m.Cents != 10001 {
		t.Fatalf("expected 10001, got %d", m.Cents)
	}
}
