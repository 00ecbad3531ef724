package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.50", true},
		{"0.1", "0.10", true},
		{"-3.5", "-3.50", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := ParseMoney("0.1")
	b, _ := ParseMoney("0.2")
	if got := a.Add(b).String(); got != "0.30" {
		t.Fatalf("0.1+0.2 = %s, want 0.30", got)
	}

	sum := Zero
	cent, _ := ParseMoney("0.01")
	for i := 0; i < 100; i++ {
		sum = sum.Add(cent)
	}
	if got := sum.String(); got != "1.00" {
		t.Fatalf("100 * 0.01 = %s, want 1.00", got)
	}

	if got := NewMoney(10).Sub(NewMoney(3)).String(); got != "7.00" {
		t.Fatalf("10-3 = %s", got)
	}
	if got := NewMoney(200).Div(3).String(); got != "66.67" {
		t.Fatalf("200/3 = %s, want 66.67", got)
	}
	if got := NewMoney(5).Div(0); !got.IsZero() {
		t.Fatalf("div by zero should be zero, got %s", got)
	}
}

func TestMoneyRatio(t *testing.T) {
	if r := NewMoney(200).Ratio(NewMoney(100)); r != 2.0 {
		t.Fatalf("200/100 = %v, want 2", r)
	}
	if r := NewMoney(200).Ratio(Zero); r != 0 {
		t.Fatalf("ratio with zero denominator = %v, want 0", r)
	}
}

func TestMoneyMax(t *testing.T) {
	if got := NewMoney(3).Max(NewMoney(7)); got.String() != "7.00" {
		t.Fatalf("max = %s", got)
	}
	if got := NewMoney(9).Max(NewMoney(7)); got.String() != "9.00" {
		t.Fatalf("max = %s", got)
	}
}
