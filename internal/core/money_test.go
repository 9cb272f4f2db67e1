package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"1.250,50", "1250.5", true},
		{"R$ 1.250,50", "1250.5", true},
		{"R$10,00", "10", true},
		{"$2.50", "2.5", true},
		{"-5.25", "-5.25", true},
		{"R$ -10,00", "-10", true},
		{"+3", "3", true},
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{"abc", "", false},
		{"", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseMoney(%q) unexpected error: %v", tc.in, err)
			}
			if got.String() != tc.out {
				t.Fatalf("ParseMoney(%q) = %s, want %s", tc.in, got, tc.out)
			}
		} else if err == nil {
			t.Fatalf("ParseMoney(%q) expected error, got %s", tc.in, got)
		}
	}
}
