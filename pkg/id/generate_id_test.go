package id

import (
	"strings"
	"testing"
)

func TestNewID32_IsValidPublicID(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := NewID32()
		if !Valid(got) {
			t.Fatalf("NewID32 produced %q, which Valid rejects", got)
		}
	}
}

func TestNewID32_DistinctAcrossLoansAndApplicants(t *testing.T) {
	const n = 500
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		got := NewID32()
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id after %d ids: %q", i, got)
		}
		seen[got] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{strings.Repeat("a", Len), true},
		{"0123456789abcdef0123456789abcdef", true},
		{strings.Repeat("A", Len), false},
		{strings.Repeat("a", Len-1), false},
		{strings.Repeat("a", Len+1), false},
		{"0123456789abcdef0123456789abcdeg", false},
		{"01234567-89ab-cdef-0123-456789abcd", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.in); got != tc.want {
			t.Fatalf("Valid(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
