package utils

import "testing"

// TestTruncate verifies results never exceed the limit
func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is far too long for the limit", 10, "this is..."},
		{"abc", 0, "abc"},
		{"abcdef", 2, "ab"},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

// TestTruncate_MultiByte verifies rune-safe cutting
func TestTruncate_MultiByte(t *testing.T) {
	got := Truncate("éééééééééé", 8)
	if got != "ééééé..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}
