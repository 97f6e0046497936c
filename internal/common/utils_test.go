package common

import "testing"

func TestHasAny(t *testing.T) {
	tests := []struct {
		s    string
		subs []string
		want bool
	}{
		{"Patchy light rain", []string{"rain"}, true},
		{"Heavy RAIN", []string{"rain"}, true},
		{"Sunny", []string{"rain", "snow"}, false},
		{"Blowing snow", []string{"rain", "snow"}, true},
		{"", []string{"rain"}, false},
		{"Clear", nil, false},
	}
	for _, tc := range tests {
		if got := HasAny(tc.s, tc.subs...); got != tc.want {
			t.Fatalf("HasAny(%q, %v) = %v, want %v", tc.s, tc.subs, got, tc.want)
		}
	}
}
