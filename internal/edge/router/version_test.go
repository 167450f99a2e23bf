package router

import "testing"

func TestIsVersionSegment(t *testing.T) {
	cases := []struct {
		segment string
		want    bool
	}{
		{"v1", true},
		{"v42", true},
		{"V7", true},
		{"v", false},
		{"1", false},
		{"v1a", false},
		{"av1", false},
		{"version1", false},
		{"", false},
		{"v-1", false},
	}

	for _, tc := range cases {
		if got := IsVersionSegment(tc.segment); got != tc.want {
			t.Errorf("IsVersionSegment(%q) = %v, want %v", tc.segment, got, tc.want)
		}
	}
}
