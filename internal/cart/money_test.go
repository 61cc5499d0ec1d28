package cart

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"exact", 30.00, 30.00},
		{"tax on 33.33", 33.33 * 0.16, 5.33},  // 5.3328
		{"weight total", 45.50 * 1.236, 56.24}, // 56.238
		{"three at 9.99", 9.99 * 3, 29.97},
		{"zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Round2(tc.in); got != tc.want {
				t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
