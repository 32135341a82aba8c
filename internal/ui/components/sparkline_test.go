package components_test

import (
	"testing"
	"unicode/utf8"

	"selflab/internal/ui/components"
)

func TestSparkline(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{name: "empty", values: nil, width: 10, want: ""},
		{name: "rising", values: []float64{1, 5}, width: 10, want: "▁█"},
		{name: "flat", values: []float64{3, 3, 3}, width: 10, want: "▄▄▄"},
		{name: "truncated to tail", values: []float64{9, 1, 2}, width: 2, want: "▁█"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := components.Sparkline(tc.values, tc.width)
			if got != tc.want {
				t.Fatalf("Sparkline(%v, %d) = %q, want %q", tc.values, tc.width, got, tc.want)
			}
			if n := utf8.RuneCountInString(got); n > tc.width {
				t.Fatalf("rendered %d glyphs, width %d", n, tc.width)
			}
		})
	}
}
