package store

import "testing"

func TestPageNormalization(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cases := []struct {
		name       string
		page       Page
		wantOffset int
		wantLimit  int
	}{
		{"defaults", Page{}, 0, DefaultPageLimit},
		{"first page", Page{Number: 1, Limit: 10}, 0, 10},
		{"third page", Page{Number: 3, Limit: 10}, 20, 10},
		{"custom limit", Page{Number: 2, Limit: 25}, 25, 25},
		{"zero page clamps to one", Page{Number: 0, Limit: 5}, 0, 5},
		{"negative values clamp", Page{Number: -2, Limit: -1}, 0, DefaultPageLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.page.Offset(); got != tc.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tc.wantOffset)
			}
			if got := tc.page.EffectiveLimit(); got != tc.wantLimit {
				t.Errorf("EffectiveLimit() = %d, want %d", got, tc.wantLimit)
			}
		})
	}
}
