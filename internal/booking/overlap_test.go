package booking

import (
	"math/rand"
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"disjoint before", date(2024, 6, 1), date(2024, 6, 3), date(2024, 6, 5), date(2024, 6, 8), false},
		{"disjoint after", date(2024, 6, 10), date(2024, 6, 12), date(2024, 6, 5), date(2024, 6, 8), false},
		{"boundary touch counts", date(2024, 6, 4), date(2024, 6, 6), date(2024, 6, 1), date(2024, 6, 4), true},
		{"contained", date(2024, 6, 2), date(2024, 6, 3), date(2024, 6, 1), date(2024, 6, 8), true},
		{"containing", date(2024, 6, 1), date(2024, 6, 8), date(2024, 6, 2), date(2024, 6, 3), true},
		{"partial overlap", date(2024, 6, 4), date(2024, 6, 6), date(2024, 6, 1), date(2024, 6, 5), true},
		{"identical", date(2024, 6, 1), date(2024, 6, 5), date(2024, 6, 1), date(2024, 6, 5), true},
		{"adjacent day apart", date(2024, 6, 5), date(2024, 6, 8), date(2024, 6, 1), date(2024, 6, 4), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
			// symmetry
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("expected symmetric result %v", tc.want)
			}
		})
	}
}

// Random ranges checked against a day-by-day reference: two inclusive
// ranges intersect iff they share at least one calendar day.
func TestOverlapsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := date(2024, 1, 1)
	for i := 0; i < 2000; i++ {
		aStart := base.AddDate(0, 0, rng.Intn(60))
		aEnd := aStart.AddDate(0, 0, rng.Intn(14))
		bStart := base.AddDate(0, 0, rng.Intn(60))
		bEnd := bStart.AddDate(0, 0, rng.Intn(14))

		want := false
		for d := aStart; !d.After(aEnd); d = d.AddDate(0, 0, 1) {
			if !d.Before(bStart) && !d.After(bEnd) {
				want = true
				break
			}
		}
		if got := Overlaps(aStart, aEnd, bStart, bEnd); got != want {
			t.Fatalf("ranges [%s..%s] vs [%s..%s]: expected %v got %v",
				aStart.Format("2006-01-02"), aEnd.Format("2006-01-02"),
				bStart.Format("2006-01-02"), bEnd.Format("2006-01-02"), want, got)
		}
	}
}
