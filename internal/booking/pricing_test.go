package booking

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeQuote(t *testing.T) {
	cases := []struct {
		name        string
		start, end  time.Time
		pricePerDay float64
		wantDays    int
		wantSub     float64
		wantFee     float64
		wantTotal   float64
	}{
		{"three days at 100", date(2024, 6, 1), date(2024, 6, 4), 100, 3, 300, 45, 345},
		{"one day", date(2024, 6, 1), date(2024, 6, 2), 80, 1, 80, 12, 92},
		{"fractional fee", date(2024, 6, 1), date(2024, 6, 4), 85, 3, 255, 38.25, 293.25},
		{"week at 120", date(2024, 1, 1), date(2024, 1, 8), 120, 7, 840, 126, 966},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeQuote(tc.start, tc.end, tc.pricePerDay)
			if got.TotalDays != tc.wantDays {
				t.Fatalf("days: expected %d got %d", tc.wantDays, got.TotalDays)
			}
			if got.Subtotal != tc.wantSub {
				t.Fatalf("subtotal: expected %v got %v", tc.wantSub, got.Subtotal)
			}
			if got.ServiceFee != tc.wantFee {
				t.Fatalf("service fee: expected %v got %v", tc.wantFee, got.ServiceFee)
			}
			if got.TotalAmount != tc.wantTotal {
				t.Fatalf("total: expected %v got %v", tc.wantTotal, got.TotalAmount)
			}
		})
	}
}

func TestTotalDays(t *testing.T) {
	if got := TotalDays(date(2024, 6, 1), date(2024, 6, 4)); got != 3 {
		t.Fatalf("expected 3 got %d", got)
	}
	if got := TotalDays(date(2024, 2, 27), date(2024, 3, 2)); got != 4 {
		t.Fatalf("leap february: expected 4 got %d", got)
	}
}
