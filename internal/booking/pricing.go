package booking

import (
	"math"
	"time"
)

// ServiceFeeRate is the platform's cut of the rental subtotal.
const ServiceFeeRate = 0.15

// Quote holds the computed price fields of a booking.
type Quote struct {
	TotalDays   int
	Subtotal    float64
	ServiceFee  float64
	TotalAmount float64
}

// TotalDays counts whole days between two calendar dates.
func TotalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// ComputeQuote calculates the price of renting for the given range.
func ComputeQuote(start, end time.Time, pricePerDay float64) Quote {
	days := TotalDays(start, end)
	subtotal := float64(days) * pricePerDay
	fee := round2(subtotal * ServiceFeeRate)
	return Quote{
		TotalDays:   days,
		Subtotal:    subtotal,
		ServiceFee:  fee,
		TotalAmount: subtotal + fee,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
