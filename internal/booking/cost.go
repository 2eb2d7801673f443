package booking

import (
	"math"

	"stolik/internal/models"
)

// CalculateCost prices a validated booking: the duration is rounded UP to
// whole hours, so a 61-minute booking is billed as two hours, and the hour
// count multiplies the summed per-table hourly rates. Pure function; the
// validator guarantees a positive duration and a resolved table list before
// calling it.
func CalculateCost(rng models.TimeRange, tables []models.Table) float64 {
	hours := math.Ceil(rng.Duration().Seconds() / 3600)

	var ratePerHour float64
	for _, t := range tables {
		ratePerHour += t.PricePerHour
	}
	return hours * ratePerHour
}
