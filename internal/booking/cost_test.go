package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stolik/internal/models"
)

func TestCalculateCost(t *testing.T) {
	const day = "2025-03-10"

	tests := []struct {
		name  string
		start string
		end   string
		rates []float64
		want  float64
	}{
		{
			name:  "exact hours",
			start: "10:00", end: "12:00",
			rates: []float64{100},
			want:  200,
		},
		{
			name:  "61 minutes bills as two hours",
			start: "10:00", end: "11:01",
			rates: []float64{100},
			want:  200,
		},
		{
			name:  "one minute bills as one hour",
			start: "10:00", end: "10:01",
			rates: []float64{100},
			want:  100,
		},
		{
			name:  "rates sum across tables",
			start: "10:00", end: "13:00",
			rates: []float64{100, 150.5},
			want:  751.5,
		},
		{
			name:  "no tables",
			start: "10:00", end: "12:00",
			rates: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := make([]models.Table, 0, len(tt.rates))
			for i, rate := range tt.rates {
				tables = append(tables, models.Table{ID: int64(i + 1), PricePerHour: rate})
			}
			rng := models.TimeRange{Start: dayAt(day, tt.start), End: dayAt(day, tt.end)}
			assert.Equal(t, tt.want, CalculateCost(rng, tables))
		})
	}
}
