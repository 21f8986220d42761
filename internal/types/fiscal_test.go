package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalPeriodFromTime(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "mid fiscal year",
			date: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			want: "2025-26",
		},
		{
			name: "april starts new fiscal year",
			date: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			want: "2025-26",
		},
		{
			name: "march belongs to previous fiscal year",
			date: time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
			want: "2024-25",
		},
		{
			name: "january belongs to previous fiscal year",
			date: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			want: "2025-26",
		},
		{
			name: "century boundary keeps two digit suffix",
			date: time.Date(2099, time.June, 1, 0, 0, 0, 0, time.UTC),
			want: "2099-00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FiscalPeriodFromTime(tt.date))
		})
	}
}
