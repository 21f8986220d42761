package types

import (
	"fmt"
	"time"
)

// FiscalPeriodFromTime returns the Indian fiscal year label for t,
// for example "2025-26". The fiscal year rolls over on the 1st of April.
func FiscalPeriodFromTime(t time.Time) string {
	t = t.UTC()
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}
