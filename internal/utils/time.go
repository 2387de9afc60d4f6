package utils

import (
	"math"
	"time"
)

func Now() time.Time {
	return time.Now().UTC()
}

func NowPtr() *time.Time {
	now := Now()
	return &now
}

// DaysUntil returns the number of whole days from now until t, rounded up.
// A certificate expiring in 12 hours counts as 1 day away.
func DaysUntil(t time.Time) int {
	return int(math.Ceil(time.Until(t).Hours() / 24))
}
