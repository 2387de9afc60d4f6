package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow_IsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Now().Location())
}

func TestNowPtr(t *testing.T) {
	ptr := NowPtr()
	assert.NotNil(t, ptr)
	assert.Equal(t, time.UTC, ptr.Location())
}

func TestDaysUntil_RoundsUp(t *testing.T) {
	// 12 hours out still counts as 1 day
	assert.Equal(t, 1, DaysUntil(time.Now().Add(12*time.Hour)))

	// A hair over 10 days rounds up to 11
	assert.Equal(t, 11, DaysUntil(time.Now().Add(10*24*time.Hour+time.Minute)))
}

func TestDaysUntil_Expired(t *testing.T) {
	assert.LessOrEqual(t, DaysUntil(time.Now().Add(-36*time.Hour)), -1)
}
