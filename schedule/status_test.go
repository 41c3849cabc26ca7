package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	today := time.Date(2024, 5, 10, 8, 0, 0, 0, loc)
	noon := func(d int) time.Time { return time.Date(2024, 5, d, 12, 0, 0, 0, loc) }

	assert.Equal(t, StatusPending, StatusOf(noon(20), nil, today))
	assert.Equal(t, StatusPending, StatusOf(noon(10), nil, today))
	assert.Equal(t, StatusOverdue, StatusOf(noon(9), nil, today))

	done := noon(10).UTC()
	assert.Equal(t, StatusCompletedToday, StatusOf(noon(9), &done, today))

	yesterday := noon(9)
	assert.Equal(t, StatusOverdue, StatusOf(noon(9), &yesterday, today))
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysUntil(time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 30, DaysUntil(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), today))
	assert.Equal(t, -1, DaysUntil(time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), today))
}
