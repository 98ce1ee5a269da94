package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func TestSchedules(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		from     time.Time
		want     time.Time
	}{
		{"every interval", Every(5 * time.Minute), at(1, 12, 0), at(1, 12, 5)},
		{"daily later today", Daily(9, 30), at(1, 8, 0), at(1, 9, 30)},
		{"daily already passed", Daily(9, 30), at(1, 10, 0), at(2, 9, 30)},
		{"daily exactly now", Daily(9, 30), at(1, 9, 30), at(2, 9, 30)},
		// 2024-01-01 is a Monday.
		{"weekly same day", Weekly(time.Monday, 10, 0), at(1, 0, 0), at(1, 10, 0)},
		{"weekly next week", Weekly(time.Monday, 10, 0), at(1, 11, 0), at(8, 10, 0)},
		{"weekly later this week", Weekly(time.Friday, 8, 0), at(1, 0, 0), at(5, 8, 0)},
		{"cron hourly", Cron("0 * * * *"), at(1, 12, 30), at(1, 13, 0)},
		{"cron daily", Cron("30 9 * * *"), at(1, 10, 0), at(2, 9, 30)},
		{"cron descriptor", Cron("@daily"), at(1, 10, 0), at(2, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.Next(tt.from))
		})
	}
}

func TestEvery_Chained(t *testing.T) {
	s := Every(time.Hour)
	next := at(1, 12, 0)
	for _, want := range []time.Time{at(1, 13, 0), at(1, 14, 0), at(1, 15, 0)} {
		next = s.Next(next)
		assert.Equal(t, want, next)
	}
}

func TestDaily_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	from := time.Date(2024, 1, 1, 10, 0, 0, 0, loc) // 08:00 UTC

	next := Daily(9, 0).Next(from)
	assert.Equal(t, at(1, 9, 0), next)
}

func TestParseCron_Invalid(t *testing.T) {
	s, err := ParseCron("not a cron")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "invalid cron expression")
}

func TestCron_InvalidPanics(t *testing.T) {
	assert.Panics(t, func() { Cron("61 * * * *") })
}

func TestDailyIn_LocalWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	from := time.Date(2024, 1, 1, 10, 0, 0, 0, loc)

	next := DailyIn(9, 0, loc).Next(from)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, loc), next)
	assert.True(t, next.Equal(at(2, 7, 0)))
}

func TestWeeklyIn_LocalWallClock(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// Sunday 22:00 local is Monday 03:00 UTC.
	from := time.Date(2023, 12, 31, 22, 0, 0, 0, loc)

	next := WeeklyIn(time.Monday, 1, 0, loc).Next(from)
	assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, loc), next)

	// The UTC schedule already passed Monday 01:00 UTC.
	assert.Equal(t, at(8, 1, 0), Weekly(time.Monday, 1, 0).Next(from))
}

func TestNilLocationMeansUTC(t *testing.T) {
	assert.Equal(t, Daily(9, 30).Next(at(1, 8, 0)), DailyIn(9, 30, nil).Next(at(1, 8, 0)))
	assert.Equal(t, Weekly(time.Friday, 8, 0).Next(at(1, 0, 0)), WeeklyIn(time.Friday, 8, 0, nil).Next(at(1, 0, 0)))
}
