package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDayOf(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	// Late evening in New York is already the next day in UTC.
	evening := time.Date(2026, 3, 10, 22, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), DayOf(evening))
}

func TestApply(t *testing.T) {
	t.Run("counts and revenue are additive", func(t *testing.T) {
		r := NewFromDelta(NewDailyKey("artist-1", "community-1", time.Now()), DailyDelta{
			NewSubscriptions: 1,
			Revenue:          decimal.NewFromInt(10),
			Currency:         "usd",
		})
		r.Apply(DailyDelta{NewSubscriptions: 2, Revenue: decimal.NewFromInt(5)})

		assert.Equal(t, 3, r.NewSubscriptions)
		assert.True(t, r.Revenue.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, "usd", r.Currency)
	})

	t.Run("snapshot keeps the maximum", func(t *testing.T) {
		r := NewFromDelta(NewDailyKey("artist-1", "community-1", time.Now()), DailyDelta{})

		high, low := 8, 3
		r.Apply(DailyDelta{ActiveSnapshot: &high})
		r.Apply(DailyDelta{ActiveSnapshot: &low})
		assert.Equal(t, 8, r.TotalActiveSubscriptions)
	})
}
