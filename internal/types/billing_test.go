package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillingPeriodAdd(t *testing.T) {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		period   BillingPeriod
		expected time.Time
	}{
		{"daily", BillingPeriodDaily, time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC)},
		{"weekly", BillingPeriodWeekly, time.Date(2026, 1, 22, 10, 0, 0, 0, time.UTC)},
		{"monthly", BillingPeriodMonthly, time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)},
		{"yearly", BillingPeriodYearly, time.Date(2027, 1, 15, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.period.Add(base))
		})
	}

	t.Run("monthly renewal on the 31st normalizes", func(t *testing.T) {
		jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), BillingPeriodMonthly.Add(jan31))
	})
}

func TestBillingPeriodValidate(t *testing.T) {
	assert.True(t, BillingPeriodMonthly.Validate())
	assert.False(t, BillingPeriod("fortnightly").Validate())
}
