package services_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddBusinessDays(t *testing.T) {
	friday := time.Date(2026, 5, 8, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, date(2026, 5, 11), services.AddBusinessDays(friday, 1))
	assert.Equal(t, date(2026, 5, 15), services.AddBusinessDays(friday, 5))
	assert.Equal(t, date(2026, 5, 8), services.AddBusinessDays(friday, 0))
}

func TestDeliveryEstimator_Estimate(t *testing.T) {
	friday := time.Date(2026, 5, 8, 15, 30, 0, 0, time.UTC)
	estimator := services.NewDeliveryEstimator(5)

	tests := []struct {
		name     string
		windows  []string
		expected time.Time
	}{
		{"no options falls back to default", nil, date(2026, 5, 15)},
		{"unparseable windows fall back to default", []string{"soon", ""}, date(2026, 5, 15)},
		{"calendar date", []string{"2026-05-20"}, date(2026, 5, 20)},
		{"timestamp", []string{"2026-05-19T17:00:00Z"}, date(2026, 5, 19)},
		{"business days", []string{"3 business days"}, date(2026, 5, 13)},
		{"business day range uses upper bound", []string{"2-4 Business Days"}, date(2026, 5, 14)},
		{"earliest option wins", []string{"2026-05-20", "3 business days", "garbage"}, date(2026, 5, 13)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, estimator.Estimate(friday, tt.windows))
		})
	}
}

func TestNewDeliveryEstimator_NonPositiveDefault(t *testing.T) {
	friday := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, date(2026, 5, 15), services.NewDeliveryEstimator(0).Estimate(friday, nil))
}
