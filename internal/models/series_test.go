package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() map[string][]any {
	return map[string][]any{
		"sales":        {100.0, 110.0, 120.0},
		"visits":       {1000.0, "1100", 1200},
		"conversion":   {0.1, 0.1, 0.1},
		"search_trend": {50.0, 55.0, 60.0},
	}
}

func TestParseSeries_AcceptsNumbersAndNumericStrings(t *testing.T) {
	series, err := ParseSeries(validRaw())
	require.NoError(t, err)

	assert.Equal(t, 3, series.Len())
	assert.Equal(t, []float64{1000, 1100, 1200}, series.Visits)
	assert.Equal(t, series.Sales, series.Get(MetricSales))
	assert.Nil(t, series.Get("unknown"))
}

func TestParseSeries_MissingSeries(t *testing.T) {
	raw := validRaw()
	delete(raw, "conversion")

	_, err := ParseSeries(raw)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseSeries_NonNumeric(t *testing.T) {
	for _, bad := range []any{"abc", nil, true, map[string]any{}} {
		raw := validRaw()
		raw["sales"] = []any{100.0, bad, 120.0}

		_, err := ParseSeries(raw)
		assert.ErrorIs(t, err, ErrInvalidInput, "value %v", bad)
	}
}

func TestParseSeries_LengthMismatch(t *testing.T) {
	raw := validRaw()
	raw["visits"] = []any{1.0, 2.0}

	_, err := ParseSeries(raw)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseSeries_TooShort(t *testing.T) {
	raw := map[string][]any{
		"sales":        {1.0},
		"visits":       {1.0},
		"conversion":   {1.0},
		"search_trend": {1.0},
	}

	_, err := ParseSeries(raw)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestHistoricalSeries_ValidateRejectsEmpty(t *testing.T) {
	s := &HistoricalSeries{
		Sales:       []float64{},
		Visits:      []float64{},
		Conversion:  []float64{},
		SearchTrend: []float64{},
	}

	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInsufficientData)

	_, err = ParseSeries(map[string][]any{
		"sales":        {},
		"visits":       {},
		"conversion":   {},
		"search_trend": {},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestHistoricalSeries_ValidateRejectsNonFinite(t *testing.T) {
	s := &HistoricalSeries{
		Sales:       []float64{1, math.NaN()},
		Visits:      []float64{1, 2},
		Conversion:  []float64{1, 2},
		SearchTrend: []float64{1, 2},
	}
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)

	s.Sales = []float64{1, math.Inf(1)}
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
}
