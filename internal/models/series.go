package models

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
)

const (
	MetricSales       = "sales"
	MetricVisits      = "visits"
	MetricConversion  = "conversion"
	MetricSearchTrend = "search_trend"
)

// DriverMetrics are the regression features, in column order.
var DriverMetrics = []string{MetricSales, MetricVisits, MetricConversion}

var seriesMetrics = []string{MetricSales, MetricVisits, MetricConversion, MetricSearchTrend}

// HistoricalSeries holds index-aligned metric series sharing one implicit time axis.
type HistoricalSeries struct {
	Sales       []float64 `json:"sales"`
	Visits      []float64 `json:"visits"`
	Conversion  []float64 `json:"conversion"`
	SearchTrend []float64 `json:"search_trend"`
}

func (h *HistoricalSeries) Get(metric string) []float64 {
	switch metric {
	case MetricSales:
		return h.Sales
	case MetricVisits:
		return h.Visits
	case MetricConversion:
		return h.Conversion
	case MetricSearchTrend:
		return h.SearchTrend
	}
	return nil
}

func (h *HistoricalSeries) Len() int {
	return len(h.SearchTrend)
}

// Validate checks that all four series are present, aligned, finite and have
// at least two points.
func (h *HistoricalSeries) Validate() error {
	n := -1
	for _, metric := range seriesMetrics {
		values := h.Get(metric)
		if values == nil {
			return fmt.Errorf("series %q is missing: %w", metric, ErrInvalidInput)
		}
		if n == -1 {
			n = len(values)
		} else if len(values) != n {
			return fmt.Errorf("series %q has %d points, expected %d: %w", metric, len(values), n, ErrInvalidInput)
		}
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("series %q has a non-finite value at %d: %w", metric, i, ErrInvalidInput)
			}
		}
	}
	if n == 0 {
		return fmt.Errorf("series are empty: %w", ErrInvalidInput)
	}
	if n < 2 {
		return fmt.Errorf("series need at least 2 points, got %d: %w", n, ErrInsufficientData)
	}
	return nil
}

// ParseSeries builds a HistoricalSeries from loosely typed decoded JSON.
// Numbers and numeric strings are accepted; anything else is rejected.
func ParseSeries(raw map[string][]any) (*HistoricalSeries, error) {
	series := &HistoricalSeries{}
	for _, metric := range seriesMetrics {
		values, ok := raw[metric]
		if !ok || values == nil {
			return nil, fmt.Errorf("series %q is missing: %w", metric, ErrInvalidInput)
		}
		parsed := make([]float64, len(values))
		for i, v := range values {
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("series %q value %d: %v: %w", metric, i, err, ErrInvalidInput)
			}
			parsed[i] = f
		}
		switch metric {
		case MetricSales:
			series.Sales = parsed
		case MetricVisits:
			series.Visits = parsed
		case MetricConversion:
			series.Conversion = parsed
		case MetricSearchTrend:
			series.SearchTrend = parsed
		}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func toFloat(v any) (float64, error) {
	switch v.(type) {
	case nil:
		return 0, fmt.Errorf("null value")
	case bool:
		return 0, fmt.Errorf("boolean value %v", v)
	}
	return cast.ToFloat64E(v)
}
