package analytics

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"scoringd/internal/models"
	"scoringd/internal/structures"
)

const (
	defaultHorizon        = 4
	defaultTrendThreshold = 10.0
	defaultRidgeAlpha     = 1e-3
	forecastStepDays      = 7
	dateLayout            = "2006-01-02"
)

// TrendForecaster fits a regression of the search trend on the driver metrics
// and projects it a few weeks ahead.
type TrendForecaster struct {
	horizon   int
	threshold float64
	alpha     float64
	now       func() time.Time
}

func NewTrendForecaster(conf *structures.Config) *TrendForecaster {
	tf := &TrendForecaster{
		horizon:   conf.Forecast.Horizon,
		threshold: conf.Forecast.TrendThreshold,
		alpha:     conf.Forecast.RidgeAlpha,
		now:       time.Now,
	}
	if tf.horizon <= 0 {
		tf.horizon = defaultHorizon
	}
	if tf.threshold <= 0 {
		tf.threshold = defaultTrendThreshold
	}
	if tf.alpha <= 0 {
		tf.alpha = defaultRidgeAlpha
	}
	return tf
}

// linearTrend is value = intercept + slope*t over the period index t.
type linearTrend struct {
	intercept float64
	slope     float64
}

func (lt linearTrend) at(t float64) float64 {
	return lt.intercept + lt.slope*t
}

// TrendModel is a fitted forecaster. It can be reused for several predictions.
type TrendModel struct {
	n         int
	z         *mat.Dense
	weights   *mat.VecDense
	intercept float64
	drivers   []linearTrend
	last      []float64
}

// Fit standardizes the driver metrics and solves a ridge least squares problem
// for the search trend. Each driver also gets a linear time trend used to
// project it past the observed window.
func (tf *TrendForecaster) Fit(series *models.HistoricalSeries) (*TrendModel, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	n := series.Len()
	k := len(models.DriverMetrics)
	model := &TrendModel{
		n:       n,
		z:       mat.NewDense(n, k, nil),
		drivers: make([]linearTrend, k),
		last:    make([]float64, k),
	}

	periods := make([]float64, n)
	for i := range periods {
		periods[i] = float64(i)
	}

	for j, metric := range models.DriverMetrics {
		values := series.Get(metric)
		mean, scale := standardScale(values)
		for i, v := range values {
			model.z.Set(i, j, (v-mean)/scale)
		}
		alpha, beta := stat.LinearRegression(periods, values, nil, false)
		model.drivers[j] = linearTrend{intercept: alpha, slope: beta}
		model.last[j] = values[n-1]
	}

	model.intercept = stat.Mean(series.SearchTrend, nil)
	centered := make([]float64, n)
	for i, v := range series.SearchTrend {
		centered[i] = v - model.intercept
	}

	var gram mat.Dense
	gram.Mul(model.z.T(), model.z)
	for j := 0; j < k; j++ {
		gram.Set(j, j, gram.At(j, j)+tf.alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(model.z.T(), mat.NewVecDense(n, centered))

	model.weights = mat.NewVecDense(k, nil)
	if err := model.weights.SolveVec(&gram, &rhs); err != nil {
		return nil, fmt.Errorf("solve regression: %w", err)
	}
	return model, nil
}

// standardScale returns the mean and population standard deviation of values.
// A constant series is scaled by 1.
func standardScale(values []float64) (float64, float64) {
	mean := stat.Mean(values, nil)
	n := float64(len(values))
	variance := stat.Variance(values, nil) * (n - 1) / n
	if variance <= 0 || math.IsNaN(variance) {
		return mean, 1
	}
	return mean, math.Sqrt(variance)
}

// ProjectDrivers extrapolates every driver metric horizon periods past the
// last observation.
func (m *TrendModel) ProjectDrivers(horizon int) map[string][]float64 {
	out := make(map[string][]float64, len(models.DriverMetrics))
	for j, metric := range models.DriverMetrics {
		values := make([]float64, horizon)
		for h := 1; h <= horizon; h++ {
			values[h-1] = m.drivers[j].at(float64(m.n - 1 + h))
		}
		out[metric] = values
	}
	return out
}

// Predict applies the regression to the last horizon standardized rows, one
// value per upcoming period. Shorter histories yield one value per row.
func (m *TrendModel) Predict(horizon int) []float64 {
	rows := min(horizon, m.n)
	if rows <= 0 {
		return []float64{}
	}
	_, k := m.z.Dims()
	tail := m.z.Slice(m.n-rows, m.n, 0, k)

	var y mat.VecDense
	y.MulVec(tail, m.weights)
	out := make([]float64, rows)
	for i := range out {
		out[i] = m.intercept + y.AtVec(i)
	}
	return out
}

// Forecast fits a model on series and returns dated predictions, significant
// driver trends and recommendations.
func (tf *TrendForecaster) Forecast(series *models.HistoricalSeries) (*models.TrendForecast, error) {
	model, err := tf.Fit(series)
	if err != nil {
		return nil, err
	}

	values := model.Predict(tf.horizon)
	drivers := model.ProjectDrivers(tf.horizon)

	start := tf.now()
	dates := make([]string, len(values))
	for h := range dates {
		dates[h] = start.AddDate(0, 0, forecastStepDays*(h+1)).Format(dateLayout)
	}

	trends := tf.detectTrends(model, values[len(values)-1])

	rounded := make(map[string][]float64, len(drivers))
	for metric, projected := range drivers {
		rounded[metric] = roundAll(projected)
	}
	return &models.TrendForecast{
		Predictions: models.Predictions{
			Dates:  dates,
			Values: roundAll(values),
		},
		Drivers:         rounded,
		Trends:          trends,
		Recommendations: trendRecommendations(trends),
	}, nil
}

// detectTrends compares the last observed value of every driver with the last
// predicted search trend value.
func (tf *TrendForecaster) detectTrends(model *TrendModel, predicted float64) []models.TrendRecord {
	trends := []models.TrendRecord{}
	for j, metric := range models.DriverMetrics {
		current := model.last[j]
		// no baseline to compare against
		if current == 0 {
			continue
		}
		change := (predicted - current) / current * 100
		if math.Abs(change) <= tf.threshold {
			continue
		}
		direction := models.DirectionUp
		if change < 0 {
			direction = models.DirectionDown
		}
		trends = append(trends, models.TrendRecord{
			Metric:    metric,
			Change:    round2(change),
			Direction: direction,
		})
	}
	return trends
}

var trendTemplates = map[string]map[string]string{
	models.MetricSales: {
		models.DirectionUp:   "Sales are expected to rise by %.1f%%. Consider increasing inventory and preparing promotional campaigns.",
		models.DirectionDown: "Sales are expected to drop by %.1f%%. Consider special promotions and reviewing the pricing strategy.",
	},
	models.MetricVisits: {
		models.DirectionUp:   "Traffic is expected to grow by %.1f%%. Optimize site speed and prepare new content.",
		models.DirectionDown: "Traffic is expected to fall by %.1f%%. Consider investing in digital marketing and improving SEO.",
	},
	models.MetricConversion: {
		models.DirectionUp:   "Conversion rate could rise by %.1f%%. Prepare inventory and optimize the checkout process.",
		models.DirectionDown: "Conversion rate could fall by %.1f%%. Review site usability and common purchase objections.",
	},
}

func trendRecommendations(trends []models.TrendRecord) []string {
	recommendations := []string{}
	for _, t := range trends {
		template, ok := trendTemplates[t.Metric][t.Direction]
		if !ok {
			continue
		}
		recommendations = append(recommendations, fmt.Sprintf(template, math.Abs(t.Change)))
	}
	return recommendations
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = round2(v)
	}
	return out
}
