package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"scoringd/internal/models"
	"scoringd/internal/providers"
	"scoringd/internal/services"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	requestTimeout     = 5 * time.Second
	subjectsCacheKey   = "subjects"
)

type ApiController struct {
	logger  providers.Logger
	service services.AnalyticsServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewApiController(logger providers.Logger, service services.AnalyticsServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

type engagementPayload struct {
	Subject    string    `json:"subject"`
	RecordedAt time.Time `json:"recorded_at"`
	models.EngagementMetrics
}

type contentPayload struct {
	Text    string                 `json:"text"`
	Metrics models.ContentCounters `json:"metrics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func performanceCacheKey(subject string) string {
	return "perf:" + subject
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (ac *ApiController) respond(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, gson)
}

// respondError maps domain errors to HTTP statuses.
func (ac *ApiController) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrCapacityExceeded):
		status = http.StatusInsufficientStorage
	}
	logType := providers.GetLogTypeByRequestType(r.Method)
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(logType, "%s %s failed: %s", r.Method, r.URL.Path, err)
		ac.respond(w, status, errorResponse{Error: "internal server error"})
		return
	}
	ac.logger.Debugf(logType, "%s %s rejected: %s", r.Method, r.URL.Path, err)
	ac.respond(w, status, errorResponse{Error: err.Error()})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.respondError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(models.ErrInvalidInput, err)
	}
	return nil
}

func getSubject(r *http.Request) (string, error) {
	subject := strings.TrimSpace(r.URL.Query().Get("subject"))
	if subject == "" {
		return "", errors.Join(models.ErrInvalidInput, errors.New("subject query parameter is required"))
	}
	return subject, nil
}

func (ac *ApiController) ReceiveEngagement(w http.ResponseWriter, r *http.Request) {
	var payload engagementPayload
	if err := decodeBody(w, r, &payload); err != nil {
		ac.respondError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := ac.service.AddMetrics(ctx, payload.Subject, payload.EngagementMetrics, payload.RecordedAt); err != nil {
		ac.respondError(w, r, err)
		return
	}
	ac.cache.Del(performanceCacheKey(payload.Subject))
	ac.cache.Del(subjectsCacheKey)
	ac.metrics.IncSnapshotsTotal()
	w.WriteHeader(http.StatusCreated)
}

func (ac *ApiController) GetPerformance(w http.ResponseWriter, r *http.Request) {
	subject, err := getSubject(r)
	if err != nil {
		ac.respondError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, performanceCacheKey(subject), func() (any, error) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		return ac.service.AnalyzePerformance(ctx, subject)
	})
}

// GetGrowth accepts an optional window duration ("720h"); without it the
// growth is computed over the whole history.
func (ac *ApiController) GetGrowth(w http.ResponseWriter, r *http.Request) {
	subject, err := getSubject(r)
	if err != nil {
		ac.respondError(w, r, err)
		return
	}
	var window time.Duration
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = time.ParseDuration(raw)
		if err != nil {
			ac.respondError(w, r, errors.Join(models.ErrInvalidInput, err))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	growth, err := ac.service.GrowthRate(ctx, subject, window)
	if err != nil {
		ac.respondError(w, r, err)
		return
	}
	ac.respond(w, http.StatusOK, growth)
}

func (ac *ApiController) GetSubjects(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, subjectsCacheKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		return ac.service.GetSubjects(ctx)
	})
}

func (ac *ApiController) ScoreContent(w http.ResponseWriter, r *http.Request) {
	var payload contentPayload
	if err := decodeBody(w, r, &payload); err != nil {
		ac.respondError(w, r, err)
		return
	}

	result := ac.service.ScoreContent(payload.Text, payload.Metrics)
	ac.metrics.IncContentScored(result.Sentiment.Classification)
	ac.respond(w, http.StatusOK, result)
}

func (ac *ApiController) ForecastTrends(w http.ResponseWriter, r *http.Request) {
	var raw map[string][]any
	if err := decodeBody(w, r, &raw); err != nil {
		ac.respondError(w, r, err)
		return
	}
	series, err := models.ParseSeries(raw)
	if err != nil {
		ac.respondError(w, r, err)
		return
	}

	forecast, err := ac.service.ForecastTrends(series)
	if err != nil {
		ac.respondError(w, r, err)
		return
	}
	for _, t := range forecast.Trends {
		ac.metrics.IncTrendsDetected(t.Metric, t.Direction)
	}
	ac.respond(w, http.StatusOK, forecast)
}
