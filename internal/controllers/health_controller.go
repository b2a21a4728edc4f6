package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"scoringd/internal/services"
	"scoringd/internal/structures"
)

type HealthController struct {
	service   services.AnalyticsServiceInterface
	backend   string
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Store         string  `json:"store"`
	Subjects      int     `json:"subjects"`
}

// Health reports "degraded" with 503 when the history store cannot be read.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Store:         hc.backend,
	}
	status := http.StatusOK
	subjects, err := hc.service.GetSubjects(ctx)
	if err != nil {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		resp.Subjects = len(subjects)
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.AnalyticsServiceInterface, conf *structures.Config) *HealthController {
	backend := conf.Store.Backend
	if backend == "" {
		backend = "memory"
	}
	return &HealthController{
		service:   service,
		backend:   backend,
		startTime: time.Now(),
	}
}
