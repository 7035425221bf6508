package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"pulsecli/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	cfg       *config.Config
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, cfg *config.Config, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		cfg:       cfg,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall service health
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]interface{}{
			"dataset": s.datasetHealth(),
		},
	}
}

// ReadinessCheck reports whether the dataset directory is reachable
func (s *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := "ready"
	if _, err := os.Stat(s.cfg.Dataset.Dir); err != nil {
		status = "not_ready"
		s.logger.WarnContext(ctx, "dataset directory not reachable",
			slog.String("dir", s.cfg.Dataset.Dir),
			slog.String("error", err.Error()))
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   s.version,
	}
}

// datasetHealth summarizes dataset file availability
func (s *HealthService) datasetHealth() map[string]interface{} {
	files := map[string]string{
		"transactions": s.cfg.DatasetPath(s.cfg.Dataset.TransactionsFile),
		"devices":      s.cfg.DatasetPath(s.cfg.Dataset.DevicesFile),
		"insurance":    s.cfg.DatasetPath(s.cfg.Dataset.InsuranceFile),
		"engagement":   s.cfg.DatasetPath(s.cfg.Dataset.EngagementFile),
	}

	health := make(map[string]interface{}, len(files))
	for name, path := range files {
		if _, err := os.Stat(path); err != nil {
			health[name] = "missing"
		} else {
			health[name] = "ok"
		}
	}
	return health
}
