package endpoints

import (
	"context"
	"net/http"
	"time"

	"metrics-dashboard/internal/collector"
	"metrics-dashboard/internal/domain"
	"metrics-dashboard/internal/util"
)

type CurrentMetricsResponse struct {
	Timestamp  string             `json:"timestamp"`
	InstanceID string             `json:"instance_id"`
	System     collector.Snapshot `json:"system"`
}

type RecordSystemResponse struct {
	Recorded int                  `json:"recorded"`
	Total    int                  `json:"total"`
	Results  []domain.StoreResult `json:"results"`
}

// System serves host-level metrics: a live snapshot for monitoring
// integrations, and a capture-and-persist operation for scheduled
// collection.
type System struct {
	Response    APIResponse
	logger      *util.MetricsLogger
	store       domain.MetricStore
	collector   collector.Collector
	instanceID  string
	environment string
	timeout     time.Duration
}

func (s *System) Init(store domain.MetricStore, coll collector.Collector, logger *util.MetricsLogger, instanceID, environment string, timeout time.Duration) {
	s.store = store
	s.collector = coll
	s.logger = logger
	s.instanceID = instanceID
	s.environment = environment
	s.timeout = timeout
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
}

// CurrentMetricsHandler returns the current system snapshot as plain JSON.
// This payload is consumed by monitoring tools, so it is not wrapped in the
// APIResponse envelope.
func (s *System) CurrentMetricsHandler(w http.ResponseWriter, r *http.Request) {
	snapshot := s.collector.Collect(r.Context())

	writeJSON(w, CurrentMetricsResponse{
		Timestamp:  domain.FormatTimestamp(time.Now()),
		InstanceID: s.instanceID,
		System:     snapshot,
	}, http.StatusOK)
}

// RecordSystemHandler captures a snapshot and persists cpu, memory and disk
// usage as individual samples. Partial success still answers 201; the
// per-metric results say which writes failed.
func (s *System) RecordSystemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	snapshot := s.collector.Collect(ctx)

	metadata := map[string]any{
		"instance_id": s.instanceID,
		"environment": s.environment,
	}
	samples := []struct {
		name  string
		value float64
	}{
		{"cpu_percent", snapshot.CPU.Percent},
		{"memory_percent", snapshot.Memory.Percent},
		{"disk_percent", snapshot.Disk.Percent},
	}

	results := make([]domain.StoreResult, 0, len(samples))
	recorded := 0
	for _, sample := range samples {
		result := s.store.StoreMetric(ctx, sample.name, sample.value, metadata)
		if result.Success {
			recorded++
		} else {
			s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to record system metric", sample.name, "Err -", result.Error)
		}
		results = append(results, result)
	}

	response := RecordSystemResponse{Recorded: recorded, Total: len(samples), Results: results}
	if recorded == 0 {
		s.Response.WriteFailureResponseWithValue(w, ErrMetricStoreFailure, response, http.StatusInternalServerError)
		return
	}
	s.Response.WriteResultResponseWithStatusCode(w, response, http.StatusCreated)
}
