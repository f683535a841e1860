package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"metrics-dashboard/internal/domain"
	"metrics-dashboard/internal/util"

	"github.com/gorilla/mux"
)

const (
	defaultQueryLimit = 10
	maxQueryLimit     = 100
)

type RecordRequest struct {
	MetricName string         `json:"metric_name"`
	Value      any            `json:"value"`
	Metadata   map[string]any `json:"metadata"`
}

type GetMetricsResponse struct {
	MetricName string                `json:"metric_name"`
	Count      int                   `json:"count"`
	Data       []domain.MetricRecord `json:"data"`
}

type Metrics struct {
	Response APIResponse
	logger   *util.MetricsLogger
	store    domain.MetricStore
	timeout  time.Duration
}

func (m *Metrics) Init(store domain.MetricStore, logger *util.MetricsLogger, timeout time.Duration) {
	m.store = store
	m.logger = logger
	m.timeout = timeout
	if m.timeout <= 0 {
		m.timeout = 10 * time.Second
	}
}

// RecordMetricHandler stores one metric sample. Client input is validated
// before any store call; a rejected write still answers with the attempted
// record so the caller can retry without rebuilding it.
func (m *Metrics) RecordMetricHandler(w http.ResponseWriter, r *http.Request) {

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Record request without JSON Content-Type")
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	var reqBody RecordRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&reqBody); err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while unmarshalling JSON Body. Err -", err)
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(reqBody.MetricName) == "" {
		m.Response.WriteErrorResponseWithStatusCode(w, ErrMissingMetricName, http.StatusBadRequest)
		return
	}
	if reqBody.Value == nil {
		m.Response.WriteErrorResponseWithStatusCode(w, ErrMissingMetricValue, http.StatusBadRequest)
		return
	}
	value, err := coerceValue(reqBody.Value)
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Non-numeric metric value for", reqBody.MetricName)
		m.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), m.timeout)
	defer cancel()

	result := m.store.StoreMetric(ctx, reqBody.MetricName, value, reqBody.Metadata)
	if !result.Success {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to record metric:", result.Error)
		m.Response.WriteFailureResponseWithValue(w, ErrMetricStoreFailure, result, http.StatusInternalServerError)
		return
	}

	m.logger.LogEvent(util.LOG_LEVEL_INFO, "Metric recorded:", reqBody.MetricName, "=", value)
	m.Response.WriteResultResponseWithStatusCode(w, result, http.StatusCreated)
}

// GetMetricsHandler returns recent samples for the named metric from the
// current UTC day partition. An empty list is a valid 200 response.
func (m *Metrics) GetMetricsHandler(w http.ResponseWriter, r *http.Request) {

	metricName := mux.Vars(r)["name"]

	limit := defaultQueryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Invalid limit parameter:", limitStr)
			m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), m.timeout)
	defer cancel()

	fetched := m.store.GetRecentMetrics(ctx, metricName, limit)

	m.Response.WriteResultResponse(w, GetMetricsResponse{
		MetricName: metricName,
		Count:      len(fetched),
		Data:       fetched,
	})
}

// coerceValue accepts a JSON number or a numeric string, mirroring the
// float() coercion the recording API has always done.
func coerceValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, ErrInvalidMetricValue
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, ErrInvalidMetricValue
		}
		return f, nil
	default:
		return 0, ErrInvalidMetricValue
	}
}
