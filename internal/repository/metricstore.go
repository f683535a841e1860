package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"metrics-dashboard/internal/domain"
	"metrics-dashboard/internal/util"
)

// S3MetricStore implements domain.MetricStore on top of an ObjectStore.
// One JSON object per sample; the key hierarchy is the only index.
type S3MetricStore struct {
	store  ObjectStore
	logger *util.MetricsLogger
	now    func() time.Time
}

func NewS3MetricStore(store ObjectStore, logger *util.MetricsLogger) *S3MetricStore {
	return &S3MetricStore{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// StoreMetric persists one sample. All failure paths resolve to a
// StoreResult carrying the attempted record; nothing is thrown past here.
func (s *S3MetricStore) StoreMetric(ctx context.Context, name string, value float64, metadata map[string]any) domain.StoreResult {
	ts := s.now().UTC()
	record := domain.NewMetricRecord(name, value, metadata, ts)
	key := domain.StorageKey(name, ts)

	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to serialize metric", name, "Err -", err)
		return domain.StoreResult{Success: false, Error: err.Error(), Record: record}
	}

	if err := s.store.Put(ctx, key, payload, "application/json"); err != nil {
		s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to store metric", name, "Err -", err)
		return domain.StoreResult{Success: false, Error: err.Error(), Record: record}
	}

	location := fmt.Sprintf("s3://%s/%s", s.store.Bucket(), key)
	s.logger.LogEvent(util.LOG_LEVEL_INFO, "Metric stored at", location)
	return domain.StoreResult{Success: true, Location: location, Record: record}
}

// GetRecentMetrics lists today's UTC partition for name and returns at most
// limit records, most recent first. Objects that fail to fetch or parse are
// skipped and logged; a listing failure yields an empty slice, not an error.
func (s *S3MetricStore) GetRecentMetrics(ctx context.Context, name string, limit int) []domain.MetricRecord {
	records := []domain.MetricRecord{}
	if limit <= 0 {
		return records
	}

	prefix := domain.DayPrefix(name, s.now())
	keys, err := s.store.List(ctx, prefix, limit)
	if err != nil {
		s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to list metrics under", prefix, "Err -", err)
		return records
	}

	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if err != nil {
			s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to read metric object", key, "Err -", err)
			continue
		}
		var record domain.MetricRecord
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.LogEvent(util.LOG_LEVEL_ERROR, "Failed to parse metric object", key, "Err -", err)
			continue
		}
		records = append(records, record)
	}

	// Timestamps are fixed-width ISO strings, so lexicographic order is
	// chronological. Records without a timestamp sort last.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

// CheckAccessibility probes the bucket and maps provider error codes to
// readable classifications.
func (s *S3MetricStore) CheckAccessibility(ctx context.Context) domain.ReachabilityStatus {
	err := s.store.HeadBucket(ctx)
	if err == nil {
		return domain.ReachabilityStatus{
			Accessible: true,
			Bucket:     s.store.Bucket(),
			Region:     s.store.Region(),
		}
	}

	if errors.Is(err, ErrClientNotInitialized) {
		return domain.ReachabilityStatus{Accessible: false, Error: ErrClientNotInitialized.Error()}
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		var msg string
		switch remote.Code {
		case "404", "NotFound", "NoSuchBucket":
			msg = fmt.Sprintf("Bucket '%s' does not exist", s.store.Bucket())
		case "403", "AccessDenied", "Forbidden":
			msg = fmt.Sprintf("Access denied to bucket '%s'", s.store.Bucket())
		default:
			msg = remote.Error()
		}
		return domain.ReachabilityStatus{Accessible: false, Error: msg}
	}

	return domain.ReachabilityStatus{Accessible: false, Error: err.Error()}
}
