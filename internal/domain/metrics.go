package domain

import (
	"context"
	"fmt"
	"time"
)

// TimestampLayout is the persisted timestamp format: a UTC instant with
// microsecond precision and no zone suffix, e.g. "2024-03-01T10:15:30.123456".
const TimestampLayout = "2006-01-02T15:04:05.000000"

// MetricRecord is a single metric sample as persisted in the object store.
// It is immutable once built; its identity is its storage key, not a field.
type MetricRecord struct {
	MetricName string         `json:"metric_name"`
	Value      float64        `json:"value"`
	Timestamp  string         `json:"timestamp"`
	Metadata   map[string]any `json:"metadata"`
}

// NewMetricRecord builds a record for the given instant. A nil metadata map
// becomes an empty one so the persisted JSON always carries "metadata": {}.
func NewMetricRecord(name string, value float64, metadata map[string]any, ts time.Time) MetricRecord {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return MetricRecord{
		MetricName: name,
		Value:      value,
		Timestamp:  FormatTimestamp(ts),
		Metadata:   metadata,
	}
}

// FormatTimestamp renders ts in UTC using TimestampLayout.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(TimestampLayout)
}

// StorageKey derives the object key for a metric sample:
//
//	metrics/YYYY/MM/DD/<name>/HHMMSSffffff.json   (UTC)
//
// Fixed-width zero-padded fields make keys lexicographically sortable by
// creation time within a single day partition. Two samples for the same name
// within the same microsecond collide; the later write wins.
func StorageKey(name string, ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("%s%02d%02d%02d%06d.json",
		DayPrefix(name, ts), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond()/1000)
}

// DayPrefix returns the key prefix covering every sample of a metric within
// the UTC calendar day of ts.
func DayPrefix(name string, ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("metrics/%04d/%02d/%02d/%s/", ts.Year(), int(ts.Month()), ts.Day(), name)
}

// StoreResult is the outcome of a store attempt. The attempted record is
// echoed back on both paths so callers can retry or log without rebuilding it.
type StoreResult struct {
	Success  bool         `json:"success"`
	Location string       `json:"location,omitempty"`
	Error    string       `json:"error,omitempty"`
	Record   MetricRecord `json:"metric"`
}

// ReachabilityStatus reports whether the backing bucket is usable.
type ReachabilityStatus struct {
	Accessible bool   `json:"accessible"`
	Bucket     string `json:"bucket,omitempty"`
	Region     string `json:"region,omitempty"`
	Error      string `json:"error,omitempty"`
}

// MetricStore persists metric samples and reads them back.
//
// GetRecentMetrics queries the current UTC day partition only: samples
// recorded before UTC midnight are not returned even when limit is unmet.
// That keeps listings bounded to a single prefix and is part of the contract.
type MetricStore interface {
	// StoreMetric never returns an error; every failure path is folded into
	// the returned StoreResult.
	StoreMetric(ctx context.Context, name string, value float64, metadata map[string]any) StoreResult

	// GetRecentMetrics returns at most limit records for name from today's
	// UTC partition, most recent first. Unreadable objects are skipped; an
	// empty slice is a valid result, not an error.
	GetRecentMetrics(ctx context.Context, name string, limit int) []MetricRecord

	// CheckAccessibility probes the backing bucket.
	CheckAccessibility(ctx context.Context) ReachabilityStatus
}
