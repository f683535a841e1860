package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"metrics-dashboard/internal/domain"
	"metrics-dashboard/internal/util"
)

// fakeObjectStore is an in-memory ObjectStore with per-operation error
// injection.
type fakeObjectStore struct {
	objects map[string][]byte

	putErr  error
	listErr error
	headErr error
	getErrs map[string]error // per-key get failures

	putContentTypes []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: make(map[string][]byte),
		getErrs: make(map[string]error),
	}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	f.putContentTypes = append(f.putContentTypes, contentType)
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err, ok := f.getErrs[key]; ok {
		return nil, err
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, &RemoteError{Code: "NoSuchKey", Message: "key not found"}
	}
	return data, nil
}

func (f *fakeObjectStore) List(ctx context.Context, prefix string, maxKeys int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) > maxKeys {
		keys = keys[:maxKeys]
	}
	return keys, nil
}

func (f *fakeObjectStore) HeadBucket(ctx context.Context) error { return f.headErr }
func (f *fakeObjectStore) Bucket() string                       { return "devops-metrics-bucket" }
func (f *fakeObjectStore) Region() string                       { return "us-east-1" }

func newTestStore(fake *fakeObjectStore, now time.Time) *S3MetricStore {
	store := NewS3MetricStore(fake, &util.MetricsLogger{})
	store.now = func() time.Time { return now }
	return store
}

func TestStoreMetricSuccess(t *testing.T) {
	fake := newFakeObjectStore()
	now := time.Date(2024, 3, 1, 10, 15, 30, 123456000, time.UTC)
	store := newTestStore(fake, now)

	result := store.StoreMetric(context.Background(), "cpu_percent", 42.5, map[string]any{"host": "i-1"})

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, "s3://devops-metrics-bucket/metrics/2024/03/01/cpu_percent/101530123456.json", result.Location)
	assert.Equal(t, "cpu_percent", result.Record.MetricName)
	assert.Equal(t, 42.5, result.Record.Value)
	assert.Equal(t, "2024-03-01T10:15:30.123456", result.Record.Timestamp)

	assert.Contains(t, fake.objects, "metrics/2024/03/01/cpu_percent/101530123456.json")
	assert.Equal(t, []string{"application/json"}, fake.putContentTypes)
}

func TestStoreMetricFailureEchoesRecord(t *testing.T) {
	fake := newFakeObjectStore()
	fake.putErr = &RemoteError{Code: "AccessDenied", Message: "not allowed"}
	store := newTestStore(fake, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	result := store.StoreMetric(context.Background(), "cpu_percent", 42.5, nil)

	assert.False(t, result.Success)
	assert.Equal(t, "AccessDenied: not allowed", result.Error)
	assert.Empty(t, result.Location)
	// The attempted record survives the failure for retry or logging.
	assert.Equal(t, "cpu_percent", result.Record.MetricName)
	assert.Equal(t, 42.5, result.Record.Value)
	assert.NotEmpty(t, result.Record.Timestamp)
}

func TestStoreMetricUninitializedClient(t *testing.T) {
	fake := newFakeObjectStore()
	fake.putErr = ErrClientNotInitialized
	store := newTestStore(fake, time.Now())

	result := store.StoreMetric(context.Background(), "cpu_percent", 1, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "S3 client not initialized")
}

func TestGetRecentMetricsRoundTrip(t *testing.T) {
	fake := newFakeObjectStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(fake, now)

	stored := store.StoreMetric(context.Background(), "cpu_percent", 42.5, map[string]any{"host": "i-1"})
	assert.True(t, stored.Success)

	fetched := store.GetRecentMetrics(context.Background(), "cpu_percent", 10)
	assert.Len(t, fetched, 1)
	assert.Equal(t, stored.Record, fetched[0])
}

func TestGetRecentMetricsSortsMostRecentFirst(t *testing.T) {
	fake := newFakeObjectStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store := newTestStore(fake, base.Add(20*time.Hour))

	times := []time.Time{
		base.Add(9 * time.Hour),  // T1
		base.Add(11 * time.Hour), // T2
		base.Add(15 * time.Hour), // T3
	}
	for _, ts := range times {
		s := newTestStore(fake, ts)
		assert.True(t, s.StoreMetric(context.Background(), "cpu_percent", 1, nil).Success)
	}

	fetched := store.GetRecentMetrics(context.Background(), "cpu_percent", 10)
	assert.Len(t, fetched, 3)
	assert.Equal(t, domain.FormatTimestamp(times[2]), fetched[0].Timestamp)
	assert.Equal(t, domain.FormatTimestamp(times[1]), fetched[1].Timestamp)
	assert.Equal(t, domain.FormatTimestamp(times[0]), fetched[2].Timestamp)
}

func TestGetRecentMetricsHonorsLimit(t *testing.T) {
	fake := newFakeObjectStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s := newTestStore(fake, base.Add(time.Duration(i)*time.Hour))
		assert.True(t, s.StoreMetric(context.Background(), "cpu_percent", float64(i), nil).Success)
	}

	store := newTestStore(fake, base.Add(12*time.Hour))
	fetched := store.GetRecentMetrics(context.Background(), "cpu_percent", 2)
	assert.Len(t, fetched, 2)

	assert.Empty(t, store.GetRecentMetrics(context.Background(), "cpu_percent", 0))
}

func TestGetRecentMetricsScopedToToday(t *testing.T) {
	fake := newFakeObjectStore()
	yesterday := time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)

	s := newTestStore(fake, yesterday)
	assert.True(t, s.StoreMetric(context.Background(), "cpu_percent", 1, nil).Success)

	// Queried the next UTC day, yesterday's sample is invisible even though
	// the limit is unmet.
	store := newTestStore(fake, yesterday.Add(2*time.Hour))
	assert.Empty(t, store.GetRecentMetrics(context.Background(), "cpu_percent", 10))
}

func TestGetRecentMetricsSkipsUnreadableObjects(t *testing.T) {
	fake := newFakeObjectStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	good := newTestStore(fake, now)
	assert.True(t, good.StoreMetric(context.Background(), "cpu_percent", 42.5, nil).Success)

	prefix := domain.DayPrefix("cpu_percent", now)
	fake.objects[prefix+"110000000000.json"] = []byte("{not json")
	fake.objects[prefix+"100000000000.json"] = []byte(`{"metric_name":"cpu_percent","value":1}`)
	fake.getErrs[prefix+"090000000000.json"] = errors.New("connection reset")
	fake.objects[prefix+"090000000000.json"] = []byte("unused")

	fetched := good.GetRecentMetrics(context.Background(), "cpu_percent", 10)

	// The corrupt and unreadable objects are skipped, not fatal. The record
	// without a timestamp sorts last.
	assert.Len(t, fetched, 2)
	assert.Equal(t, domain.FormatTimestamp(now), fetched[0].Timestamp)
	assert.Empty(t, fetched[1].Timestamp)
}

func TestGetRecentMetricsListFailure(t *testing.T) {
	fake := newFakeObjectStore()
	fake.listErr = &RemoteError{Code: "InternalError", Message: "boom"}
	store := newTestStore(fake, time.Now())

	fetched := store.GetRecentMetrics(context.Background(), "cpu_percent", 10)
	assert.NotNil(t, fetched)
	assert.Empty(t, fetched)
}

func TestCheckAccessibility(t *testing.T) {
	fake := newFakeObjectStore()
	store := newTestStore(fake, time.Now())

	status := store.CheckAccessibility(context.Background())
	assert.True(t, status.Accessible)
	assert.Equal(t, "devops-metrics-bucket", status.Bucket)
	assert.Equal(t, "us-east-1", status.Region)
	assert.Empty(t, status.Error)
}

func TestCheckAccessibilityClassifiesErrors(t *testing.T) {
	cases := []struct {
		name     string
		headErr  error
		contains string
	}{
		{"bucket missing", &RemoteError{Code: "NotFound", Message: "no bucket"}, "does not exist"},
		{"bucket missing numeric code", &RemoteError{Code: "404", Message: "no bucket"}, "does not exist"},
		{"access denied", &RemoteError{Code: "AccessDenied", Message: "no"}, "Access denied"},
		{"forbidden numeric code", &RemoteError{Code: "403", Message: "no"}, "Access denied"},
		{"other remote error", &RemoteError{Code: "SlowDown", Message: "throttled"}, "SlowDown: throttled"},
		{"client uninitialized", ErrClientNotInitialized, "S3 client not initialized"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := newFakeObjectStore()
			fake.headErr = tc.headErr
			store := newTestStore(fake, time.Now())

			status := store.CheckAccessibility(context.Background())
			assert.False(t, status.Accessible)
			assert.Contains(t, status.Error, tc.contains)
		})
	}
}
