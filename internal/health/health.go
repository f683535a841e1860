package health

import (
	"context"
	"time"

	"metrics-dashboard/internal/domain"
	"metrics-dashboard/internal/util"
)

// Dependency status values reported alongside the overall status.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusUnknown  = "unknown"
)

// Report is the health-check payload handed to load balancers.
type Report struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	InstanceID string `json:"instance_id"`
	Version    string `json:"version"`
	S3Status   string `json:"s3_status"`
}

// AccessibilityChecker is the slice of domain.MetricStore the evaluator
// needs: a single bucket probe.
type AccessibilityChecker interface {
	CheckAccessibility(ctx context.Context) domain.ReachabilityStatus
}

// Evaluator produces liveness reports. The overall status is "healthy"
// whenever the process can respond at all: the object store is a
// non-critical dependency and its state only shows up as S3Status, so a
// degraded bucket never makes a load balancer evict the instance.
type Evaluator struct {
	checker    AccessibilityChecker
	logger     *util.MetricsLogger
	instanceID string
	version    string
	timeout    time.Duration
}

func NewEvaluator(checker AccessibilityChecker, logger *util.MetricsLogger, instanceID, version string, timeout time.Duration) *Evaluator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Evaluator{
		checker:    checker,
		logger:     logger,
		instanceID: instanceID,
		version:    version,
		timeout:    timeout,
	}
}

// Evaluate returns the current report. The dependency probe runs under a
// bounded timeout and any failure, panic included, degrades S3Status to
// "unknown" without ever touching the overall status.
func (e *Evaluator) Evaluate(ctx context.Context) Report {
	report := Report{
		Status:     StatusHealthy,
		Timestamp:  domain.FormatTimestamp(time.Now()),
		InstanceID: e.instanceID,
		Version:    e.version,
	}
	report.S3Status = e.probeStore(ctx)
	return report
}

func (e *Evaluator) probeStore(ctx context.Context) (status string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.LogEvent(util.LOG_LEVEL_WARN, "S3 check failed:", r)
			status = StatusUnknown
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	s3Status := e.checker.CheckAccessibility(ctx)
	if !s3Status.Accessible {
		e.logger.LogEvent(util.LOG_LEVEL_WARN, "S3 degraded:", s3Status.Error)
		return StatusDegraded
	}
	return StatusHealthy
}
