package endpoints

import (
	"context"
	"net/http"

	"metrics-dashboard/internal/health"
)

// Evaluator produces the liveness report served at /health.
type Evaluator interface {
	Evaluate(ctx context.Context) health.Report
}

// Health serves the load-balancer health check. The report is written as
// plain JSON (no APIResponse envelope) and the response is 200 whenever the
// process can answer at all; a degraded object store only shows up inside
// the report.
type Health struct {
	evaluator Evaluator
}

func (h *Health) Init(evaluator Evaluator) {
	h.evaluator = evaluator
}

func (h *Health) HealthHandler(w http.ResponseWriter, r *http.Request) {
	report := h.evaluator.Evaluate(r.Context())
	writeJSON(w, report, http.StatusOK)
}
