package router

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"metrics-dashboard/internal/collector"
	"metrics-dashboard/internal/domain"
	"metrics-dashboard/internal/endpoints"
	"metrics-dashboard/internal/util"
)

// Deps carries everything the HTTP layer needs; the router itself holds no
// business logic.
type Deps struct {
	Store       domain.MetricStore
	Collector   collector.Collector
	Evaluator   endpoints.Evaluator
	Logger      *util.MetricsLogger
	InstanceID  string
	Environment string
	Timeout     time.Duration
}

func NewRouter(deps Deps) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, deps)

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(deps.Logger))

	return r
}

func addRoutes(r *mux.Router, deps Deps) {

	metricsHandler := &endpoints.Metrics{}
	metricsHandler.Init(deps.Store, deps.Logger, deps.Timeout)

	systemHandler := &endpoints.System{}
	systemHandler.Init(deps.Store, deps.Collector, deps.Logger, deps.InstanceID, deps.Environment, deps.Timeout)

	healthHandler := &endpoints.Health{}
	healthHandler.Init(deps.Evaluator)

	r.HandleFunc("/health", healthHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/metrics", systemHandler.CurrentMetricsHandler).Methods("GET")
	r.HandleFunc("/api/record", metricsHandler.RecordMetricHandler).Methods("POST")
	r.HandleFunc("/api/metrics/{name}", metricsHandler.GetMetricsHandler).Methods("GET")
	r.HandleFunc("/api/system/record", systemHandler.RecordSystemHandler).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func Run(addr string, deps Deps) {
	appRouter := NewRouter(deps)

	server := NewServer(addr, appRouter)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		println()
		log.Println("Shutting down server...")

		err := gracefulShutdown(server, 25*time.Second)

		if err != nil {
			log.Printf("Server stopped with error: %s", err.Error())
		} else {
			log.Println("Server stopped gracefully.")
		}

		os.Exit(0)
	}()

	log.Printf("Listening on %s", server.Addr)
	log.Fatal(server.ListenAndServe())
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger *util.MetricsLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("Request: %s %s", r.Method, r.RequestURI))
			next.ServeHTTP(w, r)
		})
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	var res endpoints.APIResponse
	res.WriteErrorResponseWithStatusCode(w, fmt.Errorf("Not found: %s", r.URL.Path), http.StatusNotFound)
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	var res endpoints.APIResponse
	res.WriteErrorResponseWithStatusCode(w, fmt.Errorf("Method %s not allowed for %s", r.Method, r.URL.Path), http.StatusMethodNotAllowed)
}
