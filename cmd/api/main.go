package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"metrics-dashboard/internal/collector"
	"metrics-dashboard/internal/config"
	"metrics-dashboard/internal/health"
	"metrics-dashboard/internal/identity"
	"metrics-dashboard/internal/repository"
	"metrics-dashboard/internal/router"
	"metrics-dashboard/internal/util"
)

func LoggerInitialize(cfg *config.Config) (util.MetricsLogger, error) {

	var metricsLogger util.MetricsLogger

	ConstructAndCreateLogFolder(cfg.LogLevel)

	if err := metricsLogger.Init("webService.log", false); err != nil {
		fmt.Println("Failed to initialize logger:", err)
		return util.MetricsLogger{}, err
	}

	metricsLogger.LogEvent(util.LOG_LEVEL_INFO, "Service started")

	currentTime := time.Now().Format(time.RFC3339)

	fmt.Fprintf(os.Stderr, "\n%s: %s started \n", currentTime, cfg.AppName)

	return metricsLogger, nil

}

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger, err := LoggerInitialize(cfg)
	if err != nil {
		fmt.Println("Error while initializing the logger..", err)
		return
	}

	gateway, err := repository.NewS3Gateway(repository.S3GatewayConfig{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		UsePathStyle:    cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Fatalf("Failed to configure S3 gateway: %v", err)
	}

	metricStore := repository.NewS3MetricStore(gateway, &logger)

	instanceID := identity.Resolve(context.Background(), cfg.InstanceID)

	evaluator := health.NewEvaluator(metricStore, &logger, instanceID, cfg.AppVersion, cfg.RequestTimeout)
	sysCollector := collector.NewSystemCollector(&logger)

	logger.LogEvent(util.LOG_LEVEL_INFO, "Application initialized:", cfg.AppName)
	logger.LogEvent(util.LOG_LEVEL_INFO, "Environment:", cfg.Environment)
	logger.LogEvent(util.LOG_LEVEL_INFO, "S3 Bucket:", cfg.S3Bucket)
	logger.LogEvent(util.LOG_LEVEL_INFO, "Instance ID:", instanceID)

	router.Run(fmt.Sprintf(":%d", cfg.Port), router.Deps{
		Store:       metricStore,
		Collector:   sysCollector,
		Evaluator:   evaluator,
		Logger:      &logger,
		InstanceID:  instanceID,
		Environment: cfg.Environment,
		Timeout:     cfg.RequestTimeout,
	})
}

func ConstructAndCreateLogFolder(logLevel string) {
	logPath := ".." + string(os.PathSeparator) + "log"
	util.SetLoggerPath(logPath)
	util.CheckAndCreateLogFolder(logPath)
	util.SetGlobalLogLevel(logLevel)
}
