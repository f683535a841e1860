package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"metrics-dashboard/internal/collector"
	"metrics-dashboard/internal/config"
	"metrics-dashboard/internal/identity"
	"metrics-dashboard/internal/repository"
	"metrics-dashboard/internal/util"
)

// One-shot system-metric recorder: collects a host snapshot and persists
// cpu/memory/disk usage to the object store. Meant to run from cron or a
// scheduled job next to the API server.
func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logPath := ".." + string(os.PathSeparator) + "log"
	util.SetLoggerPath(logPath)
	util.CheckAndCreateLogFolder(logPath)
	util.SetGlobalLogLevel(cfg.LogLevel)

	var logger util.MetricsLogger
	if err := logger.Init("ingest.log", false); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.DeInit()

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

	store := repository.NewS3MetricStore(gateway, &logger)
	sysCollector := collector.NewSystemCollector(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	instanceID := identity.Resolve(ctx, cfg.InstanceID)
	snapshot := sysCollector.Collect(ctx)

	metadata := map[string]any{
		"instance_id": instanceID,
		"environment": cfg.Environment,
	}
	samples := []struct {
		name  string
		value float64
	}{
		{"cpu_percent", snapshot.CPU.Percent},
		{"memory_percent", snapshot.Memory.Percent},
		{"disk_percent", snapshot.Disk.Percent},
	}

	recorded := 0
	for _, sample := range samples {
		result := store.StoreMetric(ctx, sample.name, sample.value, metadata)
		if result.Success {
			recorded++
			log.Printf("Stored %s=%.2f at %s", sample.name, sample.value, result.Location)
		} else {
			log.Printf("Failed to store %s: %s", sample.name, result.Error)
		}
	}

	fmt.Printf("Recorded %d/%d system metrics\n", recorded, len(samples))
}
