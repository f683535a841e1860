package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every configurable value for the service.
type Config struct {
	AppName     string // display name, e.g. "DevOps Metrics Dashboard"
	Environment string // development|staging|production
	AppVersion  string

	// Object store
	AWSRegion          string
	S3Bucket           string
	S3Endpoint         string // optional, for MinIO and other S3-compatibles
	S3UsePathStyle     bool
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Server
	Port           int
	LogLevel       string        // debug|info|warn|error
	RequestTimeout time.Duration // applied to every remote store call
	InstanceID     string        // optional override; resolved at startup when empty
}

// Load reads configuration from (in decreasing priority):
//  1. environment variables (e.g. S3_BUCKET, AWS_REGION)
//  2. a yaml file (./configs/config.yaml) if it exists.
//
// It returns a fully populated *Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("AppName", "DevOps Metrics Dashboard")
	v.SetDefault("Environment", "development")
	v.SetDefault("AppVersion", "1.0.0")
	v.SetDefault("AWSRegion", "us-east-1")
	v.SetDefault("S3Bucket", "devops-metrics-bucket")
	v.SetDefault("S3Endpoint", "")
	v.SetDefault("S3UsePathStyle", false)
	v.SetDefault("AWSAccessKeyID", "")
	v.SetDefault("AWSSecretAccessKey", "")
	v.SetDefault("Port", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("RequestTimeout", 10*time.Second)
	v.SetDefault("InstanceID", "")

	// Environment variables - viper maps "_" to "." (case-insensitive)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only matches the squashed key names (S3BUCKET); the
	// deployment contract uses the underscored 12-factor names, so bind
	// those explicitly.
	for key, envName := range map[string]string{
		"AppName":            "APP_NAME",
		"AppVersion":         "APP_VERSION",
		"AWSRegion":          "AWS_REGION",
		"S3Bucket":           "S3_BUCKET",
		"S3Endpoint":         "S3_ENDPOINT",
		"S3UsePathStyle":     "S3_USE_PATH_STYLE",
		"AWSAccessKeyID":     "AWS_ACCESS_KEY_ID",
		"AWSSecretAccessKey": "AWS_SECRET_ACCESS_KEY",
		"LogLevel":           "LOG_LEVEL",
		"InstanceID":         "INSTANCE_ID",
		"RequestTimeout":     "REQUEST_TIMEOUT",
	} {
		_ = v.BindEnv(key, envName)
	}

	// Optional yaml file - useful for local dev or k8s ConfigMap
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // ignore error - file is optional

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3Bucket must not be empty")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("Port must be in 1..65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	return &cfg, nil
}
