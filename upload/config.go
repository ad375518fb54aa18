// Package upload provides asset uploaders for submit: a MinIO/S3 object
// store and a local directory.
package upload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reoring/formflow/internal/env"
)

// Config locates the object store bucket assets are written to.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
	Prefix    string
	// Timeout bounds one PutObject call; zero leaves the caller's context as is.
	Timeout   time.Duration
}

// ConfigFromEnv reads FORMFLOW_MINIO_* variables.
func ConfigFromEnv() (Config, error) {
	useSSL, err := env.Bool("FORMFLOW_MINIO_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	timeout, err := env.Duration("FORMFLOW_UPLOAD_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Endpoint:  env.String("FORMFLOW_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: env.String("FORMFLOW_MINIO_ACCESS_KEY", "formflow"),
		SecretKey: env.String("FORMFLOW_MINIO_SECRET_KEY", "formflowminio"),
		Region:    env.String("FORMFLOW_MINIO_REGION", "us-east-1"),
		UseSSL:    useSSL,
		Bucket:    env.String("FORMFLOW_MINIO_BUCKET", "avatars"),
		Prefix:    env.String("FORMFLOW_MINIO_PREFIX", ""),
		Timeout:   timeout,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		return errors.New("access key is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("secret key is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return errors.New("bucket is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("endpoint must not include scheme: %q", c.Endpoint)
	}
	return nil
}
