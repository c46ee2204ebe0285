package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendREST = "rest"
	BackendS3   = "s3"

	defaultS3Region = "us-east-1"
)

type Config struct {
	ProjectURL  string
	ServiceRole string
	Backend     string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3Endpoint  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	config := &Config{
		ProjectURL:  getEnv("SUPABASE_URL", ""),
		ServiceRole: getEnv("SUPABASE_SERVICE_ROLE", ""),
		Backend:     strings.ToLower(getEnv("STORAGE_BACKEND", BackendREST)),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Region:    getEnv("S3_REGION", defaultS3Region),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
	}

	return config, nil
}

// Validate reports every missing required variable at once. It must be
// called before any network activity.
func (c *Config) Validate() error {
	var missing []string
	if c.ProjectURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.ServiceRole == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE")
	}

	switch c.Backend {
	case BackendREST:
	case BackendS3:
		if c.S3AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if c.S3SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Backend, BackendREST, BackendS3)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, " or "))
	}
	return nil
}

// StorageURL is the base URL of the storage REST API.
func (c *Config) StorageURL() string {
	return strings.TrimRight(c.ProjectURL, "/") + "/storage/v1"
}

// S3URL is the S3-compatible endpoint, S3_ENDPOINT when set.
func (c *Config) S3URL() string {
	if c.S3Endpoint != "" {
		return c.S3Endpoint
	}
	return c.StorageURL() + "/s3"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
