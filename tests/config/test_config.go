package config

import (
	"fmt"
	"os"
	"strconv"
)

// TestConfig holds configuration for E2E/smoke tests
type TestConfig struct {
	// API endpoint configuration
	BaseURL string // e.g., "https://cadastro.example.com/v1"

	// Sends a real registration upstream when true
	SubmitEnabled bool

	// Test timeouts
	HealthCheckTimeout int // seconds
	APICallTimeout     int // seconds
}

// LoadTestConfig loads configuration from environment variables. A missing
// TEST_BASE_URL is an error so callers can skip.
func LoadTestConfig() (*TestConfig, error) {
	baseURL := os.Getenv("TEST_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("TEST_BASE_URL is required")
	}

	submit := false
	if v := os.Getenv("TEST_SUBMIT_ENABLED"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TEST_SUBMIT_ENABLED: %w", err)
		}
		submit = parsed
	}

	return &TestConfig{
		BaseURL:            baseURL,
		SubmitEnabled:      submit,
		HealthCheckTimeout: 30,
		APICallTimeout:     10,
	}, nil
}
