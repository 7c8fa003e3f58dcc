package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Postal code lookup
	CEPBaseURL  string        `json:"cep_base_url"`
	CEPCacheTTL time.Duration `json:"cep_cache_ttl"`
	CEPTimeout  time.Duration `json:"cep_timeout"`

	// Affiliate registration endpoint
	UpstreamRegisterURL   string        `json:"upstream_register_url"`
	UpstreamFormURL       string        `json:"upstream_form_url"`
	UpstreamCSRFEnabled   bool          `json:"upstream_csrf_enabled"`
	UpstreamEncoding      string        `json:"upstream_encoding"`
	UpstreamDeliveryField string        `json:"upstream_delivery_field"`
	UpstreamTimeout       time.Duration `json:"upstream_timeout"`
	ResponseClassifiers   []string      `json:"response_classifiers"`

	// Sponsor attribution
	ReferralCode    string `json:"referral_code"`
	SponsorName     string `json:"sponsor_name"`
	SponsorWhatsApp string `json:"sponsor_whatsapp"`
	WhatsAppBaseURL string `json:"whatsapp_base_url"`

	// Wizard
	WizardLayout     string        `json:"wizard_layout"`
	WizardSessionTTL time.Duration `json:"wizard_session_ttl"`

	// Registrations allowed per minute towards the upstream
	RegistrationRateLimit int `json:"registration_rate_limit"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// Encodings accepted by UPSTREAM_ENCODING
const (
	EncodingURLEncoded = "urlencoded"
	EncodingMultipart  = "multipart"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cepCacheTTL, err := time.ParseDuration(getEnvOrDefault("CEP_CACHE_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid CEP_CACHE_TTL: %w", err)
	}

	cepTimeout, err := time.ParseDuration(getEnvOrDefault("CEP_TIMEOUT", "5s"))
	if err != nil {
		return fmt.Errorf("invalid CEP_TIMEOUT: %w", err)
	}

	upstreamTimeout, err := time.ParseDuration(getEnvOrDefault("UPSTREAM_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	csrfEnabled, err := strconv.ParseBool(getEnvOrDefault("UPSTREAM_CSRF_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("invalid UPSTREAM_CSRF_ENABLED: %w", err)
	}

	encoding := strings.ToLower(getEnvOrDefault("UPSTREAM_ENCODING", EncodingURLEncoded))
	if encoding != EncodingURLEncoded && encoding != EncodingMultipart {
		return fmt.Errorf("invalid UPSTREAM_ENCODING: %q (expected %s or %s)", encoding, EncodingURLEncoded, EncodingMultipart)
	}

	deliveryField := getEnvOrDefault("UPSTREAM_DELIVERY_FIELD", "typeFrete")
	if deliveryField != "typeFrete" && deliveryField != "deliveryMethod" {
		return fmt.Errorf("invalid UPSTREAM_DELIVERY_FIELD: %q", deliveryField)
	}

	layout := strings.ToLower(getEnvOrDefault("WIZARD_LAYOUT", "four"))
	if layout != "four" && layout != "five" {
		return fmt.Errorf("invalid WIZARD_LAYOUT: %q (expected four or five)", layout)
	}

	sessionTTL, err := time.ParseDuration(getEnvOrDefault("WIZARD_SESSION_TTL", "2h"))
	if err != nil {
		return fmt.Errorf("invalid WIZARD_SESSION_TTL: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnvOrDefault("REGISTRATION_RATE_LIMIT", "30"))
	if err != nil || rateLimit <= 0 {
		return fmt.Errorf("invalid REGISTRATION_RATE_LIMIT: %q", os.Getenv("REGISTRATION_RATE_LIMIT"))
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "redis://localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Postal code lookup
		CEPBaseURL:  strings.TrimRight(getEnvOrDefault("CEP_BASE_URL", "https://viacep.com.br"), "/"),
		CEPCacheTTL: cepCacheTTL,
		CEPTimeout:  cepTimeout,

		// Affiliate registration endpoint
		UpstreamRegisterURL:   getEnvOrDefault("UPSTREAM_REGISTER_URL", "https://federalassociados.com.br/registroSave"),
		UpstreamFormURL:       getEnvOrDefault("UPSTREAM_FORM_URL", "https://federalassociados.com.br/registro/110956"),
		UpstreamCSRFEnabled:   csrfEnabled,
		UpstreamEncoding:      encoding,
		UpstreamDeliveryField: deliveryField,
		UpstreamTimeout:       upstreamTimeout,
		ResponseClassifiers:   splitList(getEnvOrDefault("RESPONSE_CLASSIFIERS", "redirect,html,json,fallback")),

		// Sponsor attribution
		ReferralCode:    getEnvOrDefault("REFERRAL_CODE", "110956"),
		SponsorName:     getEnvOrDefault("SPONSOR_NAME", "Francisco Eliedisom Dos Santos"),
		SponsorWhatsApp: getEnvOrDefault("SPONSOR_WHATSAPP", ""),
		WhatsAppBaseURL: strings.TrimRight(getEnvOrDefault("WHATSAPP_BASE_URL", "https://wa.me"), "/"),

		// Wizard
		WizardLayout:     layout,
		WizardSessionTTL: sessionTTL,

		RegistrationRateLimit: rateLimit,

		// Tracing configuration
		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// splitList parses a comma separated list, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
