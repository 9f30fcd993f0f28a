// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment is the deployment environment the process runs in
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

// Oracle transport names
const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	// Oracle (Gemini generateContent)
	GeminiAPIKey        string
	GeminiModel         string
	GeminiEndpoint      string
	OracleTransport     string        // rest or sdk
	OracleTimeout       time.Duration // fixed per-request timeout
	OracleConcurrency   int           // parallel oracle queries per interaction check
	OracleRatePerSecond float64       // 0 disables the quota guard
	OracleBurst         int64
	OracleProbeInterval time.Duration // 0 disables the availability probe
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:         getEnvWithDefault("GEMINI_MODEL", defaultGeminiModel),
		OracleTransport:     strings.ToLower(getEnvWithDefault("ORACLE_TRANSPORT", TransportREST)),
		OracleTimeout:       time.Duration(getIntEnvWithDefault("ORACLE_TIMEOUT_SECONDS", 10)) * time.Second,
		OracleConcurrency:   getIntEnvWithDefault("ORACLE_CONCURRENCY", 4),
		OracleRatePerSecond: getFloatEnvWithDefault("ORACLE_RATE_PER_SECOND", 5),
		OracleBurst:         getInt64EnvWithDefault("ORACLE_BURST", 20),
		OracleProbeInterval: time.Duration(getIntEnvWithDefault("ORACLE_PROBE_INTERVAL_MINUTES", 15)) * time.Minute,
	}
	cfg.GeminiEndpoint = getEnvWithDefault("GEMINI_ENDPOINT", DefaultGeminiEndpoint(cfg.GeminiModel))

	env, err := ParseEnvironment(getEnvWithDefault("ENV", string(EnvDevelopment)))
	if err != nil {
		return nil, fmt.Errorf("invalid ENV: %w", err)
	}
	cfg.Env = env

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ParseEnvironment maps an ENV value, long forms included, to an Environment
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

func (e Environment) String() string {
	return string(e)
}

// DefaultGeminiEndpoint returns the public generateContent URL for model
func DefaultGeminiEndpoint(model string) string {
	return fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", url.PathEscape(model))
}

// OracleEnabled reports whether an oracle key is configured
func (c *Config) OracleEnabled() bool {
	return c.GeminiAPIKey != ""
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateOracle(cfg); err != nil {
		return fmt.Errorf("invalid oracle settings: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env Environment) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []Environment{EnvDevelopment, EnvStaging, EnvProduction, EnvTest}
	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateOracle validates the ORACLE_* and GEMINI_* environment variables
func validateOracle(cfg *Config) error {
	if cfg.OracleTransport != TransportREST && cfg.OracleTransport != TransportSDK {
		return fmt.Errorf("ORACLE_TRANSPORT must be one of: [%s %s], got: %s", TransportREST, TransportSDK, cfg.OracleTransport)
	}

	if cfg.OracleTimeout <= 0 || cfg.OracleTimeout > 2*time.Minute {
		return fmt.Errorf("ORACLE_TIMEOUT_SECONDS must be between 1 and 120, got: %s", cfg.OracleTimeout)
	}

	if cfg.OracleConcurrency < 1 || cfg.OracleConcurrency > 32 {
		return fmt.Errorf("ORACLE_CONCURRENCY must be between 1 and 32, got: %d", cfg.OracleConcurrency)
	}

	if cfg.OracleRatePerSecond < 0 {
		return fmt.Errorf("ORACLE_RATE_PER_SECOND cannot be negative, got: %g", cfg.OracleRatePerSecond)
	}

	if cfg.OracleRatePerSecond > 0 && cfg.OracleBurst < 1 {
		return fmt.Errorf("ORACLE_BURST must be positive when rate limiting is enabled, got: %d", cfg.OracleBurst)
	}

	if cfg.OracleProbeInterval < 0 {
		return fmt.Errorf("ORACLE_PROBE_INTERVAL_MINUTES cannot be negative")
	}

	if strings.TrimSpace(cfg.GeminiModel) == "" {
		return fmt.Errorf("GEMINI_MODEL cannot be empty")
	}

	u, err := url.Parse(cfg.GeminiEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GEMINI_ENDPOINT must be an absolute http(s) URL, got: %s", cfg.GeminiEndpoint)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnvWithDefault gets an environment variable as float64 with a default value
func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_DIR",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"GEMINI_API_KEY",
		"GEMINI_MODEL",
		"GEMINI_ENDPOINT",
		"ORACLE_TRANSPORT",
		"ORACLE_TIMEOUT_SECONDS",
		"ORACLE_CONCURRENCY",
		"ORACLE_RATE_PER_SECOND",
		"ORACLE_BURST",
		"ORACLE_PROBE_INTERVAL_MINUTES",
	}
}
