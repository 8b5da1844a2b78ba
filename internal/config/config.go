// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database and schedule paths, the exit
// classifier, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-recruit-assistant")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LLMConfig holds settings for the OpenAI-backed responder and exit oracle.
type LLMConfig struct {
	APIKey     string        // OPENAI_API_KEY
	ChatModels []string      // CHAT_MODELS, ordered fallback chain
	ExitModel  string        // EXIT_MODEL, used for the end-of-conversation score
	Timeout    time.Duration // LLM_TIMEOUT per request
}

// LogConfig holds logging output settings. When File is empty, logs go to
// stdout only; otherwise they are duplicated into a size-rotated file.
type LogConfig struct {
	Level      string // debug|info|warn|error|fatal|panic
	Pretty     bool   // pretty console logs in dev
	File       string // path to a rotated log file, empty to disable
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
	MaxAgeDays int    // days to retain rotated files
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	Log         LogConfig
	APIBasePath string // base path for API routes

	// App
	DBPath       string // SQLite path
	SchedulePath string // interview schedule CSV
	JobSpecPath  string // job descriptions markdown for the info advisor

	// Conversation engine
	ExitThreshold     float64 // end-of-conversation probability cutoff [0,1]
	ExitHistoryWindow int     // recent user messages fed to the exit oracle
	SlotPageSize      int     // slot options shown per page
	InfoThreshold     float64 // retrieval confidence threshold [0,1]

	// LLM
	LLM LLMConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		Log: LogConfig{
			Level:      strings.ToLower(getenv("LOG_LEVEL", "info")),
			Pretty:     getbool("LOG_PRETTY", false),
			File:       getenv("LOG_FILE", ""),
			MaxSizeMB:  getint("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getint("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getint("LOG_MAX_AGE_DAYS", 28),
		},
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath:       getenv("DB_PATH", "recruit.db"),
		SchedulePath: getenv("SCHEDULE_PATH", "data/schedule.csv"),
		JobSpecPath:  getenv("JOBSPEC_PATH", "data/jobspec.md"),

		// Conversation engine
		ExitThreshold:     getfloat("EXIT_THRESHOLD", 0.2),
		ExitHistoryWindow: getint("EXIT_HISTORY_WINDOW", 3),
		SlotPageSize:      getint("SLOT_PAGE_SIZE", 3),
		InfoThreshold:     getfloat("INFO_THRESHOLD", 0.32),

		// LLM
		LLM: LLMConfig{
			APIKey:     getenv("OPENAI_API_KEY", ""),
			ChatModels: splitCSV(getenv("CHAT_MODELS", "gpt-4o,gpt-3.5-turbo")),
			ExitModel:  getenv("EXIT_MODEL", "gpt-4o"),
			Timeout:    getdur("LLM_TIMEOUT", 20*time.Second),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-recruit-assistant"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.Log.Level == "warning" {
		cfg.Log.Level = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.SchedulePath) == "" {
		return cfg, errors.New("SCHEDULE_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.JobSpecPath) == "" {
		return cfg, errors.New("JOBSPEC_PATH must not be empty")
	}
	if cfg.ExitThreshold < 0 || cfg.ExitThreshold > 1 {
		return cfg, errors.New("EXIT_THRESHOLD must be between 0 and 1")
	}
	if cfg.ExitHistoryWindow < 0 {
		return cfg, errors.New("EXIT_HISTORY_WINDOW must be >= 0")
	}
	if cfg.SlotPageSize < 1 {
		return cfg, errors.New("SLOT_PAGE_SIZE must be >= 1")
	}
	if cfg.InfoThreshold < 0 || cfg.InfoThreshold > 1 {
		return cfg, errors.New("INFO_THRESHOLD must be between 0 and 1")
	}
	if len(cfg.LLM.ChatModels) == 0 {
		return cfg, errors.New("CHAT_MODELS must name at least one model")
	}
	if strings.TrimSpace(cfg.LLM.ExitModel) == "" {
		return cfg, errors.New("EXIT_MODEL must not be empty")
	}
	if cfg.LLM.Timeout <= 0 {
		return cfg, errors.New("LLM_TIMEOUT must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Log.MaxSizeMB < 1 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		return cfg, errors.New("log rotation settings out of range")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
