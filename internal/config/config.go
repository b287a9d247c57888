// Package config loads label-verify settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// OCR backends.
const (
	BackendTesseract = "tesseract"
	BackendAzure     = "azure"
)

// Environment variable names.
const (
	EnvLogLevel       = "LABEL_VERIFY_LOG_LEVEL"
	EnvLogJSON        = "LABEL_VERIFY_LOG_JSON"
	EnvPort           = "PORT"
	EnvOCRBackend     = "LABEL_VERIFY_OCR_BACKEND"
	EnvOCRLanguage    = "LABEL_VERIFY_OCR_LANGUAGE"
	EnvOCRTimeout     = "LABEL_VERIFY_OCR_TIMEOUT"
	EnvAzureEndpoint  = "AZURE_CV_ENDPOINT"
	EnvAzureKey       = "AZURE_CV_KEY"
	EnvAllowedOrigins = "LABEL_VERIFY_ALLOWED_ORIGINS"
	EnvMaxUploadMB    = "LABEL_VERIFY_MAX_UPLOAD_MB"
)

// Config holds every label-verify setting, grouped by concern.
type Config struct {
	Log  Log
	HTTP HTTP
	OCR  OCR
}

// Log controls log output.
type Log struct {
	// Debug enables debug output (LABEL_VERIFY_LOG_LEVEL=debug).
	Debug bool

	// JSON writes log lines as JSON objects.
	JSON bool
}

// HTTP configures the HTTP API served by "label-verify serve".
type HTTP struct {
	// Port the HTTP API listens on.
	Port int

	// AllowedOrigins lists CORS origins. Empty means same-origin only.
	AllowedOrigins []string

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64
}

// OCR selects and configures the text recognition backend.
type OCR struct {
	// Backend is BackendTesseract or BackendAzure.
	Backend string

	// Language is the tesseract language code.
	Language string

	// Timeout bounds a single extraction.
	Timeout time.Duration

	AzureEndpoint string
	AzureKey      string
}

// New returns the defaults.
func New() *Config {
	return &Config{
		HTTP: HTTP{
			Port:           5000,
			MaxUploadBytes: 10 << 20,
		},
		OCR: OCR{
			Backend:  BackendTesseract,
			Language: "eng",
			Timeout:  30 * time.Second,
		},
	}
}

// Load reads the given .env files (missing files are ignored, as are files
// when none are given and ./.env does not exist) and then the process
// environment. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}
	cfg := New()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	c.Log.Debug = strings.EqualFold(getenv(EnvLogLevel), "debug")

	if v := getenv(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvLogJSON, v, err)
		}
		c.Log.JSON = b
	}

	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.HTTP.Port = port
	}

	if v := getenv(EnvAllowedOrigins); v != "" {
		c.HTTP.AllowedOrigins = splitList(v)
	}

	if v := getenv(EnvMaxUploadMB); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxUploadMB, v, err)
		}
		c.HTTP.MaxUploadBytes = mb << 20
	}

	if v := getenv(EnvOCRBackend); v != "" {
		c.OCR.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv(EnvOCRLanguage); v != "" {
		c.OCR.Language = v
	}
	if v := getenv(EnvOCRTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvOCRTimeout, v, err)
		}
		c.OCR.Timeout = d
	}
	c.OCR.AzureEndpoint = getenv(EnvAzureEndpoint)
	c.OCR.AzureKey = getenv(EnvAzureKey)

	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.HTTP.Port)
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.OCR.Timeout <= 0 {
		return errors.New("OCR timeout must be positive")
	}

	switch c.OCR.Backend {
	case BackendTesseract:
		if c.OCR.Language == "" {
			return errors.New("OCR language must not be empty")
		}
	case BackendAzure:
		if c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "" {
			return fmt.Errorf("azure backend requires %s and %s", EnvAzureEndpoint, EnvAzureKey)
		}
	default:
		return fmt.Errorf("unknown OCR backend %q (want %s or %s)", c.OCR.Backend, BackendTesseract, BackendAzure)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
