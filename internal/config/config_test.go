package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	if cfg.HTTP.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.HTTP.Port)
	}
	if cfg.OCR.Backend != BackendTesseract {
		t.Errorf("Backend = %q", cfg.OCR.Backend)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("Language = %q", cfg.OCR.Language)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.OCR.Timeout)
	}
	if cfg.HTTP.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.HTTP.MaxUploadBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	err := cfg.applyEnv(envMap(map[string]string{
		EnvLogLevel:       "DEBUG",
		EnvLogJSON:        "true",
		EnvPort:           "8080",
		EnvAllowedOrigins: "http://localhost:3000, https://labels.example.com,,",
		EnvMaxUploadMB:    "4",
		EnvOCRBackend:     " Azure ",
		EnvOCRLanguage:    "eng+fra",
		EnvOCRTimeout:     "5s",
		EnvAzureEndpoint:  "https://example.cognitiveservices.azure.com/",
		EnvAzureKey:       "secret",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if !cfg.Log.Debug || !cfg.Log.JSON {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://labels.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.HTTP.MaxUploadBytes != 4<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.HTTP.MaxUploadBytes)
	}
	if cfg.OCR.Backend != BackendAzure {
		t.Errorf("Backend = %q", cfg.OCR.Backend)
	}
	if cfg.OCR.Language != "eng+fra" || cfg.OCR.Timeout != 5*time.Second {
		t.Errorf("OCR = %+v", cfg.OCR)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", EnvPort, "http"},
		{"json flag", EnvLogJSON, "sometimes"},
		{"upload size", EnvMaxUploadMB, "ten"},
		{"timeout", EnvOCRTimeout, "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().applyEnv(envMap(map[string]string{tt.key: tt.val}))
			if err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.val)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }, "invalid port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "invalid port"},
		{"no upload", func(c *Config) { c.HTTP.MaxUploadBytes = 0 }, "upload"},
		{"zero timeout", func(c *Config) { c.OCR.Timeout = 0 }, "timeout"},
		{"unknown backend", func(c *Config) { c.OCR.Backend = "paddle" }, "unknown OCR backend"},
		{"empty language", func(c *Config) { c.OCR.Language = "" }, "language"},
		{"azure without key", func(c *Config) {
			c.OCR.Backend = BackendAzure
			c.OCR.AzureEndpoint = "https://example"
		}, EnvAzureKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "LABEL_VERIFY_OCR_LANGUAGE=deu\nLABEL_VERIFY_OCR_TIMEOUT=12s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvOCRLanguage, "")
	os.Unsetenv(EnvOCRLanguage)
	t.Setenv(EnvOCRTimeout, "")
	os.Unsetenv(EnvOCRTimeout)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OCR.Language != "deu" {
		t.Errorf("Language = %q, want deu", cfg.OCR.Language)
	}
	if cfg.OCR.Timeout != 12*time.Second {
		t.Errorf("Timeout = %v, want 12s", cfg.OCR.Timeout)
	}
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("PORT=9000\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvPort, "7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 7000 {
		t.Errorf("Port = %d, want 7000", cfg.HTTP.Port)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load with missing file: %v", err)
	}
}
