/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields should be preserved when possible (yaml handles this by ignoring extras on unmarshal).

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
	TemplatesDir   string `yaml:"templates_dir"`
}

// AutosaveConfig controls the draft autosaver. The boolean is spelled
// "disabled" so that the zero value keeps autosave on.
type AutosaveConfig struct {
	Disabled   bool `yaml:"disabled"`
	IntervalMs int  `yaml:"interval_ms"`
}

// Interval returns the debounce interval, falling back to the default when
// the configured value is missing or nonsense.
func (a AutosaveConfig) Interval() time.Duration {
	if a.IntervalMs <= 0 {
		return time.Duration(Defaults().Autosave.IntervalMs) * time.Millisecond
	}
	return time.Duration(a.IntervalMs) * time.Millisecond
}

// ExportConfig carries the default style and page format used when the
// export command is invoked without explicit flags.
type ExportConfig struct {
	Style  string `yaml:"style"`
	Format string `yaml:"format"`
}

type BackendConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	DatabaseURL string `yaml:"database_url"` // direct read-only Postgres catalog source
	// Token is not stored on disk; it lives in the OS keychain.
}

// Timeout returns the request timeout for the catalog client.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutMs <= 0 {
		return time.Duration(Defaults().Backend.TimeoutMs) * time.Millisecond
	}
	return time.Duration(b.TimeoutMs) * time.Millisecond
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	General       GeneralConfig  `yaml:"general"`
	Autosave      AutosaveConfig `yaml:"autosave"`
	Export        ExportConfig   `yaml:"export"`
	Backend       BackendConfig  `yaml:"backend"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system", TemplatesDir: ""},
		Autosave:      AutosaveConfig{Disabled: false, IntervalMs: 1000},
		Export:        ExportConfig{Style: "bold", Format: "square"},
		Backend:       BackendConfig{Enabled: false, BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false, DatabaseURL: ""},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvBackendURL       = "CRS_BACKEND_URL"
	EnvBackendTimeoutMs = "CRS_BACKEND_TIMEOUT_MS"
	EnvBackendTLSInsec  = "CRS_TLS_INSECURE"
	EnvBackendEnabled   = "CRS_BACKEND_ENABLED"
	EnvBackendDSN       = "CRS_PG_DSN"
	EnvTelemetryOptIn   = "CRS_TELEMETRY_OPT_IN"
	EnvTemplatesDir     = "CRS_TEMPLATES_DIR"
	EnvAutosaveInterval = "CRS_AUTOSAVE_INTERVAL_MS"
	EnvExportStyle      = "CRS_EXPORT_STYLE"
	EnvExportFormat     = "CRS_EXPORT_FORMAT"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "CRS_LOG_LEVEL"
	EnvLogFormat = "CRS_LOG_FORMAT"
	EnvLogSource = "CRS_LOG_SOURCE"
	EnvLogFile   = "CRS_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "CarouselStudio"
	keyringToken   = "backend_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CarouselStudio")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CarouselStudio")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "carouselstudio")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the backend token from keyring (not kept inside the struct; returned separately).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	// token from keyring
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into OS keyring (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if strings.TrimSpace(src.General.TemplatesDir) != "" {
		dst.General.TemplatesDir = strings.TrimSpace(src.General.TemplatesDir)
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.Autosave.Disabled = src.Autosave.Disabled
	if src.Autosave.IntervalMs != 0 {
		dst.Autosave.IntervalMs = src.Autosave.IntervalMs
	}
	if strings.TrimSpace(src.Export.Style) != "" {
		dst.Export.Style = strings.ToLower(strings.TrimSpace(src.Export.Style))
	}
	if strings.TrimSpace(src.Export.Format) != "" {
		dst.Export.Format = strings.ToLower(strings.TrimSpace(src.Export.Format))
	}
	dst.Backend.Enabled = src.Backend.Enabled
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	dst.Backend.TLSInsecure = src.Backend.TLSInsecure
	if strings.TrimSpace(src.Backend.DatabaseURL) != "" {
		dst.Backend.DatabaseURL = strings.TrimSpace(src.Backend.DatabaseURL)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTLSInsec)); v != "" {
		cfg.Backend.TLSInsecure = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendEnabled)); v != "" {
		cfg.Backend.Enabled = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendDSN)); v != "" {
		cfg.Backend.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTemplatesDir)); v != "" {
		cfg.General.TemplatesDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosaveInterval)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Autosave.IntervalMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportStyle)); v != "" {
		cfg.Export.Style = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFormat)); v != "" {
		cfg.Export.Format = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "backend.base_url":
		if os.Getenv(EnvBackendURL) != "" {
			return EnvBackendURL, true
		}
	case "backend.timeout_ms":
		if os.Getenv(EnvBackendTimeoutMs) != "" {
			return EnvBackendTimeoutMs, true
		}
	case "backend.tls_insecure":
		if os.Getenv(EnvBackendTLSInsec) != "" {
			return EnvBackendTLSInsec, true
		}
	case "backend.enabled":
		if os.Getenv(EnvBackendEnabled) != "" {
			return EnvBackendEnabled, true
		}
	case "backend.database_url":
		if os.Getenv(EnvBackendDSN) != "" {
			return EnvBackendDSN, true
		}
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "general.templates_dir":
		if os.Getenv(EnvTemplatesDir) != "" {
			return EnvTemplatesDir, true
		}
	case "autosave.interval_ms":
		if os.Getenv(EnvAutosaveInterval) != "" {
			return EnvAutosaveInterval, true
		}
	case "export.style":
		if os.Getenv(EnvExportStyle) != "" {
			return EnvExportStyle, true
		}
	case "export.format":
		if os.Getenv(EnvExportFormat) != "" {
			return EnvExportFormat, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
