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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in"`
}

type GeneratorConfig struct {
	Target               string `yaml:"target"` // "customtkinter" | "tkinter"
	CustomTkinterVersion string `yaml:"customtkinter_version"`
	PillowVersion        string `yaml:"pillow_version"`
	FetchRemoteImages    bool   `yaml:"fetch_remote_images"`
	FetchTimeoutMs       int    `yaml:"fetch_timeout_ms"`
	MaxImageBytes        int64  `yaml:"max_image_bytes"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ExportConfig struct {
	// HistoryDir holds .buildify/history.sqlite; empty means the design file's directory.
	HistoryDir string `yaml:"history_dir"`
	// S3 settings for s3:// destinations. Credentials come from the AWS default chain.
	S3Region   string `yaml:"s3_region"`
	S3Endpoint string `yaml:"s3_endpoint"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	General       GeneralConfig   `yaml:"general"`
	Generator     GeneratorConfig `yaml:"generator"`
	Server        ServerConfig    `yaml:"server"`
	Export        ExportConfig    `yaml:"export"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Built-in dependency pins for the generated requirements.txt.
const (
	DefaultCustomTkinterVersion = "5.2.2"
	DefaultPillowVersion        = "10.0.0"
)

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false},
		Generator: GeneratorConfig{
			Target:               "customtkinter",
			CustomTkinterVersion: DefaultCustomTkinterVersion,
			PillowVersion:        DefaultPillowVersion,
			FetchRemoteImages:    false,
			FetchTimeoutMs:       10000,
			MaxImageBytes:        10 << 20,
		},
		Server:  ServerConfig{Addr: "127.0.0.1:8080"},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn  = "BUILDIFY_TELEMETRY_OPT_IN"
	EnvTarget          = "BUILDIFY_TARGET"
	EnvCustomTkVersion = "BUILDIFY_CUSTOMTKINTER_VERSION"
	EnvPillowVersion   = "BUILDIFY_PILLOW_VERSION"
	EnvFetchRemote     = "BUILDIFY_FETCH_REMOTE_IMAGES"
	EnvFetchTimeoutMs  = "BUILDIFY_FETCH_TIMEOUT_MS"
	EnvServerAddr      = "BUILDIFY_ADDR"
	EnvHistoryDir      = "BUILDIFY_HISTORY_DIR"
	EnvS3Region        = "BUILDIFY_S3_REGION"
	EnvS3Endpoint      = "BUILDIFY_S3_ENDPOINT"
	EnvConfigPath      = "BUILDIFY_CONFIG"
	EnvLogLevel        = "BUILDIFY_LOG_LEVEL"
	EnvLogFormat       = "BUILDIFY_LOG_FORMAT"
	EnvLogSource       = "BUILDIFY_LOG_SOURCE"
	EnvLogFile         = "BUILDIFY_LOG_FILE"
)

// ConfigPath returns the per-user config file path. BUILDIFY_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Buildify")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Buildify")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "buildify")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A malformed file is reported but the defaults are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	var fileErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			fileErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, fileErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
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
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if v := strings.ToLower(strings.TrimSpace(src.Generator.Target)); v != "" {
		dst.Generator.Target = v
	}
	if v := strings.TrimSpace(src.Generator.CustomTkinterVersion); v != "" {
		dst.Generator.CustomTkinterVersion = v
	}
	if v := strings.TrimSpace(src.Generator.PillowVersion); v != "" {
		dst.Generator.PillowVersion = v
	}
	dst.Generator.FetchRemoteImages = src.Generator.FetchRemoteImages
	if src.Generator.FetchTimeoutMs > 0 {
		dst.Generator.FetchTimeoutMs = src.Generator.FetchTimeoutMs
	}
	if src.Generator.MaxImageBytes > 0 {
		dst.Generator.MaxImageBytes = src.Generator.MaxImageBytes
	}
	if v := strings.TrimSpace(src.Server.Addr); v != "" {
		dst.Server.Addr = v
	}
	if v := strings.TrimSpace(src.Export.HistoryDir); v != "" {
		dst.Export.HistoryDir = v
	}
	if v := strings.TrimSpace(src.Export.S3Region); v != "" {
		dst.Export.S3Region = v
	}
	if v := strings.TrimSpace(src.Export.S3Endpoint); v != "" {
		dst.Export.S3Endpoint = v
	}
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

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTarget)); v != "" {
		cfg.Generator.Target = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCustomTkVersion)); v != "" {
		cfg.Generator.CustomTkinterVersion = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPillowVersion)); v != "" {
		cfg.Generator.PillowVersion = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFetchRemote)); v != "" {
		cfg.Generator.FetchRemoteImages = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFetchTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Generator.FetchTimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDir)); v != "" {
		cfg.Export.HistoryDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvS3Region)); v != "" {
		cfg.Export.S3Region = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvS3Endpoint)); v != "" {
		cfg.Export.S3Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"general.telemetry_opt_in":        EnvTelemetryOptIn,
		"generator.target":                EnvTarget,
		"generator.customtkinter_version": EnvCustomTkVersion,
		"generator.pillow_version":        EnvPillowVersion,
		"generator.fetch_remote_images":   EnvFetchRemote,
		"generator.fetch_timeout_ms":      EnvFetchTimeoutMs,
		"server.addr":                     EnvServerAddr,
		"export.history_dir":              EnvHistoryDir,
		"export.s3_region":                EnvS3Region,
		"export.s3_endpoint":              EnvS3Endpoint,
		"logging.level":                   EnvLogLevel,
		"logging.format":                  EnvLogFormat,
		"logging.source":                  EnvLogSource,
		"logging.file":                    EnvLogFile,
	}
	env, ok := names[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// FetchTimeout returns the remote image fetch timeout.
func (g GeneratorConfig) FetchTimeout() time.Duration {
	if g.FetchTimeoutMs <= 0 {
		return time.Duration(Defaults().Generator.FetchTimeoutMs) * time.Millisecond
	}
	return time.Duration(g.FetchTimeoutMs) * time.Millisecond
}

// Pins returns the customtkinter and Pillow versions to pin in requirements.txt.
// Values that are not valid semantic versions fall back to the built-in pins;
// the returned warnings name each rejected value.
func (g GeneratorConfig) Pins() (ctk, pillow string, warnings []string) {
	ctk, w1 := pin(g.CustomTkinterVersion, DefaultCustomTkinterVersion, "customtkinter_version")
	pillow, w2 := pin(g.PillowVersion, DefaultPillowVersion, "pillow_version")
	for _, w := range []string{w1, w2} {
		if w != "" {
			warnings = append(warnings, w)
		}
	}
	return ctk, pillow, warnings
}

func pin(v, def, field string) (string, string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, ""
	}
	sv, err := semver.StrictNewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return def, fmt.Sprintf("%s %q is not a semantic version; using %s", field, v, def)
	}
	return sv.String(), ""
}
