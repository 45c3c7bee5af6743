package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oukeidos/codeglot/internal/logger"
)

// Config holds project-level settings for a translation run. Values come
// from a config file, with environment variables and CLI flags layered on
// top by the caller.
type Config struct {
	Include     []string `yaml:"include" toml:"include"`
	Exclude     []string `yaml:"exclude" toml:"exclude"`
	SourceLang  []string `yaml:"source_lang" toml:"source_lang"`
	TargetLang  string   `yaml:"target_lang" toml:"target_lang"`
	Translator  string   `yaml:"translator" toml:"translator"`
	Concurrency int      `yaml:"concurrency" toml:"concurrency"`
	DryRun      bool     `yaml:"dry_run" toml:"dry_run"`
	Backup      bool     `yaml:"backup" toml:"backup"`
}

const (
	DefaultTargetLang = "en"
	DefaultTranslator = "google"
)

// configFiles are probed in order by FindAndLoad. pyproject.toml is last
// because it only counts when it carries a [tool.codeglot] section.
var configFiles = []string{
	".codeglot.yml",
	".codeglot.yaml",
	"codeglot.toml",
	"pyproject.toml",
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		SourceLang: []string{"auto"},
		TargetLang: DefaultTargetLang,
		Translator: DefaultTranslator,
		Backup:     true,
	}
}

// LoadFile reads a single config file. The format is chosen by extension:
// .yml and .yaml parse as YAML, .toml as TOML.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config file format: %s", path)
	}
	return cfg, nil
}

// pyprojectFile mirrors the [tool.codeglot] table of a pyproject.toml.
type pyprojectFile struct {
	Tool struct {
		Codeglot *Config `toml:"codeglot"`
	} `toml:"tool"`
}

func loadPyproject(path string) (Config, error) {
	cfg := Default()
	var file pyprojectFile
	file.Tool.Codeglot = &cfg
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad probes dir for known config files and loads the first one
// found. When none exists it returns Default with no error.
func FindAndLoad(dir string) (Config, error) {
	for _, name := range configFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		logger.Debug("Loading config file", "path", path)
		if name == "pyproject.toml" {
			return loadPyproject(path)
		}
		return LoadFile(path)
	}
	return Default(), nil
}

// Merge overlays other on top of c, keeping c's value wherever other
// still holds the default.
func (c Config) Merge(other Config) Config {
	if len(other.Include) > 0 {
		c.Include = other.Include
	}
	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}
	if len(other.SourceLang) > 0 && !isAutoOnly(other.SourceLang) {
		c.SourceLang = other.SourceLang
	}
	if other.TargetLang != "" && other.TargetLang != DefaultTargetLang {
		c.TargetLang = other.TargetLang
	}
	if other.Translator != "" && other.Translator != DefaultTranslator {
		c.Translator = other.Translator
	}
	if other.Concurrency > 0 {
		c.Concurrency = other.Concurrency
	}
	if other.DryRun {
		c.DryRun = true
	}
	if !other.Backup {
		c.Backup = false
	}
	return c
}

func isAutoOnly(langs []string) bool {
	return len(langs) == 1 && langs[0] == "auto"
}

// LoadEnv reads a .env file when present and applies CODEGLOT_* overrides.
func LoadEnv(cfg Config) Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}
	cfg.TargetLang = getEnv("CODEGLOT_TARGET_LANG", cfg.TargetLang)
	cfg.Translator = getEnv("CODEGLOT_TRANSLATOR", cfg.Translator)
	cfg.Concurrency = getEnvInt("CODEGLOT_CONCURRENCY", cfg.Concurrency)
	cfg.DryRun = getEnvBool("CODEGLOT_DRY_RUN", cfg.DryRun)
	cfg.Backup = getEnvBool("CODEGLOT_BACKUP", cfg.Backup)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
