/*
Package config loads and persists wordrank's TOML configuration.

A config file is never required and never fatal: a missing file is
created from defaults, an unreadable one is skipped, and a half-broken
one is salvaged section by section. Whatever cannot be read keeps its
builtin default, with a warning on stderr.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/Joshtray/wordrank/internal/utils"
	"github.com/charmbracelet/log"
)

// Config is the root of the TOML file.
type Config struct {
	Server ServerConfig `toml:"server"`
	Corpus CorpusConfig `toml:"corpus"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig bounds what the completion endpoints accept and return.
type ServerConfig struct {
	MaxLimit        int  `toml:"max_limit"`
	MinPrefix       int  `toml:"min_prefix"`
	MaxPrefix       int  `toml:"max_prefix"`
	EnableFilter    bool `toml:"enable_filter"`
	MinFrequency    int  `toml:"min_frequency"`
	HotCacheEntries int  `toml:"hot_cache_entries"`
}

// CorpusConfig names where the startup corpus comes from.
type CorpusConfig struct {
	File     string `toml:"file"`
	URL      string `toml:"url"`
	MaxWords int    `toml:"max_words"`
}

// CliConfig tunes the interactive prompt.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowCounts   bool `toml:"show_counts"`
}

// DefaultConfig returns the builtin defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:        64,
			MinPrefix:       1,
			MaxPrefix:       60,
			EnableFilter:    true,
			MinFrequency:    1,
			HotCacheEntries: 512,
		},
		Corpus: CorpusConfig{
			File:     "",
			URL:      "",
			MaxWords: 1000000,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
			ShowCounts:   true,
		},
	}
}

// GetConfigDir picks the first writable directory out of ~/.config/wordrank,
// the macOS application support dir, and the executable's own directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Resolving home directory: %v", err)
		return utils.GetExecutableDir()
	}
	candidates := []string{
		filepath.Join(home, ".config", "wordrank"),
		filepath.Join(home, "Library", "Application Support", "wordrank"),
	}
	for _, dir := range candidates {
		if utils.CheckDirStatus(dir).Writable {
			return dir, nil
		}
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath is GetConfigDir plus the config.toml filename.
func GetDefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfigWithPriority resolves the active config: an explicit path wins,
// then the default location, then builtin defaults. The returned string is
// the path actually used, empty when running on builtins.
func LoadConfigWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			cfg, loadErr := LoadConfig(customPath)
			if loadErr == nil {
				log.Debugf("Config: %s", customPath)
				return cfg, customPath, nil
			}
			log.Warnf("Unusable config at %s: %v. Trying the default path.", customPath, loadErr)
		} else {
			log.Warnf("No config file at %s. Trying the default path.", customPath)
		}
	}

	path, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("No writable config location (%v), running on builtin defaults", err)
		return DefaultConfig(), "", nil
	}
	cfg, err := InitConfig(path)
	if err != nil {
		log.Warnf("Config at %s unusable (%v), running on builtin defaults", path, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Config: %s", path)
	return cfg, path, nil
}

// InitConfig reads the config at path, writing a starter file first if
// none exists yet.
func InitConfig(path string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		log.Warnf("Cannot create config directory for %s: %v. Running on builtin defaults.", path, err)
		return DefaultConfig(), nil
	}
	if !utils.FileExists(path) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			log.Warnf("Cannot write starter config to %s: %v. Running on builtin defaults.", path, err)
		} else {
			log.Debugf("Wrote starter config to %s", path)
		}
		return cfg, nil
	}
	return LoadConfig(path)
}

// LoadConfig decodes a TOML file over the defaults. A typed decode failure
// degrades to salvage mode instead of aborting.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	err := utils.LoadTOMLFile(path, cfg)
	if err == nil {
		return cfg, nil
	}
	log.Warnf("Typed decode of %s failed: %v. Salvaging what parses.", path, err)
	return salvageConfig(path)
}

// salvageConfig re-reads the file as loose maps and applies every key that
// still has a usable value, leaving the rest at their defaults.
func salvageConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	loose, err := utils.ParseTOMLWithRecovery(path)
	if err != nil {
		log.Warnf("Nothing in %s parses: %v. Running on builtin defaults.", path, err)
		return cfg, nil
	}
	if sec, ok := utils.ExtractSection(loose, "server"); ok {
		applyInt(sec, "max_limit", &cfg.Server.MaxLimit)
		applyInt(sec, "min_prefix", &cfg.Server.MinPrefix)
		applyInt(sec, "max_prefix", &cfg.Server.MaxPrefix)
		applyBool(sec, "enable_filter", &cfg.Server.EnableFilter)
		applyInt(sec, "min_frequency", &cfg.Server.MinFrequency)
		applyInt(sec, "hot_cache_entries", &cfg.Server.HotCacheEntries)
	}
	if sec, ok := utils.ExtractSection(loose, "corpus"); ok {
		applyString(sec, "file", &cfg.Corpus.File)
		applyString(sec, "url", &cfg.Corpus.URL)
		applyInt(sec, "max_words", &cfg.Corpus.MaxWords)
	}
	if sec, ok := utils.ExtractSection(loose, "cli"); ok {
		applyInt(sec, "default_limit", &cfg.CLI.DefaultLimit)
		applyBool(sec, "show_counts", &cfg.CLI.ShowCounts)
	}
	return cfg, nil
}

func applyInt(data map[string]any, key string, dst *int) {
	if v, ok := utils.ExtractInt(data, key); ok {
		*dst = v
	}
}

func applyBool(data map[string]any, key string, dst *bool) {
	if v, ok := utils.ExtractBool(data, key); ok {
		*dst = v
	}
}

func applyString(data map[string]any, key string, dst *string) {
	if v, ok := utils.ExtractString(data, key); ok {
		*dst = v
	}
}

// GetActiveConfigPath reports the absolute path of the config in use.
func GetActiveConfigPath(path string) string {
	if path != "" {
		return utils.GetAbsolutePath(path)
	}
	if def, err := GetDefaultConfigPath(); err == nil {
		return def
	}
	return "unknown"
}

// SaveConfig writes the config back out as TOML.
func SaveConfig(cfg *Config, path string) error {
	return utils.SaveTOMLFile(cfg, path)
}

// Update overwrites the server settings that are non-nil and persists the
// result. Nil arguments leave their field alone.
func (c *Config) Update(path string, maxLimit, minPrefix, maxPrefix *int, enableFilter *bool, minFrequency *int) error {
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if minPrefix != nil {
		c.Server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		c.Server.MaxPrefix = *maxPrefix
	}
	if enableFilter != nil {
		c.Server.EnableFilter = *enableFilter
	}
	if minFrequency != nil {
		c.Server.MinFrequency = *minFrequency
	}
	return SaveConfig(c, path)
}
