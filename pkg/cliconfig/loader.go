package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "mockrules"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".mockrulesrc.yaml", ".mockrulesrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .mockrulesrc.yaml or .mockrulesrc.yml in the
// current directory. Returns empty string if not found.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findFirst(cwd, LocalConfigFileNames), nil
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	return findFirst(filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames), nil
}

func findFirst(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a CLIConfig from a YAML file. Keys present in the
// file are recorded in SetFields.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	cfg.SetFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.SetFields[k] = true
	}
	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

// LoadAll loads configuration from all sources except flags and merges
// them. Precedence: env > local config > global config > defaults. A
// config file that exists but cannot be parsed is an error.
func LoadAll() (*CLIConfig, error) {
	cfg := NewDefault()

	globalPath, err := FindGlobalConfig()
	if err != nil {
		return nil, err
	}
	localPath, err := FindLocalConfig()
	if err != nil {
		return nil, err
	}

	for _, f := range []struct{ path, source string }{
		{globalPath, SourceGlobal},
		{localPath, SourceLocal},
	} {
		if f.path == "" {
			continue
		}
		fileCfg, err := LoadConfigFile(f.path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, fileCfg, f.source)
	}

	LoadEnvConfig(cfg)
	return cfg, nil
}

// LoadFrom loads the defaults, the given config file and the environment.
// It replaces the local and global config files when --config is given.
func LoadFrom(path string) (*CLIConfig, error) {
	cfg := NewDefault()
	fileCfg, err := LoadConfigFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Path: path, Message: "config file not found"}
		}
		return nil, err
	}
	MergeConfig(cfg, fileCfg, SourceLocal)
	LoadEnvConfig(cfg)
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *CLIConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
