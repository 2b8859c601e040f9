package cliconfig

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvServerURL     = "MOCKRULES_SERVER_URL"
	EnvServerVersion = "MOCKRULES_SERVER_VERSION"
	EnvTimeout       = "MOCKRULES_TIMEOUT"
	EnvRules         = "MOCKRULES_RULES"
	EnvLogLevel      = "MOCKRULES_LOG_LEVEL"
	EnvLogFormat     = "MOCKRULES_LOG_FORMAT"
	EnvJSON          = "MOCKRULES_JSON"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment. Values that
// do not parse are ignored.
func LoadEnvConfig(cfg *CLIConfig) {
	MergeConfig(cfg, envConfig(), SourceEnv)
}

func envConfig() *CLIConfig {
	cfg := &CLIConfig{SetFields: make(map[string]bool)}

	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvServerVersion); v != "" {
		cfg.ServerVersion = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	// MOCKRULES_RULES is a comma-separated list of files or patterns.
	if v := os.Getenv(EnvRules); v != "" {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.RuleFiles = append(cfg.RuleFiles, p)
			}
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvJSON); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.JSON = b
			cfg.SetFields[KeyJSON] = true
		}
	}
	return cfg
}
