// Package cliconfig provides configuration types and loading for the mockrules CLI.
package cliconfig

// CLIConfig represents the complete configuration for the mockrules CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.mockrulesrc.yaml in current directory)
// 4. Global config file (<user config dir>/mockrules/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Proxy server settings
	ServerURL     string `yaml:"serverUrl" json:"serverUrl"`
	ServerVersion string `yaml:"serverVersion,omitempty" json:"serverVersion,omitempty"`
	Timeout       int    `yaml:"timeout" json:"timeout"`

	// RuleFiles are the rule files or glob patterns commands load by default.
	RuleFiles []string `yaml:"ruleFiles,omitempty" json:"ruleFiles,omitempty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys were explicitly present in the source,
	// so that an explicit false or empty value can override.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Config keys, as used in YAML files and Sources.
const (
	KeyServerURL     = "serverUrl"
	KeyServerVersion = "serverVersion"
	KeyTimeout       = "timeout"
	KeyRuleFiles     = "ruleFiles"
	KeyLogLevel      = "logLevel"
	KeyLogFormat     = "logFormat"
	KeyJSON          = "json"
)
