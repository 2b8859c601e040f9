package cliconfig

// DefaultServerURL is the default proxy server API URL.
const DefaultServerURL = "http://127.0.0.1:45456"

// DefaultTimeout is the default server request timeout in seconds.
const DefaultTimeout = 5

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the default log format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		ServerURL: DefaultServerURL,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources:   make(map[string]string),
	}

	for _, key := range []string{KeyServerURL, KeyTimeout, KeyLogLevel, KeyLogFormat, KeyJSON} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
