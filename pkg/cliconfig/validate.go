package cliconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/mockrules/pkg/serverversion"
)

// MaxTimeout is the largest accepted timeout in seconds.
const MaxTimeout = 300

// Validate checks the configuration values and returns every problem found.
func (c *CLIConfig) Validate() error {
	var errs []error

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("serverUrl %q must be an http or https URL", c.ServerURL))
		}
	}
	if c.ServerVersion != "" && !serverversion.Valid(c.ServerVersion) {
		errs = append(errs, fmt.Errorf("serverVersion %q is not a semantic version", c.ServerVersion))
	}
	if c.Timeout < 0 || c.Timeout > MaxTimeout {
		errs = append(errs, fmt.Errorf("timeout %d is out of range (0-%d)", c.Timeout, MaxTimeout))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logLevel %q must be one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logFormat %q must be text or json", c.LogFormat))
	}

	return errors.Join(errs...)
}
