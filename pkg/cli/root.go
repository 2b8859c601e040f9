package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getmockd/mockrules/pkg/cliconfig"
	"github.com/getmockd/mockrules/pkg/config"
	"github.com/getmockd/mockrules/pkg/logging"
	"github.com/getmockd/mockrules/pkg/rules"
	"github.com/getmockd/mockrules/pkg/serverversion"
	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// ErrNoRuleFiles is returned when a command needs rule files and none
// were given by flag or configuration.
var ErrNoRuleFiles = errors.New("no rule files given: use -f or set ruleFiles in the config")

// app holds the state shared by every command of one invocation.
type app struct {
	// Persistent flags
	configPath    string
	serverURL     string
	serverVersion string
	discover      bool
	logLevel      string
	logFormat     string
	jsonOutput    bool

	cfg     *cliconfig.CLIConfig
	log     *slog.Logger
	catalog *rules.Catalog
}

// NewRootCmd builds the mockrules command tree.
func NewRootCmd() *cobra.Command {
	a := &app{catalog: rules.Default, log: logging.Nop()}

	rootCmd := &cobra.Command{
		Use:   "mockrules",
		Short: "mockrules inspects and validates interception rules for an HTTP/WebSocket proxy",
		Long: `mockrules lists the rule parts a proxy server supports, validates rule files
against the server's version, and shows which rule would handle a request.

Configuration can be provided via flags, MOCKRULES_* environment variables,
a local .mockrulesrc.yaml, or the global config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true, // We handle errors in Execute()
		PersistentPreRunE: a.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (replaces .mockrulesrc.yaml and the global config)")
	pf.StringVar(&a.serverURL, "server-url", "", "Proxy server API URL (default "+cliconfig.DefaultServerURL+")")
	pf.StringVar(&a.serverVersion, "server-version", "", "Server version to check rules against")
	pf.BoolVar(&a.discover, "discover", false, "Ask the server at --server-url for its version")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&a.jsonOutput, "json", false, "Output command results in JSON format")

	rootCmd.AddCommand(
		a.newMatchersCmd(),
		a.newHandlersCmd(),
		a.newValidateCmd(),
		a.newMatchCmd(),
		a.newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup resolves the configuration and logger before any command runs.
// Precedence: flags > env > local config > global config > defaults.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *cliconfig.CLIConfig
		err error
	)
	if a.configPath != "" {
		cfg, err = cliconfig.LoadFrom(a.configPath)
	} else {
		cfg, err = cliconfig.LoadAll()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := &cliconfig.CLIConfig{SetFields: make(map[string]bool)}
	changed := cmd.Flags().Changed
	if changed("server-url") {
		flags.ServerURL = a.serverURL
		flags.SetFields[cliconfig.KeyServerURL] = true
	}
	if changed("server-version") {
		flags.ServerVersion = a.serverVersion
		flags.SetFields[cliconfig.KeyServerVersion] = true
	}
	if changed("log-level") {
		flags.LogLevel = a.logLevel
	}
	if changed("log-format") {
		flags.LogFormat = a.logFormat
	}
	if changed("json") {
		flags.JSON = a.jsonOutput
		flags.SetFields[cliconfig.KeyJSON] = true
	}
	cliconfig.MergeConfig(cfg, flags, cliconfig.SourceFlag)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	a.log.Debug("configuration resolved", "sources", cfg.Sources)
	return nil
}

func (a *app) timeout() time.Duration {
	if a.cfg.Timeout <= 0 {
		return cliconfig.DefaultTimeout * time.Second
	}
	return time.Duration(a.cfg.Timeout) * time.Second
}

// effectiveServerVersion returns the configured server version or, with
// --discover, the version reported by the server. An empty result means
// the version is unknown and every rule part is allowed.
func (a *app) effectiveServerVersion(ctx context.Context) (string, error) {
	if a.cfg.ServerVersion != "" {
		return a.cfg.ServerVersion, nil
	}
	if !a.discover {
		return "", nil
	}
	if a.cfg.ServerURL == "" {
		return "", errors.New("--discover needs a server URL")
	}
	return a.discoverVersion(ctx)
}

func (a *app) discoverVersion(ctx context.Context) (string, error) {
	client := serverversion.New(a.cfg.ServerURL,
		serverversion.WithTimeout(a.timeout()),
		serverversion.WithLogger(a.log),
	)
	v, err := client.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("discovering server version at %s: %w", a.cfg.ServerURL, err)
	}
	return v, nil
}

// loadRules loads the rule files named by flag, falling back to the
// configured ones.
func (a *app) loadRules(files []string) (*config.Loader, *config.Result, error) {
	if len(files) == 0 {
		files = a.cfg.RuleFiles
	}
	if len(files) == 0 {
		return nil, nil, ErrNoRuleFiles
	}

	loader := config.NewLoader(config.WithCatalog(a.catalog), config.WithLogger(a.log))
	res, err := loader.LoadFiles(files...)
	if err != nil {
		return nil, nil, err
	}
	return loader, res, nil
}
