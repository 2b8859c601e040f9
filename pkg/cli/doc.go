// Package cli provides the command-line interface for mockrules.
//
// The cli package implements the mockrules commands:
//   - matchers: List the matchers a rule can add, or with --initial the ones it can start with
//   - handlers: List the handlers a rule can use, marking paid ones
//   - validate: Validate rule files against the catalog and a server version
//   - match: Show which rule would handle a given request
//   - version: Show build information and the proxy server version
//
// Global flags:
//   - --config: Use one config file instead of the local and global ones
//   - --server-url: Proxy server API URL
//   - --server-version: Server version to filter parts and check rules against
//   - --discover: Ask the server for its version when none is configured
//   - --log-level, --log-format: Diagnostics written to stderr
//   - --json: Machine-readable output
//
// Settings resolve in the order flags > MOCKRULES_* environment variables >
// .mockrulesrc.yaml > global config file > defaults.
package cli
