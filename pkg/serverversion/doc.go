// Package serverversion holds the minimum proxy server versions required by
// optional rule parts, the semver range check used to apply them, and a
// small client that asks a running server for its version.
package serverversion
