// Package config defines the runtime configuration for replsock and
// provides defaults, environment overlays, and config-file loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds every tuneable for one replsock invocation.  The yaml
// tags match the optional config file read by LoadFile.
type Config struct {
	// ── Identity ─────────────────────────────────────────────────────
	ServerName string `yaml:"server"` // embedded in generated prompts and log lines

	// ── Socket ───────────────────────────────────────────────────────
	SocketPath string `yaml:"socket"` // unix socket path; derived from ServerName when empty

	// ── Behaviour ────────────────────────────────────────────────────
	LogCommands bool `yaml:"logCommands"` // log each submission before and after eval
	Listen      bool `yaml:"-"`           // serve (true) or connect as a client (false)

	// ── Output ───────────────────────────────────────────────────────
	Verbose    int  `yaml:"verbose"`
	Timestamps bool `yaml:"timestamps"`
}

// EffectiveSocketPath returns the configured socket path, or the
// conventional "<runtime-dir>/<server>.repl" when none was given.
func (c *Config) EffectiveSocketPath() string {
	if c.SocketPath != "" {
		return c.SocketPath
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, c.ServerName+SocketSuffix)
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerName) == "" {
		return fmt.Errorf("server name must not be empty (hint: drop --name to use the default)")
	}
	if strings.ContainsAny(c.ServerName, " \t\n/") {
		return fmt.Errorf("server name %q must not contain whitespace or '/'", c.ServerName)
	}
	path := c.EffectiveSocketPath()
	if len(path) > MaxSocketPath {
		return fmt.Errorf("socket path %q is %d bytes, max is %d (hint: use a shorter --socket path)",
			path, len(path), MaxSocketPath)
	}
	if c.Verbose < 0 {
		return fmt.Errorf("verbosity must not be negative")
	}
	return nil
}
