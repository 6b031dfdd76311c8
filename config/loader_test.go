package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadFromEnv verifies the REPLSOCK_* overlay.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REPLSOCK_SERVER", "envsrv")
	t.Setenv("REPLSOCK_SOCKET", "/tmp/env.sock")
	t.Setenv("REPLSOCK_LOG_COMMANDS", "yes")
	t.Setenv("REPLSOCK_VERBOSE", "2")
	t.Setenv("REPLSOCK_TIMESTAMPS", "1")

	cfg := Default()
	LoadFromEnv(&cfg)

	if cfg.ServerName != "envsrv" {
		t.Errorf("ServerName = %q", cfg.ServerName)
	}
	if cfg.SocketPath != "/tmp/env.sock" {
		t.Errorf("SocketPath = %q", cfg.SocketPath)
	}
	if !cfg.LogCommands {
		t.Error("LogCommands not set")
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d", cfg.Verbose)
	}
	if !cfg.Timestamps {
		t.Error("Timestamps not set")
	}
}

// TestLoadFromEnv_Empty verifies unset env vars leave values alone.
func TestLoadFromEnv_Empty(t *testing.T) {
	t.Setenv("REPLSOCK_SERVER", "")
	t.Setenv("REPLSOCK_LOG_COMMANDS", "")

	cfg := Default()
	cfg.SocketPath = "/keep/me"
	LoadFromEnv(&cfg)

	if cfg.ServerName != DefaultServerName {
		t.Errorf("ServerName = %q", cfg.ServerName)
	}
	if cfg.SocketPath != "/keep/me" {
		t.Errorf("SocketPath = %q", cfg.SocketPath)
	}
	if cfg.LogCommands {
		t.Error("LogCommands should stay off")
	}
}

// TestLoadFile verifies YAML config loading.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.yaml")
	data := "server: filesrv\nsocket: /tmp/file.sock\nlogCommands: true\nverbose: 1\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatal(err)
	}
	if cfg.ServerName != "filesrv" || cfg.SocketPath != "/tmp/file.sock" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.LogCommands || cfg.Verbose != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
}

// TestLoadFile_Missing verifies a missing file is not an error.
func TestLoadFile_Missing(t *testing.T) {
	cfg := Default()
	if err := LoadFile(&cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.ServerName != DefaultServerName {
		t.Errorf("cfg mutated: %+v", cfg)
	}
}

// TestLoadFile_Invalid verifies malformed YAML is reported.
func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n\t:::"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := LoadFile(&cfg, path); err == nil {
		t.Fatal("expected parse error")
	}
}

// TestPrecedence_EnvOverFile verifies env overlays beat file values.
func TestPrecedence_EnvOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repl.yaml")
	if err := os.WriteFile(path, []byte("server: filesrv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REPLSOCK_SERVER", "envsrv")

	cfg := Default()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatal(err)
	}
	LoadFromEnv(&cfg)

	if cfg.ServerName != "envsrv" {
		t.Errorf("ServerName = %q, env should win over file", cfg.ServerName)
	}
}
