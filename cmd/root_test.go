package cmd

import (
	"context"
	"strings"
	"testing"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	err := Execute(context.Background(), []string{"--version"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_Help verifies --help (and no args) returns without error.
func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {}} {
		name := "no-args"
		if len(args) > 0 {
			name = args[0]
		}
		t.Run(name, func(t *testing.T) {
			err := Execute(context.Background(), args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	err := Execute(context.Background(), []string{"-l", "--dry-run"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad
// configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	err := Execute(context.Background(), []string{
		"-l", "--name", "bad name", "--dry-run",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "must not contain") {
		t.Errorf("error should mention the bad name: %v", err)
	}
}

// TestExecute_ConnectNeedsPath verifies client mode demands a socket.
func TestExecute_ConnectNeedsPath(t *testing.T) {
	err := Execute(context.Background(), []string{"-v"})
	if err == nil {
		t.Fatal("expected missing-path error")
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error should carry a hint: %v", err)
	}
}

// TestExecute_PositionalSocket verifies the positional path reaches
// the config.
func TestExecute_PositionalSocket(t *testing.T) {
	err := Execute(context.Background(), []string{
		"-l", "--dry-run", "/tmp/pos.sock",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecute_TooManyArgs verifies surplus positionals are rejected.
func TestExecute_TooManyArgs(t *testing.T) {
	err := Execute(context.Background(), []string{"-l", "a", "b"})
	if err == nil {
		t.Fatal("expected error for extra arguments")
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	err := Execute(context.Background(), []string{"--nonexistent-flag"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

// TestExecute_EnvOverlay verifies REPLSOCK_* values reach validation.
func TestExecute_EnvOverlay(t *testing.T) {
	t.Setenv("REPLSOCK_SERVER", "bad name")
	err := Execute(context.Background(), []string{"-l", "--dry-run"})
	if err == nil {
		t.Fatal("expected validation error from env server name")
	}
}

// TestExecute_FlagBeatsEnv verifies flags override the environment.
func TestExecute_FlagBeatsEnv(t *testing.T) {
	t.Setenv("REPLSOCK_SERVER", "bad name")
	err := Execute(context.Background(), []string{
		"-l", "--name", "good", "--dry-run",
	})
	if err != nil {
		t.Fatalf("flag should have overridden the env name: %v", err)
	}
}
