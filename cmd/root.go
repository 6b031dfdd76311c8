// Package cmd wires up the CLI flags and dispatches to the repl core.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"replsock/config"
	"replsock/interp"
	"replsock/repl"
	"replsock/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X replsock/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs replsock as either a server (-l) or a
// client connecting to an existing server socket.
func Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replsock", flag.ContinueOnError)

	// ── mode ─────────────────────────────────────────────────────
	var listen bool
	fs.BoolVarP(&listen, "listen", "l", false, "Serve the interpreter (default: connect)")

	// ── socket / identity ────────────────────────────────────────
	var socketPath, serverName string
	fs.StringVarP(&socketPath, "socket", "s", "", "Unix socket path")
	fs.StringVar(&serverName, "name", "", "Server name used in prompts and the default socket path")

	// ── behaviour ────────────────────────────────────────────────
	var logCommands, dryRun bool
	fs.BoolVar(&logCommands, "log-commands", false, "Log every submission before and after eval")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate the configuration and exit")

	// ── config sources ───────────────────────────────────────────
	var configFile string
	fs.StringVar(&configFile, "config", "", "YAML config file")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	var timestamps bool
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&timestamps, "timestamps", false, "Timestamp log lines")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("replsock %s\n", version)
		return nil
	}

	// ── layer the config: defaults < file < env < flags ──────────
	cfg := config.Default()
	if configFile == "" {
		configFile = os.Getenv("REPLSOCK_CONFIG")
	}
	if err := config.LoadFile(&cfg, configFile); err != nil {
		return err
	}
	config.LoadFromEnv(&cfg)

	if fs.Changed("socket") {
		cfg.SocketPath = socketPath
	}
	if fs.Changed("name") {
		cfg.ServerName = serverName
	}
	if fs.Changed("log-commands") {
		cfg.LogCommands = logCommands
	}
	if fs.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if fs.Changed("timestamps") {
		cfg.Timestamps = timestamps
	}
	cfg.Listen = listen

	// ── positional argument: socket path ─────────────────────────
	switch rest := fs.Args(); len(rest) {
	case 0:
		if !cfg.Listen && cfg.SocketPath == "" {
			return fmt.Errorf("socket path required (hint: replsock /path/to/socket, or -l to serve)")
		}
	case 1:
		cfg.SocketPath = rest[0]
	default:
		return fmt.Errorf("too many arguments")
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	logger.SetPrefix(cfg.ServerName)
	logger.SetTimestamps(cfg.Timestamps)

	if cfg.Listen {
		srv := repl.New(&cfg, func() interp.Interpreter { return interp.New() }, logger)
		return srv.Run(ctx)
	}
	return repl.Connect(ctx, cfg.EffectiveSocketPath(), os.Stdin, os.Stdout, logger)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `replsock - interpreter access over a Unix domain socket v%s

Serves an embedded command interpreter on a local socket, secured by
file permissions and OS peer credentials.

Usage:
  replsock -l [-s <path>] [options]           Serve
  replsock <path> [options]                   Connect

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  replsock -l -s /var/run/app.repl            Serve on an explicit socket
  replsock -l -v --log-commands               Serve on the default socket, chatty
  replsock /var/run/app.repl                  Interactive client (end with ^D)
  echo "1+1" | replsock /var/run/app.repl     One-shot evaluation
`)
}
