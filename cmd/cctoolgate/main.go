// Command cctoolgate runs the authorization gate as a single-shot stdio
// filter: one JSON envelope in, one JSON envelope out, per invocation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"

	cctoolgate "github.com/cctoolgate/cctoolgate"
	"github.com/cctoolgate/cctoolgate/config"
)

var version = "dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, os.Args[1:]); err != nil {
		logger.Error("cctoolgate failed", "error", err)
		os.Exit(2)
	}
}

func run(ctx context.Context, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("cctoolgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		dumpConfig   string
		escalateDeny bool
		configPath   string
		timeout      time.Duration
		showHelp     bool
		showVersion  bool
	)
	fs.StringVar(&dumpConfig, "dump-config", "", "print the merged effective configuration (toml|json) and exit")
	fs.BoolVar(&escalateDeny, "escalate-deny", false, "downgrade deny decisions to ask at output")
	fs.StringVar(&configPath, "config", "", "path to the user policy overlay (default: XDG config path)")
	fs.DurationVar(&timeout, "timeout", 5*time.Second, "wall-clock budget for evaluating one command")
	fs.BoolVar(&showHelp, "help", false, "show this help")
	fs.BoolVar(&showVersion, "version", false, "show version")

	if err := fs.Parse(args); err != nil {
		printHelp(os.Stderr)
		return err
	}

	switch {
	case showHelp:
		printHelp(os.Stdout)
		return nil
	case showVersion:
		fmt.Printf("cctoolgate %s\n", version)
		return nil
	}

	cfg := cctoolgate.Config{
		ConfigPath:   configPath,
		EscalateDeny: escalateDeny,
		Logger:       logger,
	}

	if dumpConfig != "" {
		return runDumpConfig(cfg, dumpConfig)
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return cctoolgate.RunStdio(evalCtx, cfg)
}

func runDumpConfig(cfg cctoolgate.Config, format string) error {
	gate, err := cctoolgate.New(cfg)
	if err != nil {
		return err
	}
	effective := gate.EffectiveConfig()

	switch format {
	case "toml":
		enc := toml.NewEncoder(os.Stdout)
		return enc.Encode(effective)
	case "json":
		return dumpConfigJSON(os.Stdout, effective)
	default:
		return fmt.Errorf("unknown --dump-config format %q (want toml or json)", format)
	}
}

func dumpConfigJSON(w io.Writer, doc config.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "cctoolgate - pre-execution authorization gate for shell commands")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cctoolgate                       Evaluate one command read from stdin as a JSON envelope")
	fmt.Fprintln(w, "  cctoolgate --dump-config toml     Print the merged effective policy and exit")
	fmt.Fprintln(w, "  cctoolgate --escalate-deny        Downgrade deny decisions to ask at output")
	fmt.Fprintln(w, "  cctoolgate --config PATH          Use PATH as the user policy overlay")
	fmt.Fprintln(w, "  cctoolgate --timeout DURATION     Wall-clock budget for one evaluation (default 5s)")
	fmt.Fprintln(w, "  cctoolgate --help                 Show this help")
	fmt.Fprintln(w, "  cctoolgate --version              Show version")
}
