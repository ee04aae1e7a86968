// Package cctoolgate is a pre-execution authorization gate for shell
// commands issued by an AI coding assistant: it parses a command, classifies
// every segment against a configurable policy, and emits allow, ask, or deny.
package cctoolgate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cctoolgate/cctoolgate/config"
	"github.com/cctoolgate/cctoolgate/decision"
	"github.com/cctoolgate/cctoolgate/decisionlog"
	"github.com/cctoolgate/cctoolgate/envelope"
	"github.com/cctoolgate/cctoolgate/evaluator"
	"github.com/cctoolgate/cctoolgate/registry"
	"github.com/cctoolgate/cctoolgate/specs"
)

// Config assembles a Gate. Every field is optional; zero values fall back to
// the well-known defaults.
type Config struct {
	// ConfigPath overrides the user policy overlay path (default: XDG path
	// or CC_TOOLGATE_CONFIG).
	ConfigPath string
	// LogPath overrides the decision log path (default: XDG state path).
	LogPath string
	// EscalateDeny downgrades Deny to Ask at the output boundary only.
	EscalateDeny bool
	// Logger receives diagnostic messages. If nil, a discard logger is used.
	Logger *slog.Logger
}

// Gate holds an immutable registry and the wiring to evaluate one command at
// a time.
type Gate struct {
	reg          *registry.Registry
	log          *decisionlog.Logger
	escalateDeny bool
	logger       *slog.Logger
	effective    config.Document
}

// New builds a Gate: loads the effective configuration (embedded default
// plus any user overlay), builds the registry, and wires the decision log.
func New(cfg Config) (*Gate, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	effective, err := config.Effective(configPath)
	if err != nil {
		// ConfigInvalid: log and continue on defaults, never abort startup.
		logger.Warn("falling back to embedded default policy", "error", err, "path", configPath)
		effective, err = config.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded default policy: %w", err)
		}
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}

	return &Gate{
		reg:          registry.Build(effective, specs.FSResolver{}),
		log:          decisionlog.New(logPath),
		escalateDeny: cfg.EscalateDeny,
		logger:       logger,
		effective:    effective,
	}, nil
}

// Evaluate classifies command and appends a decision log entry, swallowing
// any logging failure after a single stderr warning.
func (g *Gate) Evaluate(command string) (decision.Decision, decision.RuleMatch) {
	d, m := evaluator.Evaluate(command, g.reg, evaluator.Options{
		PathEnv:      os.Getenv("PATH"),
		EscalateDeny: g.escalateDeny,
	})
	if err := g.log.Append(command, d, m, time.Now()); err != nil {
		g.logger.Warn("failed to append decision log entry", "error", err)
	}
	return d, m
}

// EffectiveConfig returns the merged configuration document, for --dump-config.
func (g *Gate) EffectiveConfig() config.Document {
	return g.effective
}

// RunStdio reads one InputEnvelope from stdin, evaluates it, and writes one
// OutputEnvelope to stdout. ctx is honored via a deadline applied around the
// evaluation only — envelope I/O itself is not cancellable mid-read.
func RunStdio(ctx context.Context, cfg Config) error {
	gate, err := New(cfg)
	if err != nil {
		return err
	}

	in, err := envelope.ReadInput(os.Stdin)
	if err != nil {
		return err
	}

	if in.ToolName != "Bash" {
		return envelope.WriteOutput(os.Stdout, envelope.NotBash())
	}

	type result struct {
		d decision.Decision
		m decision.RuleMatch
	}
	resultCh := make(chan result, 1)
	go func() {
		d, m := gate.Evaluate(in.ToolInput.Command)
		resultCh <- result{d, m}
	}()

	var d decision.Decision
	var m decision.RuleMatch
	select {
	case r := <-resultCh:
		d, m = r.d, r.m
	case <-ctx.Done():
		d, m = decision.Ask, decision.RuleMatch{Kind: decision.KindRecursionLimit, Reason: "evaluation timed out"}
	}

	return envelope.WriteOutput(os.Stdout, envelope.OutputEnvelope{
		Permission: permissionString(d),
		Reason:     m.Reason,
	})
}

func permissionString(d decision.Decision) string {
	switch d {
	case decision.Allow:
		return envelope.PermissionAllow
	case decision.Deny:
		return envelope.PermissionDeny
	default:
		return envelope.PermissionAsk
	}
}
