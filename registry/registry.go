// Package registry builds the frozen, immutable-after-construction lookup
// structure the evaluator consults: the flat command tables, the
// subcommand-aware tool specs, and the wrapper floor table.
package registry

import (
	"strings"

	"github.com/cctoolgate/cctoolgate/config"
	"github.com/cctoolgate/cctoolgate/decision"
	"github.com/cctoolgate/cctoolgate/parser"
	"github.com/cctoolgate/cctoolgate/specs"
)

// WrapperEntry describes one wrapper command: the minimum decision it
// imposes regardless of payload, and how to strip its own flags to find the
// inner command.
type WrapperEntry struct {
	Floor decision.Decision
	Skip  specs.WrapperSkipper
}

// Registry is immutable once Build returns; every CommandSpec it holds must
// be safe for concurrent reads.
type Registry struct {
	simple     *specs.SimpleSpec
	denyAlways *specs.DenyAlwaysSpec
	subcommand map[string]specs.CommandSpec
	wrappers   map[string]WrapperEntry
}

// Build merges nothing further — cfg is expected to already be the effective
// (default + overlay) document — and constructs the specs and tables the
// evaluator will query. resolver performs the filesystem-dependent half of
// path lookup; pass specs.FSResolver{} in production and a fake in tests.
func Build(cfg config.Document, resolver specs.PathResolver) *Registry {
	simple := specs.NewSimpleSpec(resolver)
	populateCommandTables(simple, cfg.Commands)

	subcommand := map[string]specs.CommandSpec{
		"git":     specs.NewGitSpec(cfg.Git.ReadOnly, cfg.Git.Mutating, cfg.Git.AllowedWithConfig, cfg.Git.ConfigEnvVar, cfg.Git.ForcePushFlags),
		"cargo":   specs.NewCargoSpec(cfg.Cargo.ReadOnly, cfg.Cargo.Mutating),
		"kubectl": specs.NewKubectlSpec(cfg.Kubectl.ReadOnly, cfg.Kubectl.Mutating),
		"gh":      specs.NewGhSpec(cfg.Gh.ReadOnly, cfg.Gh.Mutating, cfg.Gh.AllowedWithConfig, cfg.Gh.ConfigEnvVar),
	}

	return &Registry{
		simple:     simple,
		denyAlways: specs.NewDenyAlwaysSpec(),
		subcommand: subcommand,
		wrappers:   buildWrapperTable(cfg.Wrappers),
	}
}

func populateCommandTables(simple *specs.SimpleSpec, cmds config.CommandsSection) {
	assign := func(names []string, pathTable, baseTable map[string]bool) {
		for _, name := range names {
			if strings.ContainsRune(name, '/') {
				pathTable[name] = true
			} else {
				baseTable[name] = true
			}
		}
	}
	// Each list fills its own table. A name listed under deny and also under
	// allow or ask still resolves to Deny, because SimpleSpec checks the deny
	// table first within each level.
	assign(cmds.Deny, simple.PathDeny, simple.BasenameDeny)
	assign(cmds.Allow, simple.PathAllow, simple.BasenameAllow)
	assign(cmds.Ask, simple.PathAsk, simple.BasenameAsk)
}

func buildWrapperTable(cfg config.WrappersSection) map[string]WrapperEntry {
	skippers := specs.BuiltinWrapperSkippers()
	table := make(map[string]WrapperEntry)

	add := func(names []string, floor decision.Decision) {
		for _, name := range names {
			skip := skippers[name]
			if skip == nil {
				skip = func(args []string) []string { return args }
			}
			if existing, ok := table[name]; ok {
				table[name] = WrapperEntry{Floor: decision.Max(existing.Floor, floor), Skip: skip}
				continue
			}
			table[name] = WrapperEntry{Floor: floor, Skip: skip}
		}
	}
	add(cfg.AllowFloor, decision.Allow)
	add(cfg.AskFloor, decision.Ask)
	return table
}

// Wrapper reports whether base names a configured wrapper command.
func (r *Registry) Wrapper(base string) (WrapperEntry, bool) {
	entry, ok := r.wrappers[base]
	return entry, ok
}

// Resolve evaluates a non-wrapper segment: the unconditional deny list first
// (it overrides everything, including a subcommand tool sharing the same
// basename), then the tool-specific subcommand spec if one is registered for
// base, and finally the flat allow/ask/deny/path tables.
func (r *Registry) Resolve(base string, ctx specs.CommandContext) (decision.Decision, decision.RuleMatch) {
	if d, m := r.denyAlways.Evaluate(ctx); d == decision.Deny {
		return d, m
	}
	if spec, ok := r.subcommand[base]; ok {
		return spec.Evaluate(ctx)
	}
	return r.simple.Evaluate(ctx)
}

// BaseCommand exposes the tokenizer's basename rule so callers don't need to
// import parser directly just to compute a dispatch key.
func BaseCommand(argv []string) string {
	return parser.BaseCommand(argv)
}
