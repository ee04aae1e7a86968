// Package evaluator orchestrates the parser, registry, and specs into the
// single top-level decision the gate emits: parse, resolve each segment
// (wrapper unwrap or spec lookup), apply redirection escalation, recurse
// into substitutions, and aggregate with worst-wins.
package evaluator

import (
	"strings"

	"github.com/cctoolgate/cctoolgate/decision"
	"github.com/cctoolgate/cctoolgate/parser"
	"github.com/cctoolgate/cctoolgate/registry"
	"github.com/cctoolgate/cctoolgate/specs"
)

// MaxRecursionDepth bounds the combined depth of substitution and wrapper
// recursion. Exceeding it returns Ask rather than continuing to unwind a
// pathological input.
const MaxRecursionDepth = 16

// Options configures the top-level Evaluate call.
type Options struct {
	// PathEnv is the PATH value used for basename-to-executable resolution.
	PathEnv string
	// EscalateDeny rewrites a final Deny to Ask at the output boundary only;
	// internal aggregation (and the returned RuleMatch) is unaffected.
	EscalateDeny bool
}

// Evaluate is the entry point: parse command, evaluate every pipeline
// segment recursively, and aggregate with worst-wins.
func Evaluate(command string, reg *registry.Registry, opts Options) (decision.Decision, decision.RuleMatch) {
	d, m := evaluateCommand(command, reg, opts.PathEnv, 0)
	if opts.EscalateDeny && d == decision.Deny {
		return decision.Ask, m
	}
	return d, m
}

func evaluateCommand(command string, reg *registry.Registry, pathEnv string, depth int) (decision.Decision, decision.RuleMatch) {
	if depth > MaxRecursionDepth {
		return decision.Ask, decision.RuleMatch{Kind: decision.KindRecursionLimit, Reason: "recursion limit exceeded"}
	}

	pipeline, err := parser.Parse(command)
	if err != nil {
		return decision.Ask, decision.RuleMatch{Kind: decision.KindUnparseable, Reason: "unparseable input: " + err.Error()}
	}

	best := decision.Allow
	var bestMatch decision.RuleMatch
	first := true
	for _, seg := range pipeline.Segments {
		d, m := evaluateSegment(seg, reg, pathEnv, depth)
		if first {
			best, bestMatch = d, m
			first = false
			continue
		}
		best, bestMatch = decision.Best(best, bestMatch, d, m)
	}
	return best, bestMatch
}

func evaluateSegment(seg parser.ShellSegment, reg *registry.Registry, pathEnv string, depth int) (decision.Decision, decision.RuleMatch) {
	argv, err := parser.Tokenize(seg.Command)
	if err != nil {
		return decision.Ask, decision.RuleMatch{Kind: decision.KindUnparseable, Reason: "unparseable segment: " + err.Error()}
	}
	if len(argv) == 0 {
		return decision.Ask, decision.RuleMatch{Kind: decision.KindEmptyCommand, Reason: "empty segment"}
	}

	base := parser.BaseCommand(argv)

	var d decision.Decision
	var m decision.RuleMatch
	if wrapper, ok := reg.Wrapper(base); ok {
		d, m = evaluateWrapper(wrapper, argv, reg, pathEnv, depth)
	} else {
		ctx := specs.CommandContext{
			Argv:           argv,
			EnvAssignments: parser.EnvVarsMap(argv),
			PathEnv:        pathEnv,
		}
		d, m = reg.Resolve(base, ctx)
	}

	if seg.Redirection != nil && seg.Redirection.Mutating && d == decision.Allow {
		d = decision.Ask
		m = decision.RuleMatch{Subject: m.Subject, Kind: decision.KindRedirectionEscalation, Reason: "mutating redirection escalates an otherwise-allowed command to ask"}
	}

	for _, sub := range seg.Substitutions {
		ds, ms := evaluateCommand(sub, reg, pathEnv, depth+1)
		wrapped := decision.RuleMatch{Subject: ms.Subject, Kind: decision.KindSubstitution, Reason: "embedded substitution: " + ms.Reason}
		d, m = decision.Best(d, m, ds, wrapped)
	}

	return d, m
}

func evaluateWrapper(entry registry.WrapperEntry, argv []string, reg *registry.Registry, pathEnv string, depth int) (decision.Decision, decision.RuleMatch) {
	if depth+1 > MaxRecursionDepth {
		return decision.Ask, decision.RuleMatch{Kind: decision.KindRecursionLimit, Reason: "recursion limit exceeded"}
	}

	skip := entry.Skip
	if skip == nil {
		skip = func(args []string) []string { return args }
	}
	inner := skip(argv[1:])
	if len(inner) == 0 {
		return entry.Floor, decision.RuleMatch{Kind: decision.KindWrapperFloor, Reason: "wrapper carries no payload command"}
	}

	reconstructed := quoteArgv(inner)
	di, mi := evaluateCommand(reconstructed, reg, pathEnv, depth+1)
	final := decision.Max(entry.Floor, di)
	return final, decision.RuleMatch{Subject: mi.Subject, Kind: decision.KindWrapperFloor, Reason: "wrapper floor combined with inner command: " + mi.Reason}
}

// quoteArgv reconstructs a shell-safe command string from already-tokenized
// words, so the inner payload of a wrapper can be fed back through the full
// parser without re-triggering any expansion the original quoting prevented.
func quoteArgv(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
