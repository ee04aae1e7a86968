// Package decision defines the totally ordered verdict cc-toolgate emits and
// the rule-match metadata that justifies it.
package decision

import "fmt"

// Decision is the verdict returned for a command or segment. The zero value
// is Allow, the least restrictive verdict and so the seed of a Max fold.
type Decision int

const (
	Allow Decision = iota
	Ask
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Ask:
		return "ask"
	case Deny:
		return "deny"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Max returns the worst (most restrictive) of a and b under the total order
// Allow < Ask < Deny. Aggregation across segments and substitutions is a
// left fold of Max starting from Allow.
func Max(a, b Decision) Decision {
	if b > a {
		return b
	}
	return a
}

// Kind enumerates why a RuleMatch fired, independent of the Decision it
// produced. Kept as a string enum (rather than typed constants only) because
// it round-trips through JSON/TOML dumps and decision-log lines verbatim.
type Kind string

const (
	KindBasenameAllow         Kind = "basename-allow"
	KindBasenameAsk           Kind = "basename-ask"
	KindBasenameDeny          Kind = "basename-deny"
	KindPathAllow             Kind = "path-allow"
	KindPathAsk               Kind = "path-ask"
	KindPathDeny              Kind = "path-deny"
	KindResolvedPathDeny      Kind = "resolved-path-deny"
	KindResolvedPathAllow     Kind = "resolved-path-allow"
	KindResolvedPathAsk       Kind = "resolved-path-ask"
	KindFallthrough           Kind = "fallthrough-ask"
	KindSubcommandReadOnly    Kind = "subcommand-read-only"
	KindSubcommandMutating    Kind = "subcommand-mutating"
	KindSubcommandUnknown     Kind = "subcommand-unknown"
	KindSubcommandEnvGated    Kind = "subcommand-env-gated"
	KindSubcommandForcePush   Kind = "subcommand-force-push"
	KindWrapperFloor          Kind = "wrapper-floor"
	KindRedirectionEscalation Kind = "redirection-escalation"
	KindSubstitution          Kind = "substitution"
	KindDenyAlways            Kind = "deny-always"
	KindUnparseable           Kind = "unparseable"
	KindRecursionLimit        Kind = "recursion-limit"
	KindEmptyCommand          Kind = "empty-command"
)

// RuleMatch is the justification accompanying a Decision: what matched, what
// kind of rule fired, and a short human-readable reason.
type RuleMatch struct {
	Command Decision `json:"-"`
	Subject string   `json:"subject"` // the matched command or subcommand name
	Kind    Kind     `json:"kind"`
	Reason  string   `json:"reason"`
}

// Best picks whichever of a, b attains the higher (worse) Decision, preferring
// a on ties so that callers folding left-to-right keep the earliest match
// that attains the maximum.
func Best(aD Decision, a RuleMatch, bD Decision, b RuleMatch) (Decision, RuleMatch) {
	if bD > aD {
		return bD, b
	}
	return aD, a
}
