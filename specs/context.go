// Package specs implements the per-command evaluation rules consulted by the
// registry: flat allow/ask/deny sets, an unconditional deny list, and the
// subcommand-aware tools (git, cargo, kubectl, gh) that dispatch on their
// first argument (for git, the first one after its global flags).
package specs

import "github.com/cctoolgate/cctoolgate/decision"

// CommandContext is what a CommandSpec is evaluated against. Argv is the
// full tokenized segment (command name included); EnvAssignments holds the
// leading KEY=value words of that same segment — the per-invocation
// variables a shell would export to just this command, not the ambient
// process environment.
type CommandContext struct {
	Argv           []string
	EnvAssignments map[string]string
	PathEnv        string
}

// Args returns the segment's arguments with its own leading env assignments
// and command word stripped.
func (c CommandContext) Args() []string {
	i := 0
	for i < len(c.Argv) && isAssignment(c.Argv[i]) {
		i++
	}
	if i < len(c.Argv) {
		i++ // skip the command word itself
	}
	if i >= len(c.Argv) {
		return nil
	}
	return c.Argv[i:]
}

// CommandSpec evaluates one command invocation and reports why.
type CommandSpec interface {
	Evaluate(ctx CommandContext) (decision.Decision, decision.RuleMatch)
}

func isAssignment(word string) bool {
	eq := -1
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c == '=' {
			eq = i
			break
		}
		if i == 0 {
			if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
				return false
			}
			continue
		}
		if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return eq > 0
}
