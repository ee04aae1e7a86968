package specs

import (
	"strings"

	"github.com/cctoolgate/cctoolgate/decision"
)

// SubcommandSpec dispatches on a tool's first (or first two) arguments, after
// SkipGlobalFlags (set for git only) has dropped the tool's own leading
// flags; for the other tools a leading flag becomes the key and resolves as
// an unknown subcommand. This is the shape shared by git, cargo, kubectl, and gh. Some tools key
// on a single verb ("build", "get"); others on a resource-verb pair
// ("repo view", "config get-contexts"); SubcommandSpec tries the two-word
// key before the one-word key so both shapes coexist in the same tables.
type SubcommandSpec struct {
	ToolName          string
	ReadOnly          map[string]bool
	Mutating          map[string]bool
	AllowedWithConfig map[string]bool
	ConfigEnvVar      string
	// ForcePushFlags, when non-empty, forces Ask on a "push" subcommand that
	// carries any of these flags — checked before AllowedWithConfig's
	// env-gate, so a force-push can never bypass confirmation via config.
	ForcePushFlags  map[string]bool
	SkipGlobalFlags func(args []string) []string
}

func (s *SubcommandSpec) Evaluate(ctx CommandContext) (decision.Decision, decision.RuleMatch) {
	args := ctx.Args()
	if s.SkipGlobalFlags != nil {
		args = s.SkipGlobalFlags(args)
	}
	if len(args) == 0 {
		return decision.Ask, decision.RuleMatch{Subject: s.ToolName, Kind: decision.KindSubcommandUnknown, Reason: s.ToolName + " invoked with no subcommand"}
	}

	key1 := args[0]
	key2 := ""
	if len(args) >= 2 {
		key2 = args[0] + " " + args[1]
	}

	if key1 == "push" && len(s.ForcePushFlags) > 0 {
		for _, a := range args[1:] {
			if s.ForcePushFlags[a] {
				return decision.Ask, decision.RuleMatch{Subject: s.ToolName + " push", Kind: decision.KindSubcommandForcePush, Reason: s.ToolName + " push with " + a + " requires confirmation"}
			}
		}
	}

	if s.ConfigEnvVar != "" && len(s.AllowedWithConfig) > 0 {
		if s.AllowedWithConfig[key2] || s.AllowedWithConfig[key1] {
			if _, present := ctx.EnvAssignments[s.ConfigEnvVar]; present {
				return decision.Allow, decision.RuleMatch{Subject: s.ToolName + " " + key1, Kind: decision.KindSubcommandEnvGated, Reason: s.ToolName + " '" + key1 + "' allowed via " + s.ConfigEnvVar}
			}
		}
	}

	if s.ReadOnly[key2] {
		return decision.Allow, decision.RuleMatch{Subject: s.ToolName + " " + key2, Kind: decision.KindSubcommandReadOnly, Reason: s.ToolName + " '" + key2 + "' is read-only"}
	}
	if s.Mutating[key2] {
		return decision.Ask, decision.RuleMatch{Subject: s.ToolName + " " + key2, Kind: decision.KindSubcommandMutating, Reason: s.ToolName + " '" + key2 + "' can change state"}
	}
	if s.ReadOnly[key1] {
		return decision.Allow, decision.RuleMatch{Subject: s.ToolName + " " + key1, Kind: decision.KindSubcommandReadOnly, Reason: s.ToolName + " '" + key1 + "' is read-only"}
	}
	if s.Mutating[key1] {
		return decision.Ask, decision.RuleMatch{Subject: s.ToolName + " " + key1, Kind: decision.KindSubcommandMutating, Reason: s.ToolName + " '" + key1 + "' can change state"}
	}

	return decision.Ask, decision.RuleMatch{Subject: s.ToolName + " " + key1, Kind: decision.KindSubcommandUnknown, Reason: s.ToolName + " subcommand '" + key1 + "' is not recognized"}
}

// skipGitGlobalFlags advances past git's own global flags (those that
// precede the subcommand) so dispatch sees the real subcommand word.
// Recognizes -C <path>, -c <k=v>, --git-dir=..., --work-tree=..., --no-pager,
// -P; stops at the first token it doesn't recognize.
func skipGitGlobalFlags(args []string) []string {
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-C" || a == "-c":
			i += 2
		case strings.HasPrefix(a, "--git-dir=") || strings.HasPrefix(a, "--work-tree="):
			i++
		case a == "--no-pager" || a == "-P":
			i++
		default:
			return args[i:]
		}
		if i > len(args) {
			i = len(args)
		}
	}
	return args[i:]
}
