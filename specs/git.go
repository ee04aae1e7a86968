package specs

// NewGitSpec builds the subcommand table for git: read-only porcelain is
// allowed, state-changing porcelain asks, and an optional env-gated list
// (e.g. "push" when a named env var is set) allows outright — except a
// force-push, which always asks regardless of that env-gate.
func NewGitSpec(readOnly, mutating, allowedWithConfig []string, configEnvVar string, forcePushFlags []string) *SubcommandSpec {
	return &SubcommandSpec{
		ToolName:          "git",
		ReadOnly:          toSet(readOnly),
		Mutating:          toSet(mutating),
		AllowedWithConfig: toSet(allowedWithConfig),
		ConfigEnvVar:      configEnvVar,
		ForcePushFlags:    toSet(forcePushFlags),
		SkipGlobalFlags:   skipGitGlobalFlags,
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
