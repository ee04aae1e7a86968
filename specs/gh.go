package specs

// NewGhSpec builds the subcommand table for the GitHub CLI, keyed on
// "resource verb" pairs (e.g. "pr view", "auth status"). The default tables
// hold no bare verbs, though a one-word entry would still be matched.
func NewGhSpec(readOnly, mutating, allowedWithConfig []string, configEnvVar string) *SubcommandSpec {
	return &SubcommandSpec{
		ToolName:          "gh",
		ReadOnly:          toSet(readOnly),
		Mutating:          toSet(mutating),
		AllowedWithConfig: toSet(allowedWithConfig),
		ConfigEnvVar:      configEnvVar,
	}
}

func DefaultGhReadOnly() []string {
	return []string{
		"auth status",
		"repo view",
		"pr view", "pr list", "pr diff",
		"issue view", "issue list",
		"run view", "run list",
		"workflow view", "workflow list",
	}
}

func DefaultGhMutating() []string {
	return []string{
		"pr create", "pr merge", "pr close",
		"issue create", "issue close",
		"repo create", "repo delete", "repo archive",
		"release create",
	}
}
