package specs

// NewKubectlSpec builds the subcommand table for kubectl. Note that
// "--dry-run=client" is deliberately NOT inspected anywhere here: the
// evaluator cannot prove a client-side dry run never reaches the server
// (aliases, wrapper scripts, shell functions named kubectl), so a mutating
// verb stays Ask regardless of that flag.
func NewKubectlSpec(readOnly, mutating []string) *SubcommandSpec {
	return &SubcommandSpec{
		ToolName: "kubectl",
		ReadOnly: toSet(readOnly),
		Mutating: toSet(mutating),
	}
}

func DefaultKubectlReadOnly() []string {
	return []string{
		"get", "describe", "logs", "top", "explain", "api-resources", "api-versions", "version",
		"config get-contexts", "config current-context",
	}
}

func DefaultKubectlMutating() []string {
	return []string{
		"apply", "create", "delete", "patch", "replace", "scale", "rollout",
		"edit", "annotate", "label", "cordon", "drain", "taint",
	}
}
