package specs

// NewCargoSpec builds the subcommand table for cargo. "run" is deliberately
// absent from the default read-only set — running arbitrary project code is
// never safe to wave through — while the inspection/build subcommands are.
func NewCargoSpec(safeSubcommands, mutating []string) *SubcommandSpec {
	return &SubcommandSpec{
		ToolName: "cargo",
		ReadOnly: toSet(safeSubcommands),
		Mutating: toSet(mutating),
	}
}

// DefaultCargoSafeSubcommands is the built-in allow set absent user overlay.
func DefaultCargoSafeSubcommands() []string {
	return []string{"test", "build", "check", "clippy", "fmt", "doc", "tree", "metadata", "search"}
}

// DefaultCargoMutatingSubcommands is the built-in ask set absent user overlay.
func DefaultCargoMutatingSubcommands() []string {
	return []string{"run", "install", "publish", "yank", "add", "remove", "update"}
}
