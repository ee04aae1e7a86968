package specs

import (
	"testing"

	"github.com/cctoolgate/cctoolgate/decision"
)

func TestGitSpecReadOnlyAllows(t *testing.T) {
	g := NewGitSpec([]string{"status", "log"}, []string{"push"}, nil, "", nil)
	d, m := g.Evaluate(ctxFor("git", "status"))
	if d != decision.Allow {
		t.Fatalf("Evaluate(git status) = %v, want Allow", d)
	}
	if m.Kind != decision.KindSubcommandReadOnly {
		t.Fatalf("Kind = %v, want KindSubcommandReadOnly", m.Kind)
	}
}

func TestGitSpecMutatingAsks(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, nil, "", nil)
	d, m := g.Evaluate(ctxFor("git", "push", "origin", "main"))
	if d != decision.Ask {
		t.Fatalf("Evaluate(git push) = %v, want Ask", d)
	}
	if m.Kind != decision.KindSubcommandMutating {
		t.Fatalf("Kind = %v, want KindSubcommandMutating", m.Kind)
	}
}

func TestGitSpecUnknownSubcommandAsks(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, nil, "", nil)
	d, m := g.Evaluate(ctxFor("git", "frobnicate"))
	if d != decision.Ask || m.Kind != decision.KindSubcommandUnknown {
		t.Fatalf("Evaluate(git frobnicate) = %v/%v, want Ask/KindSubcommandUnknown", d, m.Kind)
	}
}

func TestGitSpecEnvGatedPushAllowed(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, []string{"push"}, "CC_TOOLGATE_ALLOW_GIT_PUSH", nil)
	ctx := CommandContext{
		Argv:           []string{"git", "push", "origin", "main"},
		EnvAssignments: map[string]string{"CC_TOOLGATE_ALLOW_GIT_PUSH": "1"},
	}
	d, m := g.Evaluate(ctx)
	if d != decision.Allow {
		t.Fatalf("Evaluate(env-gated git push) = %v, want Allow", d)
	}
	if m.Kind != decision.KindSubcommandEnvGated {
		t.Fatalf("Kind = %v, want KindSubcommandEnvGated", m.Kind)
	}
}

func TestGitSpecEnvGatedPushWithoutEnvStillAsks(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, []string{"push"}, "CC_TOOLGATE_ALLOW_GIT_PUSH", nil)
	d, _ := g.Evaluate(ctxFor("git", "push"))
	if d != decision.Ask {
		t.Fatalf("Evaluate(git push, no env) = %v, want Ask", d)
	}
}

func TestGitSpecForcePushAsksEvenWithEnvGate(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, []string{"push"}, "CC_TOOLGATE_ALLOW_GIT_PUSH", []string{"--force", "-f", "--force-with-lease"})
	ctx := CommandContext{
		Argv:           []string{"git", "push", "--force", "origin", "main"},
		EnvAssignments: map[string]string{"CC_TOOLGATE_ALLOW_GIT_PUSH": "1"},
	}
	d, m := g.Evaluate(ctx)
	if d != decision.Ask {
		t.Fatalf("Evaluate(git push --force, env-gated) = %v, want Ask", d)
	}
	if m.Kind != decision.KindSubcommandForcePush {
		t.Fatalf("Kind = %v, want KindSubcommandForcePush", m.Kind)
	}
}

func TestGitSpecForcePushShortFlagAsks(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, nil, "", []string{"--force", "-f", "--force-with-lease"})
	d, m := g.Evaluate(ctxFor("git", "push", "-f", "origin", "main"))
	if d != decision.Ask {
		t.Fatalf("Evaluate(git push -f) = %v, want Ask", d)
	}
	if m.Kind != decision.KindSubcommandForcePush {
		t.Fatalf("Kind = %v, want KindSubcommandForcePush", m.Kind)
	}
}

func TestGitSpecForceWithLeaseAsks(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, nil, "", []string{"--force", "-f", "--force-with-lease"})
	d, m := g.Evaluate(ctxFor("git", "push", "--force-with-lease", "origin", "main"))
	if d != decision.Ask {
		t.Fatalf("Evaluate(git push --force-with-lease) = %v, want Ask", d)
	}
	if m.Kind != decision.KindSubcommandForcePush {
		t.Fatalf("Kind = %v, want KindSubcommandForcePush", m.Kind)
	}
}

func TestGitSpecPlainPushWithForcePushFlagsConfiguredStillAllowsViaEnvGate(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, []string{"push"}, "CC_TOOLGATE_ALLOW_GIT_PUSH", []string{"--force", "-f", "--force-with-lease"})
	ctx := CommandContext{
		Argv:           []string{"git", "push", "origin", "main"},
		EnvAssignments: map[string]string{"CC_TOOLGATE_ALLOW_GIT_PUSH": "1"},
	}
	d, _ := g.Evaluate(ctx)
	if d != decision.Allow {
		t.Fatalf("Evaluate(git push, no force flag, env-gated) = %v, want Allow", d)
	}
}

func TestGitSpecSkipsGlobalFlags(t *testing.T) {
	g := NewGitSpec([]string{"status"}, []string{"push"}, nil, "", nil)
	d, _ := g.Evaluate(ctxFor("git", "-C", "/repo", "-c", "user.name=x", "--no-pager", "status"))
	if d != decision.Allow {
		t.Fatalf("Evaluate(git with global flags then status) = %v, want Allow", d)
	}
}

func TestGitSpecTwoWordKeyPreferredOverOneWord(t *testing.T) {
	g := NewGitSpec([]string{"stash list"}, []string{"stash"}, nil, "", nil)
	d, m := g.Evaluate(ctxFor("git", "stash", "list"))
	if d != decision.Allow {
		t.Fatalf("Evaluate(git stash list) = %v, want Allow (two-word key wins)", d)
	}
	if m.Kind != decision.KindSubcommandReadOnly {
		t.Fatalf("Kind = %v, want KindSubcommandReadOnly", m.Kind)
	}
}

func TestCargoSpecDefaults(t *testing.T) {
	c := NewCargoSpec(DefaultCargoSafeSubcommands(), DefaultCargoMutatingSubcommands())
	if d, _ := c.Evaluate(ctxFor("cargo", "build")); d != decision.Allow {
		t.Fatalf("Evaluate(cargo build) = %v, want Allow", d)
	}
	if d, _ := c.Evaluate(ctxFor("cargo", "run")); d != decision.Ask {
		t.Fatalf("Evaluate(cargo run) = %v, want Ask", d)
	}
}

func TestKubectlSpecApplyIsMutating(t *testing.T) {
	k := NewKubectlSpec(DefaultKubectlReadOnly(), DefaultKubectlMutating())
	d, m := k.Evaluate(ctxFor("kubectl", "apply", "-f", "-"))
	if d != decision.Ask {
		t.Fatalf("Evaluate(kubectl apply) = %v, want Ask", d)
	}
	if m.Kind != decision.KindSubcommandMutating {
		t.Fatalf("Kind = %v, want KindSubcommandMutating", m.Kind)
	}
}

func TestKubectlSpecDryRunFlagDoesNotDowngrade(t *testing.T) {
	k := NewKubectlSpec(DefaultKubectlReadOnly(), DefaultKubectlMutating())
	d, _ := k.Evaluate(ctxFor("kubectl", "apply", "--dry-run=client", "-f", "-"))
	if d != decision.Ask {
		t.Fatalf("Evaluate(kubectl apply --dry-run=client) = %v, want Ask (dry-run never downgrades)", d)
	}
}

func TestKubectlSpecTwoWordConfigSubcommand(t *testing.T) {
	k := NewKubectlSpec(DefaultKubectlReadOnly(), DefaultKubectlMutating())
	d, _ := k.Evaluate(ctxFor("kubectl", "config", "current-context"))
	if d != decision.Allow {
		t.Fatalf("Evaluate(kubectl config current-context) = %v, want Allow", d)
	}
}

func TestGhSpecResourceVerbPairs(t *testing.T) {
	g := NewGhSpec(DefaultGhReadOnly(), DefaultGhMutating(), nil, "")
	if d, _ := g.Evaluate(ctxFor("gh", "pr", "view", "42")); d != decision.Allow {
		t.Fatalf("Evaluate(gh pr view) = %v, want Allow", d)
	}
	if d, _ := g.Evaluate(ctxFor("gh", "pr", "merge", "42")); d != decision.Ask {
		t.Fatalf("Evaluate(gh pr merge) = %v, want Ask", d)
	}
}

func TestGhSpecNoSubcommandAsks(t *testing.T) {
	g := NewGhSpec(DefaultGhReadOnly(), DefaultGhMutating(), nil, "")
	d, m := g.Evaluate(ctxFor("gh"))
	if d != decision.Ask || m.Kind != decision.KindSubcommandUnknown {
		t.Fatalf("Evaluate(bare gh) = %v/%v, want Ask/KindSubcommandUnknown", d, m.Kind)
	}
}
