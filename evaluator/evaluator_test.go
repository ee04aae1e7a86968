package evaluator

import (
	"strings"
	"testing"

	"github.com/cctoolgate/cctoolgate/config"
	"github.com/cctoolgate/cctoolgate/decision"
	"github.com/cctoolgate/cctoolgate/registry"
	"github.com/cctoolgate/cctoolgate/specs"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	return registry.Build(cfg, specs.FSResolver{})
}

func evalWith(t *testing.T, command string, opts Options) (decision.Decision, decision.RuleMatch) {
	t.Helper()
	reg := testRegistry(t)
	return Evaluate(command, reg, opts)
}

// TestScenarios covers rows 1-9 of the concrete scenario table: input
// command, expected decision, and a reason snippet expected to appear in the
// final RuleMatch's reason. Rows 10 and 11 need a git overlay and have their
// own tests below.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name    string
		command string
		want    decision.Decision
		snippet string
	}{
		{"basename-allow", "ls -la", decision.Allow, "allow"},
		{"aggregated-ask", "git status && rm -rf /tmp/x", decision.Ask, ""},
		{"wrapper-inner-deny", "sudo shred /dev/sda", decision.Deny, "shred"},
		{"redirection-escalation", "echo hi > file.txt", decision.Ask, "redirection"},
		{"benign-redirection", "echo hi > /dev/null", decision.Allow, ""},
		{"kubectl-apply-mutating", "cat <<'EOF' | kubectl apply -f -\nyaml\nEOF", decision.Ask, ""},
		{"substitution-rm", "foo $(rm -rf x) bar", decision.Ask, ""},
		{"dotted-prefix-deny", "env FOO=bar mkfs.ext4 /dev/sdb", decision.Deny, "mkfs"},
		{"xargs-floor-allow", "xargs grep foo", decision.Allow, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, m := evalWith(t, c.command, Options{PathEnv: ""})
			if d != c.want {
				t.Fatalf("Evaluate(%q) = %v (%s), want %v", c.command, d, m.Reason, c.want)
			}
			if c.snippet != "" && !strings.Contains(strings.ToLower(m.Reason), c.snippet) {
				t.Fatalf("Evaluate(%q) reason = %q, want it to mention %q", c.command, m.Reason, c.snippet)
			}
		})
	}
}

func TestEnvGatedGitPushScenario(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	overlay := config.Document{
		Git: config.SubcommandToolSection{
			AllowedWithConfig: []string{"push"},
			ConfigEnvVar:      "GIT_CONFIG_GLOBAL",
		},
	}
	merged := config.Merge(cfg, overlay)
	reg := registry.Build(merged, specs.FSResolver{})

	d, m := Evaluate(`GIT_CONFIG_GLOBAL=~/.ai git push`, reg, Options{})
	if d != decision.Allow {
		t.Fatalf("Evaluate(env-gated git push) = %v (%s), want Allow", d, m.Reason)
	}
}

func TestForcePushAsksEvenWithEnvGatedConfig(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error = %v", err)
	}
	overlay := config.Document{
		Git: config.SubcommandToolSection{
			AllowedWithConfig: []string{"push"},
			ConfigEnvVar:      "GIT_CONFIG_GLOBAL",
		},
	}
	merged := config.Merge(cfg, overlay)
	reg := registry.Build(merged, specs.FSResolver{})

	d, m := Evaluate(`GIT_CONFIG_GLOBAL=~/.ai git push --force origin main`, reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(env-gated git push --force) = %v (%s), want Ask", d, m.Reason)
	}
	if m.Kind != decision.KindSubcommandForcePush {
		t.Fatalf("Kind = %v, want KindSubcommandForcePush", m.Kind)
	}
}

func TestRedirectionEscalationLeavesDenyAlone(t *testing.T) {
	reg := testRegistry(t)
	d, m := Evaluate("shred /dev/sda > file.txt", reg, Options{})
	if d != decision.Deny {
		t.Fatalf("Evaluate(deny with mutating redirection) = %v, want Deny", d)
	}
	if m.Kind == decision.KindRedirectionEscalation {
		t.Fatalf("redirection escalation should not overwrite a Deny reason")
	}
}

func TestWrapperFloorCombinesWithInnerDecision(t *testing.T) {
	reg := testRegistry(t)
	d, _ := Evaluate("sudo ls -la", reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(sudo ls) = %v, want Ask (sudo's floor)", d)
	}
}

func TestNestedWrappersUnfold(t *testing.T) {
	reg := testRegistry(t)
	d, m := Evaluate("sudo xargs rm -rf", reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(sudo xargs rm -rf) = %v (%s), want Ask", d, m.Reason)
	}
}

func TestWrapperWithNoPayloadReturnsFloor(t *testing.T) {
	reg := testRegistry(t)
	d, m := Evaluate("sudo", reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(bare sudo) = %v, want Ask (floor with no payload)", d)
	}
	if m.Kind != decision.KindWrapperFloor {
		t.Fatalf("Kind = %v, want KindWrapperFloor", m.Kind)
	}
}

func TestEscalateDenyRewritesOutputOnly(t *testing.T) {
	reg := testRegistry(t)
	d, m := Evaluate("shred /dev/sda", reg, Options{EscalateDeny: true})
	if d != decision.Ask {
		t.Fatalf("Evaluate with EscalateDeny = %v, want Ask", d)
	}
	if m.Kind != decision.KindDenyAlways {
		t.Fatalf("Kind = %v, want the original KindDenyAlways to survive in RuleMatch", m.Kind)
	}
}

func TestEscalateDenyLeavesAllowAndAskAlone(t *testing.T) {
	reg := testRegistry(t)
	d, _ := Evaluate("ls -la", reg, Options{EscalateDeny: true})
	if d != decision.Allow {
		t.Fatalf("Evaluate(ls, escalate-deny) = %v, want Allow unaffected", d)
	}
}

func TestUnparseableInputIsAsk(t *testing.T) {
	reg := testRegistry(t)
	d, m := Evaluate("echo 'unterminated", reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(unbalanced quotes) = %v, want Ask", d)
	}
	if m.Kind != decision.KindUnparseable {
		t.Fatalf("Kind = %v, want KindUnparseable", m.Kind)
	}
}

func TestEmptyCommandIsAsk(t *testing.T) {
	reg := testRegistry(t)
	d, _ := Evaluate("", reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(\"\") = %v, want Ask", d)
	}
}

func TestRecursionLimitStopsExtremeSubstitutionNesting(t *testing.T) {
	reg := testRegistry(t)
	cmd := "echo hi"
	for i := 0; i < MaxRecursionDepth+4; i++ {
		cmd = "echo $(" + cmd + ")"
	}
	d, m := Evaluate(cmd, reg, Options{})
	if d != decision.Ask {
		t.Fatalf("Evaluate(deeply nested substitutions) = %v, want Ask", d)
	}
	if m.Kind != decision.KindRecursionLimit && m.Kind != decision.KindSubstitution {
		t.Fatalf("Kind = %v, want a recursion-limit or wrapped substitution reason", m.Kind)
	}
}

func TestDeterministicAcrossRepeatedCalls(t *testing.T) {
	reg := testRegistry(t)
	d1, m1 := Evaluate("git push", reg, Options{})
	d2, m2 := Evaluate("git push", reg, Options{})
	if d1 != d2 || m1 != m2 {
		t.Fatalf("Evaluate is not deterministic: (%v,%v) vs (%v,%v)", d1, m1, d2, m2)
	}
}
