package specs

import (
	"strings"

	"github.com/cctoolgate/cctoolgate/decision"
)

// DenyAlwaysSpec covers commands that are never permitted regardless of
// configuration: disk-destructive tools where a mistaken invocation cannot
// be undone. Dotted-prefix commands like mkfs.ext4 fall back to matching on
// their prefix before the first dot.
type DenyAlwaysSpec struct {
	names    map[string]string // basename -> reason
	prefixes map[string]string
}

func NewDenyAlwaysSpec() *DenyAlwaysSpec {
	return &DenyAlwaysSpec{
		names: map[string]string{
			"shred":  "shred securely erases file contents",
			"dd":     "dd can overwrite raw block devices",
			"fdisk":  "fdisk edits disk partition tables",
			"parted": "parted edits disk partition tables",
			"wipefs": "wipefs erases filesystem signatures",
			"mkswap": "mkswap formats a swap device",
		},
		prefixes: map[string]string{
			"mkfs": "mkfs formats a filesystem, destroying existing data",
		},
	}
}

func (d *DenyAlwaysSpec) Evaluate(ctx CommandContext) (decision.Decision, decision.RuleMatch) {
	word := firstCommandWord(ctx.Argv)
	base := basenameOf(word)

	if reason, ok := d.names[base]; ok {
		return decision.Deny, decision.RuleMatch{Subject: base, Kind: decision.KindDenyAlways, Reason: reason}
	}
	if prefix, _, ok := strings.Cut(base, "."); ok {
		if reason, ok := d.prefixes[prefix]; ok {
			return decision.Deny, decision.RuleMatch{Subject: base, Kind: decision.KindDenyAlways, Reason: reason}
		}
	}
	if reason, ok := d.prefixes[base]; ok {
		return decision.Deny, decision.RuleMatch{Subject: base, Kind: decision.KindDenyAlways, Reason: reason}
	}

	return decision.Ask, decision.RuleMatch{Subject: base, Kind: decision.KindFallthrough, Reason: "not on the unconditional deny list"}
}

// Names reports the exact basenames this spec unconditionally denies.
func (d *DenyAlwaysSpec) Names() []string {
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	return out
}

// Prefixes reports the dotted-prefix families this spec denies.
func (d *DenyAlwaysSpec) Prefixes() []string {
	out := make([]string, 0, len(d.prefixes))
	for p := range d.prefixes {
		out = append(out, p)
	}
	return out
}

func basenameOf(word string) string {
	if idx := strings.LastIndexByte(word, '/'); idx != -1 {
		return word[idx+1:]
	}
	return word
}
