package specs

import (
	"path/filepath"
	"strings"

	"github.com/cctoolgate/cctoolgate/decision"
)

// SimpleSpec implements path-vs-basename lookup: a command word is first
// resolved to a filesystem path, checked against path-level tables at both
// its literal and symlink-canonicalized form, and only falls back to
// basename tables when no path-level entry applies.
type SimpleSpec struct {
	PathAllow, PathAsk, PathDeny              map[string]bool
	BasenameAllow, BasenameAsk, BasenameDeny  map[string]bool
	Resolver                                  PathResolver
}

func NewSimpleSpec(resolver PathResolver) *SimpleSpec {
	return &SimpleSpec{
		PathAllow:     map[string]bool{},
		PathAsk:       map[string]bool{},
		PathDeny:      map[string]bool{},
		BasenameAllow: map[string]bool{},
		BasenameAsk:   map[string]bool{},
		BasenameDeny:  map[string]bool{},
		Resolver:      resolver,
	}
}

func (s *SimpleSpec) Evaluate(ctx CommandContext) (decision.Decision, decision.RuleMatch) {
	word := firstCommandWord(ctx.Argv)
	if word == "" {
		return decision.Ask, decision.RuleMatch{Kind: decision.KindEmptyCommand, Reason: "no command word"}
	}

	if strings.ContainsRune(word, '/') || s.Resolver != nil {
		if d, m, ok := s.lookupByPath(word, ctx.PathEnv); ok {
			return d, m
		}
	}

	base := filepath.Base(word)
	switch {
	case s.BasenameDeny[base]:
		return decision.Deny, decision.RuleMatch{Subject: base, Kind: decision.KindBasenameDeny, Reason: "basename '" + base + "' is always denied"}
	case s.BasenameAllow[base]:
		return decision.Allow, decision.RuleMatch{Subject: base, Kind: decision.KindBasenameAllow, Reason: "basename '" + base + "' is allowed"}
	case s.BasenameAsk[base]:
		return decision.Ask, decision.RuleMatch{Subject: base, Kind: decision.KindBasenameAsk, Reason: "basename '" + base + "' requires confirmation"}
	}

	return decision.Ask, decision.RuleMatch{Subject: base, Kind: decision.KindFallthrough, Reason: "no rule matched '" + base + "'"}
}

// lookupByPath resolves the word to a path and checks it (and its canonical
// form) against the path tables. ok is false when no path-level entry
// applied and the caller should fall back to basename lookup.
func (s *SimpleSpec) lookupByPath(word, pathEnv string) (decision.Decision, decision.RuleMatch, bool) {
	var p string
	if strings.ContainsRune(word, '/') {
		if abs, err := filepath.Abs(word); err == nil {
			p = abs
		} else {
			p = word
		}
	} else if s.Resolver != nil {
		resolved, ok := s.Resolver.Resolve(word, pathEnv)
		if !ok {
			return decision.Allow, decision.RuleMatch{}, false
		}
		p = resolved
	} else {
		return decision.Allow, decision.RuleMatch{}, false
	}

	if s.PathDeny[p] {
		return decision.Deny, decision.RuleMatch{Subject: p, Kind: decision.KindPathDeny, Reason: "path '" + p + "' is always denied"}, true
	}

	var canon string
	var canonOK bool
	if s.Resolver != nil {
		canon, canonOK = s.Resolver.Canonicalize(p)
	}
	if canonOK && canon != p && s.PathDeny[canon] {
		return decision.Deny, decision.RuleMatch{Subject: canon, Kind: decision.KindResolvedPathDeny, Reason: "resolved path '" + canon + "' is always denied"}, true
	}

	if s.PathAllow[p] {
		return decision.Allow, decision.RuleMatch{Subject: p, Kind: decision.KindPathAllow, Reason: "path '" + p + "' is allowed"}, true
	}
	if s.PathAsk[p] {
		return decision.Ask, decision.RuleMatch{Subject: p, Kind: decision.KindPathAsk, Reason: "path '" + p + "' requires confirmation"}, true
	}

	if canonOK && canon != p {
		if s.PathAllow[canon] {
			return decision.Allow, decision.RuleMatch{Subject: canon, Kind: decision.KindResolvedPathAllow, Reason: "resolved path '" + canon + "' is allowed"}, true
		}
		if s.PathAsk[canon] {
			return decision.Ask, decision.RuleMatch{Subject: canon, Kind: decision.KindResolvedPathAsk, Reason: "resolved path '" + canon + "' requires confirmation"}, true
		}
	}

	return decision.Allow, decision.RuleMatch{}, false
}

func firstCommandWord(argv []string) string {
	i := 0
	for i < len(argv) && isAssignment(argv[i]) {
		i++
	}
	if i >= len(argv) {
		return ""
	}
	return argv[i]
}
