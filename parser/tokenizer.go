package parser

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// UnbalancedQuotingError is returned by Tokenize when the input cannot be
// split into words because quoting never closes.
type UnbalancedQuotingError struct {
	Message string
}

func (e *UnbalancedQuotingError) Error() string { return e.Message }

var assignmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Tokenize splits a single command segment into argv-style words, honoring
// POSIX-like quoting: single quotes preserve literals, double quotes allow
// expansion placeholders to survive as literal text, and backslash escapes
// one character. It carries no policy knowledge of its own.
func Tokenize(segment string) ([]string, error) {
	trimmed := strings.TrimSpace(segment)
	if trimmed == "" {
		return nil, nil
	}

	p := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := p.Parse(strings.NewReader(trimmed), "")
	if err != nil {
		return nil, &UnbalancedQuotingError{Message: "unbalanced quoting: " + err.Error()}
	}
	if len(file.Stmts) == 0 {
		return nil, nil
	}

	call, ok := file.Stmts[0].Cmd.(*syntax.CallExpr)
	if !ok {
		// Opaque/compound segments already carry their keyword as plain text.
		return strings.Fields(trimmed), nil
	}

	argv := make([]string, 0, len(call.Assigns)+len(call.Args))
	for _, a := range call.Assigns {
		argv = append(argv, assignText(a))
	}
	for _, arg := range call.Args {
		argv = append(argv, wordToString(arg))
	}
	return argv, nil
}

func assignText(a *syntax.Assign) string {
	name := ""
	if a.Name != nil {
		name = a.Name.Value
	}
	if a.Naked {
		return name
	}
	return name + "=" + wordToString(a.Value)
}

// BaseCommand strips any leading KEY=value assignments and returns the
// basename of the first remaining word.
func BaseCommand(argv []string) string {
	i := 0
	for i < len(argv) && assignmentPattern.MatchString(argv[i]) {
		i++
	}
	if i >= len(argv) {
		return ""
	}
	return basename(argv[i])
}

func basename(word string) string {
	idx := strings.LastIndexByte(word, '/')
	if idx == -1 {
		return word
	}
	return word[idx+1:]
}

// EnvVars returns the leading KEY=value assignments in argv, in order.
func EnvVars(argv []string) []string {
	var out []string
	for _, a := range argv {
		if !assignmentPattern.MatchString(a) {
			break
		}
		out = append(out, a)
	}
	return out
}

// EnvVarsMap reshapes EnvVars into a lookup table, for specs that gate on
// the mere presence of a named variable (git/gh's allowed_with_config).
func EnvVarsMap(argv []string) map[string]string {
	vars := EnvVars(argv)
	if len(vars) == 0 {
		return nil
	}
	m := make(map[string]string, len(vars))
	for _, v := range vars {
		if idx := strings.IndexByte(v, '='); idx >= 0 {
			m[v[:idx]] = v[idx+1:]
		} else {
			m[v] = ""
		}
	}
	return m
}
