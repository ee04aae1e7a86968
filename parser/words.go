package parser

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

func printNode(n syntax.Node) string {
	var buf strings.Builder
	if err := syntax.NewPrinter().Print(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

func trimNewline(s string) string {
	return strings.TrimRight(s, "\n")
}

// wordToString reconstructs a Word's source text and strips one layer of
// wrapping quotes, the same way a shell would hand the token to argv.
// Embedded expansions are never evaluated — they survive as literal text,
// per the tokenizer's contract of doing no expansion of its own.
func wordToString(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	return unwrapQuotes(printNode(w))
}

func unwrapQuotes(word string) string {
	if len(word) >= 2 {
		if word[0] == '\'' && word[len(word)-1] == '\'' {
			return word[1 : len(word)-1]
		}
		if word[0] == '"' && word[len(word)-1] == '"' {
			return word[1 : len(word)-1]
		}
	}
	return word
}
