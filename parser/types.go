// Package parser turns an arbitrary shell command string into a ParsedPipeline
// of ShellSegments, using mvdan.cc/sh/v3's Bash grammar for AST production.
// Unlike a restrictive command-runner parser, it never rejects a construct
// outright (beyond genuine syntax errors) — every shell feature either
// becomes a segment, a redirection, or a recorded substitution, because the
// evaluator downstream must be able to reason about anything an operator
// might type.
package parser

import "fmt"

// Input size limits. These bound the walker's own work, independent of any
// policy decision; exceeding them is treated the same as a ParseError. A
// single call to Parse never recurses into a substitution's body — it only
// records the substitution's raw text for the caller to parse again — so
// substitution-chain depth is bounded by the caller (see
// evaluator.MaxRecursionDepth), not here.
const (
	MaxCommandLength = 65536 // 64KiB max total command length
	MaxPipeSegments  = 256   // max segments a single pipeline may expand to
)

// Operator joins two adjacent ShellSegments. The zero value "" is only valid
// for Segments[0], which has no preceding operator.
type Operator string

const (
	OpPipe    Operator = "|"
	OpPipeErr Operator = "|&"
	OpAnd     Operator = "&&"
	OpOr      Operator = "||"
	OpSemi    Operator = ";"
)

// Redirection describes one redirection attached to a segment. Only the
// destination and mutating classification matter to the evaluator; Op and
// SourceFD are carried for diagnostics.
type Redirection struct {
	Op       string // the literal redirection token, e.g. ">", ">>", "<<<"
	Dest     string // destination token: a filename, "/dev/null", or "&N"
	SourceFD int    // source file descriptor (defaults per direction when absent)
	Mutating bool
}

// ShellSegment is one executable unit inside a ParsedPipeline: a command
// name plus arguments (or an opaque keyword for compound statements), any
// redirection attached to it, and the raw text of command/process
// substitutions found anywhere inside it.
type ShellSegment struct {
	Command       string
	Redirection   *Redirection
	Substitutions []string
	Operator      Operator // the operator preceding this segment; "" for Segments[0]
}

// ParsedPipeline is the full output of Parse: a non-empty ordered sequence of
// segments. len(Segments)-1 of them carry a non-empty Operator.
type ParsedPipeline struct {
	Segments []ShellSegment
}

// ParseError is returned whenever the input cannot be turned into a
// ParsedPipeline. The evaluator must treat every ParseError as Ask, never
// Allow.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}
