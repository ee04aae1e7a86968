package parser

import (
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Parse consumes a raw shell command string and produces a ParsedPipeline.
// It never rejects a construct because the construct is "dangerous" — that
// judgment belongs to the evaluator — it only rejects genuinely unparseable
// input or input that exceeds the walker's own bounds.
func Parse(command string) (*ParsedPipeline, error) {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return nil, parseErrorf("empty command")
	}
	if len(trimmed) > MaxCommandLength {
		return nil, parseErrorf("command too long (%d bytes, max %d)", len(trimmed), MaxCommandLength)
	}

	p := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := p.Parse(strings.NewReader(trimmed), "")
	if err != nil {
		return nil, parseErrorf("parse error: %v", err)
	}
	if len(file.Stmts) == 0 {
		return nil, parseErrorf("no commands found in input")
	}

	w := &walker{}
	if err := w.walkStmtList(file.Stmts, ""); err != nil {
		return nil, err
	}
	if len(w.segments) == 0 {
		return nil, parseErrorf("no commands found in input")
	}
	if len(w.segments) > MaxPipeSegments {
		return nil, parseErrorf("too many pipeline segments (%d, max %d)", len(w.segments), MaxPipeSegments)
	}

	return &ParsedPipeline{Segments: w.segments}, nil
}

type walker struct {
	segments []ShellSegment
}

// walkStmtList walks a sequential statement list (the top-level program, or
// the body of a subshell/block). Statements in such a list are joined by
// Semi regardless of whether the source used ";" or a newline; only the
// first statement inherits the operator that connected the list itself to
// whatever precedes it.
func (w *walker) walkStmtList(stmts []*syntax.Stmt, firstOp Operator) error {
	for i, s := range stmts {
		op := OpSemi
		if i == 0 {
			op = firstOp
		}
		if err := w.walkStmt(s, op); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkStmt(stmt *syntax.Stmt, op Operator) error {
	if stmt.Cmd == nil {
		return w.appendOpaque("true", stmt, op)
	}
	return w.walkCommand(stmt.Cmd, stmt, op)
}

func (w *walker) walkCommand(cmd syntax.Command, stmt *syntax.Stmt, op Operator) error {
	switch c := cmd.(type) {
	case *syntax.BinaryCmd:
		bop, err := mapBinOp(c.Op)
		if err != nil {
			return err
		}
		if err := w.walkStmt(c.X, op); err != nil {
			return err
		}
		return w.walkStmt(c.Y, bop)

	case *syntax.CallExpr:
		return w.appendCall(c, stmt, op)

	case *syntax.Subshell:
		// Subshells flatten: their segments join the enclosing list in
		// source order, preserving more visibility than treating the
		// whole subshell as one opaque blob would.
		return w.walkStmtList(c.Stmts, op)

	case *syntax.Block:
		return w.walkStmtList(c.Stmts, op)

	case *syntax.IfClause:
		return w.appendOpaque("if", stmt, op)
	case *syntax.WhileClause:
		return w.appendOpaque("while", stmt, op)
	case *syntax.ForClause:
		return w.appendOpaque("for", stmt, op)
	case *syntax.CaseClause:
		return w.appendOpaque("case", stmt, op)
	case *syntax.FuncDecl:
		return w.appendOpaque("function", stmt, op)
	case *syntax.ArithmCmd:
		return w.appendOpaque("((", stmt, op)
	case *syntax.TestClause:
		return w.appendOpaque("[[", stmt, op)
	case *syntax.DeclClause:
		return w.appendOpaque(declKeyword(c), stmt, op)
	case *syntax.LetClause:
		return w.appendOpaque("let", stmt, op)
	case *syntax.TimeClause:
		return w.appendOpaque("time", stmt, op)
	case *syntax.CoprocClause:
		return w.appendOpaque("coproc", stmt, op)
	default:
		// Unknown node kind from a future grammar revision: capture as an
		// opaque segment and keep scanning for substitutions rather than
		// failing the whole parse.
		return w.appendOpaque(fmt.Sprintf("%T", c), stmt, op)
	}
}

func mapBinOp(op syntax.BinCmdOperator) (Operator, error) {
	switch op {
	case syntax.Pipe:
		return OpPipe, nil
	case syntax.PipeAll:
		return OpPipeErr, nil
	case syntax.AndStmt:
		return OpAnd, nil
	case syntax.OrStmt:
		return OpOr, nil
	default:
		return "", parseErrorf("unsupported operator: %v", op)
	}
}

func declKeyword(c *syntax.DeclClause) string {
	if c.Variant != nil && c.Variant.Value != "" {
		return c.Variant.Value
	}
	return "declare"
}

func (w *walker) appendCall(c *syntax.CallExpr, stmt *syntax.Stmt, op Operator) error {
	text := trimNewline(printNode(&syntax.Stmt{Cmd: c}))
	if strings.TrimSpace(text) == "" {
		return parseErrorf("empty command")
	}
	w.segments = append(w.segments, ShellSegment{
		Command:       text,
		Redirection:   redirectionFor(stmt.Redirs),
		Substitutions: substitutionsIn(c),
		Operator:      op,
	})
	return nil
}

func (w *walker) appendOpaque(keyword string, stmt *syntax.Stmt, op Operator) error {
	w.segments = append(w.segments, ShellSegment{
		Command:       keyword,
		Redirection:   redirectionFor(stmt.Redirs),
		Substitutions: substitutionsIn(stmt),
		Operator:      op,
	})
	return nil
}

// substitutionsIn walks node for command and process substitutions and
// returns their raw inner text, unparsed, for recursive evaluation. It does
// not descend into a substitution's own body — nested substitutions are
// discovered when that body is itself parsed recursively by the evaluator.
func substitutionsIn(node syntax.Node) []string {
	var out []string
	syntax.Walk(node, func(n syntax.Node) bool {
		switch x := n.(type) {
		case *syntax.CmdSubst:
			if text := trimNewline(printNode(&syntax.File{Stmts: x.Stmts})); text != "" {
				out = append(out, text)
			}
			return false
		case *syntax.ProcSubst:
			if text := trimNewline(printNode(&syntax.File{Stmts: x.Stmts})); text != "" {
				out = append(out, text)
			}
			return false
		}
		return true
	})
	return out
}

func redirectionFor(redirs []*syntax.Redirect) *Redirection {
	var rep *Redirection
	for _, r := range redirs {
		red := classifyRedirect(r)
		if rep == nil || (red.Mutating && !rep.Mutating) {
			rep = red
		}
	}
	return rep
}

func classifyRedirect(r *syntax.Redirect) *Redirection {
	opStr := r.Op.String()
	switch r.Op {
	case syntax.Hdoc, syntax.DashHdoc, syntax.WordHdoc:
		return &Redirection{Op: opStr, Dest: "<heredoc>", SourceFD: sourceFD(r, 0), Mutating: true}

	case syntax.DplIn, syntax.DplOut:
		dest := wordLiteral(r.Word)
		def := defaultSourceFD(r.Op)
		if n, ok := dupTarget(dest); ok {
			return &Redirection{Op: opStr, Dest: dest, SourceFD: sourceFD(r, def), Mutating: n > 2}
		}
		return &Redirection{Op: opStr, Dest: dest, SourceFD: sourceFD(r, def), Mutating: true}

	default:
		dest := wordLiteral(r.Word)
		return &Redirection{Op: opStr, Dest: dest, SourceFD: sourceFD(r, defaultSourceFD(r.Op)), Mutating: dest != "/dev/null"}
	}
}

func defaultSourceFD(op syntax.RedirOperator) int {
	switch op {
	case syntax.RdrIn, syntax.DplIn, syntax.RdrInOut:
		return 0
	default:
		return 1
	}
}

func sourceFD(r *syntax.Redirect, def int) int {
	if r.N == nil {
		return def
	}
	if n, err := strconv.Atoi(r.N.Value); err == nil {
		return n
	}
	return def
}

func dupTarget(dest string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(dest, "&"))
	if err != nil {
		return 0, false
	}
	return n, true
}

func wordLiteral(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	return unwrapQuotes(printNode(w))
}
