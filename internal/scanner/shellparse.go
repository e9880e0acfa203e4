// Copyright 2026 The Preflight Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scanner

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ParsedCommand is one invoked sub-command found inside a raw command line.
type ParsedCommand struct {
	// Command is the invoked program name as written.
	Command string `json:"command"`

	// Args are the argument words, literal text and simple parameter
	// expansions concatenated per word.
	Args []string `json:"args,omitempty"`

	// Raw is the source text of the statement this command came from.
	Raw string `json:"raw"`

	// Piped is true for every stage after the first in a pipeline.
	Piped bool `json:"piped,omitempty"`

	// HasSubshell is true for commands extracted from $(...), backticks,
	// or a parenthesized subshell.
	HasSubshell bool `json:"has_subshell,omitempty"`

	// HasRedirect is true when the statement carries any redirection.
	HasRedirect bool `json:"has_redirect,omitempty"`
}

// ParseResult is the outcome of parsing one raw command line.
//
// Success=false means the line could not be validated, not that it is
// safe or unsafe; callers must fall back to raw-text signature matching.
type ParseResult struct {
	Success  bool            `json:"success"`
	Commands []ParsedCommand `json:"commands,omitempty"`
	Err      string          `json:"error,omitempty"`
}

// ParseCommandLine parses one shell command line into the ordered list of
// sub-commands it invokes, resolving pipelines, &&/|| chains, subshells,
// command substitutions, and multi-statement scripts.
func ParseCommandLine(raw string) ParseResult {
	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(raw), "")
	if err != nil {
		return ParseResult{Success: false, Err: err.Error()}
	}

	w := &cmdWalker{src: raw}
	for _, stmt := range file.Stmts {
		w.stmt(stmt, walkFlags{})
	}
	return ParseResult{Success: true, Commands: w.out}
}

// walkFlags carries positional context down the AST walk.
type walkFlags struct {
	piped    bool
	subshell bool
	redirect bool
}

type cmdWalker struct {
	src string
	out []ParsedCommand
}

func (w *cmdWalker) stmt(stmt *syntax.Stmt, f walkFlags) {
	if stmt == nil || stmt.Cmd == nil {
		return
	}
	if len(stmt.Redirs) > 0 {
		f.redirect = true
		for _, redir := range stmt.Redirs {
			if redir.Word != nil {
				w.wordText(redir.Word, f)
			}
		}
	}
	w.command(stmt.Cmd, f)
}

func (w *cmdWalker) stmts(stmts []*syntax.Stmt, f walkFlags) {
	for _, stmt := range stmts {
		w.stmt(stmt, f)
	}
}

// command dispatches on the grammar node kind. Node kinds that cannot
// directly invoke a program (arithmetic, tests, declarations) still get
// their words walked so command substitutions inside them are found.
func (w *cmdWalker) command(cmd syntax.Command, f walkFlags) {
	switch c := cmd.(type) {
	case *syntax.CallExpr:
		w.call(c, f)

	case *syntax.BinaryCmd:
		switch c.Op {
		case syntax.Pipe, syntax.PipeAll:
			w.stmt(c.X, f)
			right := f
			right.piped = true
			w.stmt(c.Y, right)
		default: // && and ||: both branches, order preserved
			w.stmt(c.X, f)
			w.stmt(c.Y, f)
		}

	case *syntax.Subshell:
		inner := f
		inner.subshell = true
		w.stmts(c.Stmts, inner)

	case *syntax.Block:
		w.stmts(c.Stmts, f)

	case *syntax.IfClause:
		w.stmts(c.Cond, f)
		w.stmts(c.Then, f)
		if c.Else != nil {
			w.command(c.Else, f)
		}

	case *syntax.WhileClause:
		w.stmts(c.Cond, f)
		w.stmts(c.Do, f)

	case *syntax.ForClause:
		if iter, ok := c.Loop.(*syntax.WordIter); ok {
			for _, word := range iter.Items {
				w.wordText(word, f)
			}
		}
		w.stmts(c.Do, f)

	case *syntax.CaseClause:
		if c.Word != nil {
			w.wordText(c.Word, f)
		}
		for _, item := range c.Items {
			w.stmts(item.Stmts, f)
		}

	case *syntax.FuncDecl:
		w.stmt(c.Body, f)

	case *syntax.DeclClause:
		for _, assign := range c.Args {
			if assign.Value != nil {
				w.wordText(assign.Value, f)
			}
		}

	case *syntax.TimeClause:
		w.stmt(c.Stmt, f)

	case *syntax.CoprocClause:
		w.stmt(c.Stmt, f)

	case *syntax.ArithmCmd, *syntax.TestClause, *syntax.LetClause:
		// No program invocation of their own.
	}
}

func (w *cmdWalker) call(c *syntax.CallExpr, f walkFlags) {
	// VAR=$(cmd) prefixes still run the substituted command.
	for _, assign := range c.Assigns {
		if assign.Value != nil {
			w.wordText(assign.Value, f)
		}
	}
	if len(c.Args) == 0 {
		return
	}

	name := w.wordText(c.Args[0], f)
	args := make([]string, 0, len(c.Args)-1)
	for _, word := range c.Args[1:] {
		args = append(args, w.wordText(word, f))
	}
	if name == "" {
		return
	}

	w.out = append(w.out, ParsedCommand{
		Command:     name,
		Args:        args,
		Raw:         w.span(c.Pos(), c.End()),
		Piped:       f.piped,
		HasSubshell: f.subshell,
		HasRedirect: f.redirect,
	})
}

// wordText flattens a word into text, concatenating literals, quoted
// segments, and simple parameter expansions. Command substitutions inside
// the word are walked as nested subshell commands and contribute their
// source text to the word.
func (w *cmdWalker) wordText(word *syntax.Word, f walkFlags) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		sb.WriteString(w.partText(part, f))
	}
	return sb.String()
}

func (w *cmdWalker) partText(part syntax.WordPart, f walkFlags) string {
	switch p := part.(type) {
	case *syntax.Lit:
		return p.Value
	case *syntax.SglQuoted:
		return p.Value
	case *syntax.DblQuoted:
		var sb strings.Builder
		for _, inner := range p.Parts {
			sb.WriteString(w.partText(inner, f))
		}
		return sb.String()
	case *syntax.ParamExp:
		if p.Short && p.Param != nil {
			return "$" + p.Param.Value
		}
		return w.span(p.Pos(), p.End())
	case *syntax.CmdSubst:
		inner := f
		inner.subshell = true
		w.stmts(p.Stmts, inner)
		return w.span(p.Pos(), p.End())
	case *syntax.ProcSubst:
		inner := f
		inner.subshell = true
		w.stmts(p.Stmts, inner)
		return w.span(p.Pos(), p.End())
	default:
		return w.span(part.Pos(), part.End())
	}
}

// span returns the raw source text between two positions, clamped to the
// input bounds.
func (w *cmdWalker) span(from, to syntax.Pos) string {
	start := int(from.Offset())
	end := int(to.Offset())
	if start < 0 || end > len(w.src) || start >= end {
		return ""
	}
	return w.src[start:end]
}
