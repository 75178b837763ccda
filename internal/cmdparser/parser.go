// Package cmdparser folds a lexer token stream into a command tree (C2):
// a sequence of top-level Command nodes with typed, possibly-nested
// argument values. Method-call syntax `x.foo(y, z)` is rewritten to
// `foo(x, y, z)` as the tokens are consumed.
package cmdparser

import (
	"fmt"
	"strconv"

	"fungen.dev/internal/lexer"
	"fungen.dev/internal/value"
)

// Error is a Parse-kind error.
type Error struct {
	Msg string
	Pos int
}

func (e *Error) Error() string { return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg) }

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes-folded output of lexer.Lex into top-level commands.
func Parse(tokens []lexer.Token) ([]*value.Command, error) {
	p := &parser{tokens: tokens}
	var commands []*value.Command
	for p.current().Kind != lexer.KindEOF {
		v, err := p.parseTermWithChain()
		if err != nil {
			return nil, err
		}
		if v.Kind() != value.KindCommand {
			return nil, &Error{Msg: "expected a command at top level", Pos: p.current().Pos}
		}
		commands = append(commands, v.CommandNode())
	}
	return commands, nil
}

func (p *parser) current() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Kind: lexer.KindEOF}
}

func (p *parser) advance() lexer.Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) expectPunct(val string) error {
	t := p.current()
	if t.Kind != lexer.KindPunct || t.Value != val {
		return &Error{Msg: fmt.Sprintf("expected %q, got %q", val, t.Value), Pos: t.Pos}
	}
	p.advance()
	return nil
}

// parsePrimaryTerm parses a literal, a bare identifier, or a direct
// CommandType(args...) call.
func (p *parser) parsePrimaryTerm() (value.Value, error) {
	t := p.current()
	switch t.Kind {
	case lexer.KindIdentifier:
		p.advance()
		if p.current().Kind == lexer.KindPunct && p.current().Value == "(" {
			return p.parseCommandCall(t.Value)
		}
		return value.Identifier(t.Value), nil
	case lexer.KindInt:
		p.advance()
		n, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return value.Value{}, &Error{Msg: "invalid integer literal " + t.Value, Pos: t.Pos}
		}
		return value.Int(n), nil
	case lexer.KindFloat:
		p.advance()
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return value.Value{}, &Error{Msg: "invalid float literal " + t.Value, Pos: t.Pos}
		}
		return value.Float(f), nil
	case lexer.KindText:
		p.advance()
		return value.Text(t.Value), nil
	case lexer.KindBool:
		p.advance()
		return value.Bool(t.Value == "true"), nil
	default:
		return value.Value{}, &Error{Msg: fmt.Sprintf("unexpected token %q", t.Value), Pos: t.Pos}
	}
}

// parseCommandCall parses "(" argList? ")" assuming name has already been
// consumed and the current token is "(".
func (p *parser) parseCommandCall(name string) (value.Value, error) {
	if err := p.expectPunct("("); err != nil {
		return value.Value{}, err
	}
	args, err := p.parseArgList()
	if err != nil {
		return value.Value{}, err
	}
	if err := p.expectPunct(")"); err != nil {
		return value.Value{}, err
	}
	return value.Cmd(&value.Command{Type: name, Args: args}), nil
}

// parseArgList parses zero or more comma-separated args up to (but not
// consuming) the closing ")".
func (p *parser) parseArgList() ([]value.Value, error) {
	var args []value.Value
	if p.current().Kind == lexer.KindPunct && p.current().Value == ")" {
		return args, nil
	}
	for {
		v, err := p.parseTermWithChain()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if p.current().Kind == lexer.KindPunct && p.current().Value == "," {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// parseTermWithChain parses a primary term and rewrites any trailing
// `.method(args...)` chain into nested Command values, per spec §4.2.
func (p *parser) parseTermWithChain() (value.Value, error) {
	v, err := p.parsePrimaryTerm()
	if err != nil {
		return value.Value{}, err
	}
	for p.current().Kind == lexer.KindPunct && p.current().Value == "." {
		p.advance()
		methodTok := p.current()
		if methodTok.Kind != lexer.KindIdentifier {
			return value.Value{}, &Error{Msg: "expected method name after '.'", Pos: methodTok.Pos}
		}
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return value.Value{}, err
		}
		args, err := p.parseArgList()
		if err != nil {
			return value.Value{}, err
		}
		if err := p.expectPunct(")"); err != nil {
			return value.Value{}, err
		}
		allArgs := append([]value.Value{v}, args...)
		v = value.Cmd(&value.Command{Type: methodTok.Value, Args: allArgs})
	}
	return v, nil
}
