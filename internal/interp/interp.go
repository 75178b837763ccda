// Package interp implements the tree-walking interpreter (C5) for the
// embedded command language: lexing and parsing are delegated to
// internal/lexer and internal/cmdparser, and this package owns command
// dispatch, the deferred-argument table that makes control flow work,
// the ~40 built-in commands, and the host command-registration surface
// consumed by the generation orchestrator (get_sub) and any front end.
package interp

import (
	"context"
	"fmt"
	"strings"

	"fungen.dev/internal/cmdparser"
	"fungen.dev/internal/fungerr"
	"fungen.dev/internal/lexer"
	"fungen.dev/internal/value"
	"fungen.dev/internal/vars"
)

// MaxOutputBytes bounds the text a single interpret/generate call may
// produce via Print and the implicit final-value append (spec §4.3).
const MaxOutputBytes = 8000

// MaxLoopIterations bounds Repeat and While (spec §4.3).
const MaxLoopIterations = 65535

// ArgType names the positional type requirement for a host-registered
// command's argument (spec §4.3 add_command).
type ArgType int

const (
	ArgAny ArgType = iota
	ArgText
	ArgInt
	ArgFloat
	ArgNumeric
	ArgBool
	ArgList
	ArgCommand
)

// ArgRule is one positional requirement in a CommandSpec's arg list.
type ArgRule struct {
	Type     ArgType
	Optional bool
}

// Executor is a host-registered command's implementation. It receives the
// command node and its evaluated args; any per-generation state it needs
// is captured by the closure the host registers via AddCommand — the
// interpreter itself is agnostic to it.
type Executor func(ctx context.Context, cmd *value.Command, args []value.Value) (value.Value, error)

// CommandSpec pairs a host command's argument rules with its executor.
type CommandSpec struct {
	Args []ArgRule
	Exec Executor
}

// Interpreter is the tree-walking evaluator over one generation's worth
// of command-language fragments. A fresh Interpreter (or at least a
// fresh ResetData) is used per top-level generate call (spec §3
// Lifecycle); the custom-command registry is the one piece of state
// that is expected to outlive a single call, mutated only before first
// use and read-only thereafter (spec §5).
type Interpreter struct {
	vars   *vars.Store
	output strings.Builder
	custom map[string]CommandSpec
}

// New creates an interpreter with empty variable storage.
func New() *Interpreter {
	return &Interpreter{
		vars:   vars.New(),
		custom: make(map[string]CommandSpec),
	}
}

// AddCommand registers a host command. Registering a name that already
// exists overrides the previous registration — including a built-in of
// the same name (spec §9: "override wins").
func (ip *Interpreter) AddCommand(name string, spec CommandSpec) {
	ip.custom[strings.ToLower(name)] = spec
}

// ResetData clears variables, the copy register, and any buffered
// output, but leaves the custom-command registry intact.
func (ip *Interpreter) ResetData() {
	ip.vars.Reset()
	ip.output.Reset()
}

// Vars exposes the variable store, mainly so front ends can pre-seed
// bindings before calling Interpret.
func (ip *Interpreter) Vars() *vars.Store { return ip.vars }

// Interpret parses code and evaluates each top-level command in order.
// The final command's value, unless it is List, Command, or None, is
// stringified and appended to the output. The accumulated output is
// returned and drained.
func (ip *Interpreter) Interpret(ctx context.Context, code string) (string, error) {
	toks, err := lexer.Lex(code)
	if err != nil {
		return "", fungerr.InterpreterWrap("lex error", err)
	}
	cmds, err := cmdparser.Parse(toks)
	if err != nil {
		return "", fungerr.InterpreterWrap("parse error", err)
	}

	var last value.Value
	for _, cmd := range cmds {
		v, err := ip.evalCommand(ctx, cmd)
		if err != nil {
			return "", fungerr.InterpreterWrap(fmt.Sprintf("command %q failed", cmd.Type), err)
		}
		last = v
	}

	switch last.Kind() {
	case value.KindList, value.KindCommand, value.KindNone:
		// not appended
	default:
		if err := ip.appendOutput(last.Stringify()); err != nil {
			return "", fungerr.InterpreterWrap("output limit", err)
		}
	}

	out := ip.output.String()
	ip.output.Reset()
	return out, nil
}

// InterpretEmbeddedCode scans mixed text for `{ ... }` fragments with
// nested-brace tolerance, invokes Interpret on each fragment, and splices
// the result back inline. Unmatched braces fail.
func (ip *Interpreter) InterpretEmbeddedCode(ctx context.Context, mixed string) (string, error) {
	var out strings.Builder
	var stack []*strings.Builder
	depth := 0

	runes := []rune(mixed)
	for _, c := range runes {
		switch c {
		case '{':
			depth++
			stack = append(stack, &strings.Builder{})
		case '}':
			if depth == 0 {
				return "", fungerr.Interpreter("unmatched closing brace")
			}
			depth--
			frag := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			result, err := ip.Interpret(ctx, frag.String())
			if err != nil {
				return "", err
			}
			if depth == 0 {
				out.WriteString(result)
			} else {
				stack[len(stack)-1].WriteString(result)
			}
		default:
			if depth == 0 {
				out.WriteRune(c)
			} else {
				stack[len(stack)-1].WriteRune(c)
			}
		}
	}
	if depth != 0 {
		return "", fungerr.Interpreter("unmatched opening brace")
	}
	return out.String(), nil
}

// appendOutput appends s to the output buffer, failing if doing so would
// exceed MaxOutputBytes.
func (ip *Interpreter) appendOutput(s string) error {
	if ip.output.Len()+len(s) > MaxOutputBytes {
		return fmt.Errorf("output would exceed %d bytes", MaxOutputBytes)
	}
	ip.output.WriteString(s)
	return nil
}

// Eval resolves v to a concrete value: identifiers are looked up in the
// variable store, commands are dispatched, and everything else passes
// through unchanged.
func (ip *Interpreter) Eval(ctx context.Context, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindIdentifier:
		vv, err := ip.vars.GetOrErr(v.IdentifierName())
		if err != nil {
			return value.Value{}, err
		}
		return vv, nil
	case value.KindCommand:
		return ip.evalCommand(ctx, v.CommandNode())
	default:
		return v, nil
	}
}

// resolveDeferred evaluates a deferred branch argument (IfThen/IfThenElse
// then/else): a Command is evaluated, an Identifier is resolved, anything
// else passes through as-is.
func (ip *Interpreter) resolveDeferred(ctx context.Context, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindCommand:
		return ip.evalCommand(ctx, v.CommandNode())
	case value.KindIdentifier:
		return ip.vars.GetOrErr(v.IdentifierName())
	default:
		return v, nil
	}
}

// evalArgs evaluates every argument in order (used by commands with no
// deferred positions).
func (ip *Interpreter) evalArgs(ctx context.Context, args []value.Value) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := ip.Eval(ctx, a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalCommand dispatches a single command node: custom registrations win
// over built-ins of the same name, per spec §9.
func (ip *Interpreter) evalCommand(ctx context.Context, cmd *value.Command) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return value.Value{}, err
	}
	lname := strings.ToLower(cmd.Type)

	if spec, ok := ip.custom[lname]; ok {
		return ip.dispatchCustom(ctx, cmd, spec)
	}
	if fn, ok := builtins[lname]; ok {
		return fn(ctx, ip, cmd)
	}
	return value.Value{}, customErr(cmd.Type, "unknown command")
}

func (ip *Interpreter) dispatchCustom(ctx context.Context, cmd *value.Command, spec CommandSpec) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	for i, rule := range spec.Args {
		if i >= len(args) {
			if rule.Optional {
				continue
			}
			return value.Value{}, typeMismatch(cmd.Type, "argument at index "+fmt.Sprint(i), "missing")
		}
		if !argMatches(rule.Type, args[i]) {
			return value.Value{}, typeMismatch(cmd.Type, argTypeName(rule.Type), args[i].Kind().String())
		}
	}
	return spec.Exec(ctx, cmd, args)
}

func argMatches(t ArgType, v value.Value) bool {
	switch t {
	case ArgAny:
		return true
	case ArgText:
		return v.Kind() == value.KindText
	case ArgInt:
		return v.Kind() == value.KindInt
	case ArgFloat:
		return v.Kind() == value.KindFloat
	case ArgNumeric:
		return v.IsNumeric()
	case ArgBool:
		return v.Kind() == value.KindBool
	case ArgList:
		return v.Kind() == value.KindList
	case ArgCommand:
		return v.Kind() == value.KindCommand
	default:
		return true
	}
}

func argTypeName(t ArgType) string {
	switch t {
	case ArgText:
		return "Text"
	case ArgInt:
		return "Int"
	case ArgFloat:
		return "Float"
	case ArgNumeric:
		return "numeric"
	case ArgBool:
		return "Bool"
	case ArgList:
		return "List"
	case ArgCommand:
		return "Command"
	default:
		return "any"
	}
}
