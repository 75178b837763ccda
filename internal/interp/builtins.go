package interp

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"

	"fungen.dev/internal/value"
)

// builtinFn is a built-in command handler; it receives the unevaluated
// command node so it can apply its own deferred-argument policy.
type builtinFn func(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error)

// builtins is keyed by the lower-cased command name (spec §4.2 lists
// CommandType names in PascalCase; this interpreter dispatches
// case-insensitively so both `Add` and `add` resolve the same builtin —
// the scenarios in spec §8 use the lower-case spelling throughout).
var builtins map[string]builtinFn

func init() {
	builtins = map[string]builtinFn{
		"add":              bAdd,
		"subtract":         bSubtract,
		"multiply":         bMultiply,
		"divide":           bDivide,
		"mod":              bMod,
		"selectrandom":     bSelectRandom,
		"randomrange":      bRandomRange,
		"capitalize":       bCapitalize,
		"upper":            bUpper,
		"lower":            bLower,
		"removewhitespace": bRemoveWhitespace,
		"concatenate":      bConcatenate,
		"repeat":           bRepeat,
		"store":            bStore,
		"clone":            bClone,
		"print":            bPrint,
		"ifthen":           bIfThen,
		"ifthenelse":       bIfThenElse,
		"not":              bNot,
		"and":              bAnd,
		"or":               bOr,
		"eq":               bEq,
		"gt":               bGt,
		"lt":               bLt,
		"startswith":       bStartsWith,
		"endswith":         bEndsWith,
		"newline":          bNewLine,
		"while":            bWhile,
		"index":            bIndex,
		"slice":            bSlice,
		"length":           bLength,
		"swap":             bSwap,
		"insert":           bInsert,
		"remove":           bRemove,
		"replace":          bReplace,
	}
}

func anyFloat(args []value.Value) bool {
	for _, a := range args {
		if a.Kind() == value.KindFloat {
			return true
		}
	}
	return false
}

func requireNumeric(cmdType string, args []value.Value) error {
	if len(args) < 2 {
		return typeMismatch(cmdType, "at least 2 numeric args", "fewer")
	}
	for _, a := range args {
		if !a.IsNumeric() {
			return typeMismatch(cmdType, "numeric", a.Kind().String())
		}
	}
	return nil
}

func bAdd(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireNumeric(cmd.Type, args); err != nil {
		return value.Value{}, err
	}
	if anyFloat(args) {
		acc := args[0].AsFloat()
		for _, a := range args[1:] {
			acc += a.AsFloat()
		}
		return value.Float(acc), nil
	}
	acc := args[0].IntVal()
	for _, a := range args[1:] {
		acc += a.IntVal()
	}
	return value.Int(acc), nil
}

func bSubtract(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireNumeric(cmd.Type, args); err != nil {
		return value.Value{}, err
	}
	if anyFloat(args) {
		acc := args[0].AsFloat()
		for _, a := range args[1:] {
			acc -= a.AsFloat()
		}
		return value.Float(acc), nil
	}
	acc := args[0].IntVal()
	for _, a := range args[1:] {
		acc -= a.IntVal()
	}
	return value.Int(acc), nil
}

func bMultiply(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireNumeric(cmd.Type, args); err != nil {
		return value.Value{}, err
	}
	if anyFloat(args) {
		acc := args[0].AsFloat()
		for _, a := range args[1:] {
			acc *= a.AsFloat()
		}
		return value.Float(acc), nil
	}
	acc := args[0].IntVal()
	for _, a := range args[1:] {
		acc *= a.IntVal()
	}
	return value.Int(acc), nil
}

func bDivide(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireNumeric(cmd.Type, args); err != nil {
		return value.Value{}, err
	}
	if anyFloat(args) {
		acc := args[0].AsFloat()
		for _, a := range args[1:] {
			acc /= a.AsFloat()
		}
		if math.IsInf(acc, 0) || math.IsNaN(acc) {
			return value.Value{}, &CommandError{Kind: ErrNonFiniteValue, Command: cmd.Type, Msg: "division produced a non-finite result"}
		}
		return value.Float(acc), nil
	}
	acc := args[0].IntVal()
	for _, a := range args[1:] {
		if a.IntVal() == 0 {
			return value.Value{}, zeroDivision(cmd.Type)
		}
		acc /= a.IntVal()
	}
	return value.Int(acc), nil
}

func bMod(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if err := requireNumeric(cmd.Type, args); err != nil {
		return value.Value{}, err
	}
	if anyFloat(args) {
		acc := args[0].AsFloat()
		for _, a := range args[1:] {
			acc = math.Mod(acc, a.AsFloat())
		}
		return value.Float(acc), nil
	}
	acc := args[0].IntVal()
	for _, a := range args[1:] {
		if a.IntVal() == 0 {
			return value.Value{}, zeroDivision(cmd.Type)
		}
		acc %= a.IntVal()
	}
	return value.Int(acc), nil
}

func bSelectRandom(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) < 2 {
		return value.Value{}, typeMismatch(cmd.Type, "at least 2 args", "fewer")
	}
	return args[rand.IntN(len(args))], nil
}

func bRandomRange(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 2 numeric args", "different count")
	}
	if err := requireNumeric(cmd.Type, args); err != nil {
		return value.Value{}, err
	}
	min, max := args[0].AsFloat(), args[1].AsFloat()
	if min >= max {
		return value.Value{}, customErr(cmd.Type, "min must be less than max")
	}
	if anyFloat(args) {
		return value.Float(min + rand.Float64()*(max-min)), nil
	}
	span := args[1].IntVal() - args[0].IntVal()
	return value.Int(args[0].IntVal() + rand.Int64N(span)), nil
}

func textArg(cmdType string, v value.Value) (string, error) {
	if v.Kind() != value.KindText {
		return "", typeMismatch(cmdType, "Text", v.Kind().String())
	}
	return v.TextVal(), nil
}

func bCapitalize(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 1 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 1 arg", "different count")
	}
	s, err := textArg(cmd.Type, args[0])
	if err != nil {
		return value.Value{}, err
	}
	if s == "" {
		return value.Text(s), nil
	}
	return value.Text(strings.ToUpper(s[:1]) + s[1:]), nil
}

func bUpper(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 1 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 1 arg", "different count")
	}
	s, err := textArg(cmd.Type, args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.Text(strings.ToUpper(s)), nil
}

func bLower(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 1 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 1 arg", "different count")
	}
	s, err := textArg(cmd.Type, args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.Text(strings.ToLower(s)), nil
}

func bRemoveWhitespace(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 1 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 1 arg", "different count")
	}
	s, err := textArg(cmd.Type, args[0])
	if err != nil {
		return value.Value{}, err
	}
	return value.Text(strings.Join(strings.Fields(s), "")), nil
}

func bConcatenate(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.Stringify())
	}
	return value.Text(sb.String()), nil
}

func bRepeat(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) < 1 {
		return value.Value{}, typeMismatch(cmd.Type, "n and at least one body command", "fewer")
	}
	n, err := ip.Eval(ctx, cmd.Args[0])
	if err != nil {
		return value.Value{}, err
	}
	if n.Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "Int", n.Kind().String())
	}
	if n.IntVal() < 0 {
		return value.Value{}, customErr(cmd.Type, "n must be >= 0")
	}
	if n.IntVal() > MaxLoopIterations {
		return value.Value{}, customErr(cmd.Type, "n exceeds the loop iteration limit")
	}
	bodies := cmd.Args[1:]
	for _, b := range bodies {
		if b.Kind() != value.KindCommand {
			return value.Value{}, typeMismatch(cmd.Type, "Command", b.Kind().String())
		}
	}
	var last value.Value = value.None()
	for i := int64(0); i < n.IntVal(); i++ {
		for _, b := range bodies {
			v, err := ip.evalCommand(ctx, b.CommandNode())
			if err != nil {
				return value.Value{}, err
			}
			last = v
		}
	}
	return last, nil
}

func bStore(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) == 0 {
		return value.Value{}, typeMismatch(cmd.Type, "at least 1 arg", "0")
	}
	if len(cmd.Args) == 1 {
		v, err := ip.Eval(ctx, cmd.Args[0])
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind() == value.KindIdentifier || v.Kind() == value.KindNone {
			return value.Value{}, customErr(cmd.Type, "cannot store an identifier or None value")
		}
		ip.vars.SetCopyRegister(v)
		return v, nil
	}

	destRaw := cmd.Args[len(cmd.Args)-1]
	if destRaw.Kind() != value.KindIdentifier {
		return value.Value{}, typeMismatch(cmd.Type, "Identifier as final arg", destRaw.Kind().String())
	}
	valuesRaw := cmd.Args[:len(cmd.Args)-1]
	values := make([]value.Value, len(valuesRaw))
	for i, raw := range valuesRaw {
		v, err := ip.Eval(ctx, raw)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind() == value.KindIdentifier || v.Kind() == value.KindNone {
			return value.Value{}, customErr(cmd.Type, "cannot store an identifier or None value")
		}
		values[i] = v
	}
	var toStore value.Value
	if len(values) == 1 {
		toStore = values[0]
	} else {
		toStore = value.List(values)
	}
	if err := ip.vars.Insert(destRaw.IdentifierName(), toStore); err != nil {
		return value.Value{}, customErr(cmd.Type, err.Error())
	}
	return toStore, nil
}

func bClone(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) == 0 {
		return ip.vars.CopyRegister(), nil
	}
	if len(cmd.Args) != 1 {
		return value.Value{}, typeMismatch(cmd.Type, "0 or 1 args", "more")
	}
	raw := cmd.Args[0]
	if raw.Kind() != value.KindIdentifier {
		return value.Value{}, typeMismatch(cmd.Type, "Identifier", raw.Kind().String())
	}
	v, ok := ip.vars.Get(raw.IdentifierName())
	if !ok {
		return value.Value{}, unknownIdentifier(cmd.Type, raw.IdentifierName())
	}
	return v, nil
}

func bPrint(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.Stringify())
	}
	if err := ip.appendOutput(sb.String()); err != nil {
		return value.Value{}, customErr(cmd.Type, err.Error())
	}
	return value.None(), nil
}

func bIfThen(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) != 2 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 2 args", "different count")
	}
	cond, err := ip.Eval(ctx, cmd.Args[0])
	if err != nil {
		return value.Value{}, err
	}
	if cond.Kind() != value.KindBool {
		return value.Value{}, typeMismatch(cmd.Type, "Bool condition", cond.Kind().String())
	}
	if !cond.BoolVal() {
		return value.None(), nil
	}
	return ip.resolveDeferred(ctx, cmd.Args[1])
}

func bIfThenElse(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) != 3 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 3 args", "different count")
	}
	cond, err := ip.Eval(ctx, cmd.Args[0])
	if err != nil {
		return value.Value{}, err
	}
	if cond.Kind() != value.KindBool {
		return value.Value{}, typeMismatch(cmd.Type, "Bool condition", cond.Kind().String())
	}
	if cond.BoolVal() {
		return ip.resolveDeferred(ctx, cmd.Args[1])
	}
	return ip.resolveDeferred(ctx, cmd.Args[2])
}

func bNot(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 1 || args[0].Kind() != value.KindBool {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 1 Bool arg", "different")
	}
	return value.Bool(!args[0].BoolVal()), nil
}

func bAnd(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) < 2 {
		return value.Value{}, typeMismatch(cmd.Type, "at least 2 Bool args", "fewer")
	}
	result := true
	for _, a := range args {
		if a.Kind() != value.KindBool {
			return value.Value{}, typeMismatch(cmd.Type, "Bool", a.Kind().String())
		}
		result = result && a.BoolVal()
	}
	return value.Bool(result), nil
}

func bOr(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) < 2 {
		return value.Value{}, typeMismatch(cmd.Type, "at least 2 Bool args", "fewer")
	}
	result := false
	for _, a := range args {
		if a.Kind() != value.KindBool {
			return value.Value{}, typeMismatch(cmd.Type, "Bool", a.Kind().String())
		}
		result = result || a.BoolVal()
	}
	return value.Bool(result), nil
}

const floatEpsilon = 0.0001

func bEq(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 2 args", "different count")
	}
	a, b := args[0], args[1]
	switch {
	case a.Kind() == value.KindInt && b.Kind() == value.KindInt:
		return value.Bool(a.IntVal() == b.IntVal()), nil
	case a.IsNumeric() && b.IsNumeric():
		return value.Bool(math.Abs(a.AsFloat()-b.AsFloat()) < floatEpsilon), nil
	case a.Kind() == value.KindBool && b.Kind() == value.KindBool:
		return value.Bool(a.BoolVal() == b.BoolVal()), nil
	case a.Kind() == value.KindText && b.Kind() == value.KindText:
		return value.Bool(a.TextVal() == b.TextVal()), nil
	default:
		return value.Value{}, typeMismatch(cmd.Type, "comparable pair", a.Kind().String()+"/"+b.Kind().String())
	}
}

func bGt(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 || !args[0].IsNumeric() || !args[1].IsNumeric() {
		return value.Value{}, typeMismatch(cmd.Type, "2 numeric args", "different")
	}
	return value.Bool(args[0].AsFloat() > args[1].AsFloat()), nil
}

func bLt(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 || !args[0].IsNumeric() || !args[1].IsNumeric() {
		return value.Value{}, typeMismatch(cmd.Type, "2 numeric args", "different")
	}
	return value.Bool(args[0].AsFloat() < args[1].AsFloat()), nil
}

func bStartsWith(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 || args[0].Kind() != value.KindText || args[1].Kind() != value.KindText {
		return value.Value{}, typeMismatch(cmd.Type, "2 Text args", "different")
	}
	return value.Bool(strings.HasPrefix(args[0].TextVal(), args[1].TextVal())), nil
}

func bEndsWith(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 || args[0].Kind() != value.KindText || args[1].Kind() != value.KindText {
		return value.Value{}, typeMismatch(cmd.Type, "2 Text args", "different")
	}
	return value.Bool(strings.HasSuffix(args[0].TextVal(), args[1].TextVal())), nil
}

func bNewLine(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) != 0 {
		return value.Value{}, typeMismatch(cmd.Type, "0 args", "more")
	}
	return value.Text("\n"), nil
}

func bWhile(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	if len(cmd.Args) < 1 {
		return value.Value{}, typeMismatch(cmd.Type, "a condition command and zero or more body commands", "fewer")
	}
	condRaw := cmd.Args[0]
	if condRaw.Kind() != value.KindCommand {
		return value.Value{}, typeMismatch(cmd.Type, "Command condition", condRaw.Kind().String())
	}
	bodies := cmd.Args[1:]
	for _, b := range bodies {
		if b.Kind() != value.KindCommand {
			return value.Value{}, typeMismatch(cmd.Type, "Command", b.Kind().String())
		}
	}
	var last value.Value = value.None()
	iterations := 0
	for {
		cond, err := ip.evalCommand(ctx, condRaw.CommandNode())
		if err != nil {
			return value.Value{}, err
		}
		if cond.Kind() != value.KindBool {
			return value.Value{}, typeMismatch(cmd.Type, "Bool condition", cond.Kind().String())
		}
		if !cond.BoolVal() {
			break
		}
		iterations++
		if iterations >= MaxLoopIterations {
			return value.Value{}, customErr(cmd.Type, "loop iteration limit exceeded")
		}
		for _, b := range bodies {
			v, err := ip.evalCommand(ctx, b.CommandNode())
			if err != nil {
				return value.Value{}, err
			}
			last = v
		}
	}
	return last, nil
}

func indexableLen(v value.Value) (int, bool) {
	switch v.Kind() {
	case value.KindText:
		return len([]rune(v.TextVal())), true
	case value.KindList:
		return len(v.ListItems()), true
	default:
		return 0, false
	}
}

func bIndex(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 || args[0].Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "Int index and Text/List target", "different")
	}
	i := int(args[0].IntVal())
	n, ok := indexableLen(args[1])
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", args[1].Kind().String())
	}
	if i < 0 || i >= n {
		return value.Value{}, outOfBounds(cmd.Type, "index out of range")
	}
	if args[1].Kind() == value.KindText {
		return value.Text(string([]rune(args[1].TextVal())[i])), nil
	}
	return args[1].ListItems()[i], nil
}

func bSlice(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 3 || args[0].Kind() != value.KindInt || args[1].Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "Int a, Int b, Text/List target", "different")
	}
	a, b := int(args[0].IntVal()), int(args[1].IntVal())
	if a >= b {
		return value.Value{}, customErr(cmd.Type, "a must be less than b")
	}
	n, ok := indexableLen(args[2])
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", args[2].Kind().String())
	}
	if a < 0 || b > n {
		return value.Value{}, outOfBounds(cmd.Type, "slice out of range")
	}
	if args[2].Kind() == value.KindText {
		return value.Text(string([]rune(args[2].TextVal())[a:b])), nil
	}
	items := args[2].ListItems()
	cp := make([]value.Value, b-a)
	copy(cp, items[a:b])
	return value.List(cp), nil
}

func bLength(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 1 {
		return value.Value{}, typeMismatch(cmd.Type, "exactly 1 arg", "different count")
	}
	n, ok := indexableLen(args[0])
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", args[0].Kind().String())
	}
	return value.Int(int64(n)), nil
}

func bSwap(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 3 || args[0].Kind() != value.KindInt || args[1].Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "Int a, Int b, Text/List target", "different")
	}
	a, b := int(args[0].IntVal()), int(args[1].IntVal())
	n, ok := indexableLen(args[2])
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", args[2].Kind().String())
	}
	if a < 0 || a >= n || b < 0 || b >= n {
		return value.Value{}, outOfBounds(cmd.Type, "swap index out of range")
	}
	if args[2].Kind() == value.KindText {
		runes := []rune(args[2].TextVal())
		runes[a], runes[b] = runes[b], runes[a]
		return value.Text(string(runes)), nil
	}
	items := append([]value.Value(nil), args[2].ListItems()...)
	items[a], items[b] = items[b], items[a]
	return value.List(items), nil
}

func bInsert(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 3 || args[1].Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "value, Int index, Text/List target", "different")
	}
	val, idx, target := args[0], int(args[1].IntVal()), args[2]
	n, ok := indexableLen(target)
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", target.Kind().String())
	}
	if idx < 0 || idx > n {
		return value.Value{}, outOfBounds(cmd.Type, "insert index out of range")
	}
	if target.Kind() == value.KindText {
		if val.Kind() != value.KindText {
			return value.Value{}, typeMismatch(cmd.Type, "Text value for Text target", val.Kind().String())
		}
		runes := []rune(target.TextVal())
		out := append([]rune{}, runes[:idx]...)
		out = append(out, []rune(val.TextVal())...)
		out = append(out, runes[idx:]...)
		return value.Text(string(out)), nil
	}
	if val.Kind() == value.KindIdentifier || val.Kind() == value.KindNone {
		return value.Value{}, typeMismatch(cmd.Type, "concrete value for List target", val.Kind().String())
	}
	items := target.ListItems()
	out := make([]value.Value, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, val)
	out = append(out, items[idx:]...)
	return value.List(out), nil
}

func bRemove(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 2 || args[0].Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "Int index, Text/List target", "different")
	}
	idx, target := int(args[0].IntVal()), args[1]
	n, ok := indexableLen(target)
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", target.Kind().String())
	}
	if idx < 0 || idx >= n {
		return value.Value{}, outOfBounds(cmd.Type, "remove index out of range")
	}
	if target.Kind() == value.KindText {
		runes := []rune(target.TextVal())
		out := append([]rune{}, runes[:idx]...)
		out = append(out, runes[idx+1:]...)
		return value.Text(string(out)), nil
	}
	items := target.ListItems()
	out := make([]value.Value, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return value.List(out), nil
}

func bReplace(ctx context.Context, ip *Interpreter, cmd *value.Command) (value.Value, error) {
	args, err := ip.evalArgs(ctx, cmd.Args)
	if err != nil {
		return value.Value{}, err
	}
	if len(args) != 3 || args[1].Kind() != value.KindInt {
		return value.Value{}, typeMismatch(cmd.Type, "value, Int index, Text/List target", "different")
	}
	val, idx, target := args[0], int(args[1].IntVal()), args[2]
	n, ok := indexableLen(target)
	if !ok {
		return value.Value{}, typeMismatch(cmd.Type, "Text or List", target.Kind().String())
	}
	if idx < 0 || idx >= n {
		return value.Value{}, outOfBounds(cmd.Type, "replace index out of range")
	}
	if target.Kind() == value.KindText {
		if val.Kind() != value.KindText {
			return value.Value{}, typeMismatch(cmd.Type, "Text value for Text target", val.Kind().String())
		}
		runes := []rune(target.TextVal())
		replacement := []rune(val.TextVal())
		out := append([]rune{}, runes[:idx]...)
		out = append(out, replacement...)
		out = append(out, runes[idx+1:]...)
		return value.Text(string(out)), nil
	}
	if val.Kind() == value.KindIdentifier || val.Kind() == value.KindNone {
		return value.Value{}, typeMismatch(cmd.Type, "concrete value for List target", val.Kind().String())
	}
	items := append([]value.Value(nil), target.ListItems()...)
	items[idx] = val
	return value.List(items), nil
}
