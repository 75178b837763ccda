// Package substitutor implements the delimiter-parameterized template
// substitution engine (C6): given one of the four recognized delimiters,
// it finds delimited identifier references in a body of text and either
// renames them in place or replaces them via a caller-supplied mapper,
// with a recursive variant that runs to a fixed point or a cycle.
package substitutor

import (
	"context"
	"crypto/sha256"
	"regexp"
)

// Delimiter is one of the four recognized substitution markers.
type Delimiter rune

const (
	Caret       Delimiter = '^'
	SingleQuote Delimiter = '\''
	BackTick    Delimiter = '`'
	PlusRegister Delimiter = '$'
)

func (d Delimiter) String() string { return string(rune(d)) }

// maxRecursiveIterations bounds substitute_recursively's fixed-point loop
// (spec §4.5).
const maxRecursiveIterations = 255

// Substitutor matches and rewrites identifier references delimited by one
// fixed delimiter rune.
type Substitutor struct {
	delim Delimiter
	re    *regexp.Regexp
}

// New builds a Substitutor for the given delimiter. The pattern matches
// `D[a-z0-9_]+D?` — a leading delimiter, a lower-case/digit/underscore
// identifier, and an optional trailing delimiter (spec §4.5), so `^x^y`
// parses as `^x^` followed by `^y`, while `^x ` parses as just `^x`.
func New(d Delimiter) *Substitutor {
	q := regexp.QuoteMeta(d.String())
	return &Substitutor{
		delim: d,
		re:    regexp.MustCompile(q + `([a-z0-9_]+)` + q + `?`),
	}
}

// Rename rewrites every match whose captured identifier equals old to the
// same delimited form with new in its place, preserving whatever trailing
// portion (the optional trailing delimiter, or nothing) the original match
// had. Matches for any other identifier pass through unchanged. Single
// pass — does not recurse into its own output.
func (s *Substitutor) Rename(input, old, new string) string {
	return s.re.ReplaceAllStringFunc(input, func(match string) string {
		sub := s.re.FindStringSubmatch(match)
		ident := sub[1]
		if ident != old {
			return match
		}
		trailing := match[len(s.delim.String())+len(ident):]
		return s.delim.String() + new + trailing
	})
}

// Mapper resolves a delimited identifier to its replacement text, or
// reports no replacement (the identifier is left verbatim) via ok=false.
type Mapper func(ctx context.Context, identifier string) (text string, ok bool, err error)

// Substitute runs one pass over input, calling mapper for every matched
// identifier in left-to-right order. A resolved match — delimiters and
// all — is replaced wholesale by the mapper's text with no delimiter
// re-inserted, so a second pass only re-matches if the replacement text
// itself contains a delimited reference (intentional, for nested
// templates). An unresolved match is left verbatim, trailing delimiter
// included. All literal text outside of matches is preserved unchanged.
func (s *Substitutor) Substitute(ctx context.Context, input string, mapper Mapper) (string, error) {
	locs := s.re.FindAllStringSubmatchIndex(input, -1)
	if locs == nil {
		return input, nil
	}
	var out []byte
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		identStart, identEnd := loc[2], loc[3]
		out = append(out, input[last:start]...)
		ident := input[identStart:identEnd]
		text, ok, err := mapper(ctx, ident)
		if err != nil {
			return "", err
		}
		if ok {
			out = append(out, text...)
		} else {
			out = append(out, input[start:end]...)
		}
		last = end
	}
	out = append(out, input[last:]...)
	return string(out), nil
}

// SubstituteRecursively runs Substitute repeatedly over its own output
// until the output's hash repeats a previously seen hash (a cycle — the
// loop stops and returns the last output) or until
// maxRecursiveIterations passes have run.
func (s *Substitutor) SubstituteRecursively(ctx context.Context, input string, mapper Mapper) (string, error) {
	seen := make(map[[32]byte]bool)
	output := input
	for i := 0; i < maxRecursiveIterations; i++ {
		h := sha256.Sum256([]byte(output))
		if seen[h] {
			break
		}
		seen[h] = true
		next, err := s.Substitute(ctx, output, mapper)
		if err != nil {
			return "", err
		}
		output = next
	}
	return output, nil
}
