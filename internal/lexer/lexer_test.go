package lexer

import "testing"

func TestLexBasic(t *testing.T) {
	toks, err := Lex(`print("hi", 1, 2.5, x, true)`)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	want := []Kind{KindIdentifier, KindPunct, KindText, KindPunct, KindInt, KindPunct, KindFloat, KindPunct, KindIdentifier, KindPunct, KindBool, KindPunct, KindEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got kind %v want %v (%+v)", i, toks[i].Kind, k, toks[i])
		}
	}
}

func TestLexNegativeNumber(t *testing.T) {
	toks, err := Lex(`-5`)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	if toks[0].Kind != KindInt || toks[0].Value != "-5" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexMethodCallDot(t *testing.T) {
	toks, err := Lex(`x.foo(y)`)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	// identifier x, punct ., identifier foo, punct (, identifier y, punct ), EOF
	if toks[1].Kind != KindPunct || toks[1].Value != "." {
		t.Fatalf("expected dot punctuation, got %+v", toks[1])
	}
}

func TestLexUnterminatedString(t *testing.T) {
	if _, err := Lex(`print("hi)`); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestLexUnexpectedChar(t *testing.T) {
	if _, err := Lex(`print(#)`); err == nil {
		t.Fatal("expected error for unexpected character")
	}
}

func TestLexEscapes(t *testing.T) {
	toks, err := Lex(`"a\"b\\c\nd"`)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	if toks[0].Value != "a\"b\\c\nd" {
		t.Fatalf("got %q", toks[0].Value)
	}
}
