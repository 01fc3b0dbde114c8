package frontend

import (
	"testing"

	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/source"
	"github.com/google/go-cmp/cmp"
)

func lexSymbols(t *testing.T, input string) []TokenSymbol {
	t.Helper()

	toks, msg := Lex(source.NewFile("test", input))
	if msg != nil {
		t.Fatalf("lex %q: %v", input, msg)
	}

	syms := make([]TokenSymbol, len(toks))
	for i, tok := range toks {
		syms[i] = tok.Symbol
	}
	return syms
}

func TestLexSymbols(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenSymbol
	}{
		{"3d20h2 + atk;", []TokenSymbol{IntegerSymbol, DieSymbol, IntegerSymbol, KeepHighSymbol, IntegerSymbol, PlusSymbol, CommandSymbol, SemicolonSymbol, EOFSymbol}},
		{"5d10l1", []TokenSymbol{IntegerSymbol, DieSymbol, IntegerSymbol, KeepLowSymbol, IntegerSymbol, EOFSymbol}},
		{"1.5 * .5 / 2", []TokenSymbol{FloatSymbol, TimesSymbol, FloatSymbol, DivideSymbol, IntegerSymbol, EOFSymbol}},
		{"dminit(2, -3)", []TokenSymbol{DMInitKeyword, LParenSymbol, IntegerSymbol, CommaSymbol, MinusSymbol, IntegerSymbol, RParenSymbol, EOFSymbol}},
		{"help;read;reread", []TokenSymbol{HelpKeyword, SemicolonSymbol, ReadKeyword, SemicolonSymbol, RereadKeyword, EOFSymbol}},
		{"loadcon(pf)", []TokenSymbol{LoadConKeyword, LParenSymbol, CommandSymbol, RParenSymbol, EOFSymbol}},
		{"roll_2 = dd", []TokenSymbol{CommandSymbol, AssignSymbol, CommandSymbol, EOFSymbol}},
		{"d", []TokenSymbol{DieSymbol, EOFSymbol}},
		{"  \t", []TokenSymbol{EOFSymbol}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, lexSymbols(t, tt.input)); diff != "" {
				t.Fatalf("symbols mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexLexemesAndSpans(t *testing.T) {
	toks, msg := Lex(source.NewFile("test", "12 + foo"))
	if msg != nil {
		t.Fatalf("lex: %v", msg)
	}

	want := []Token{
		{IntegerSymbol, "12", source.Span{Start: source.Pos{Line: 1, Col: 1}, End: source.Pos{Line: 1, Col: 2}}},
		{PlusSymbol, "+", source.Span{Start: source.Pos{Line: 1, Col: 4}, End: source.Pos{Line: 1, Col: 4}}},
		{CommandSymbol, "foo", source.Span{Start: source.Pos{Line: 1, Col: 6}, End: source.Pos{Line: 1, Col: 8}}},
	}

	if diff := cmp.Diff(want, toks[:3]); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(EOFSymbol, toks[3].Symbol); diff != "" {
		t.Fatalf("expected trailing EOF (-want +got):\n%s", diff)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5.", "Illegal character '.'"},
		{"2 # 3", "Illegal character '#'"},
		{"x + 1", "Illegal character 'x'"},
		{"1d6 & 2", "Illegal character '&'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, msg := Lex(source.NewFile("test", tt.input))
			if msg == nil {
				t.Fatal("expected lex error")
			}
			if !feedback.Is(msg, feedback.LexError) {
				t.Fatalf("expected lex error, got %v", msg)
			}
			if diff := cmp.Diff(tt.want, msg.Error()); diff != "" {
				t.Fatalf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerPeekDoesNotAdvance(t *testing.T) {
	lexer := NewLexer(source.NewFile("test", "1 + 2"))

	first, _ := lexer.Peek()
	again, _ := lexer.Peek()
	next, _ := lexer.Next()

	if first != again || first != next {
		t.Fatalf("expected peeked token to be returned by Next, got %v %v %v", first, again, next)
	}

	lexer.Reset()
	if tok, _ := lexer.Next(); tok != first {
		t.Fatalf("expected reset lexer to start over, got %v", tok)
	}
}
