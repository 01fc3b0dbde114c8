package frontend

import (
	"github.com/Orcthanc/discord-dieroller/source"
)

// TokenSymbol is the classification system for tokens. Identifier and literal
// tokens are represented by general token symbols (like "Command") while
// keywords, operators and punctuation are represented by their literal values
type TokenSymbol string

// Token structs represent a lexical atom and are tagged with a token symbol
// classification, and source line/column data
type Token struct {
	Symbol TokenSymbol
	Lexeme string
	Span   source.Span
}

// The token symbols of the dice language
const (
	EOFSymbol       TokenSymbol = "EOF"
	CommandSymbol   TokenSymbol = "Command"
	IntegerSymbol   TokenSymbol = "Integer"
	FloatSymbol     TokenSymbol = "Float"
	PlusSymbol      TokenSymbol = "+"
	MinusSymbol     TokenSymbol = "-"
	TimesSymbol     TokenSymbol = "*"
	DivideSymbol    TokenSymbol = "/"
	AssignSymbol    TokenSymbol = "="
	DieSymbol       TokenSymbol = "d"
	KeepHighSymbol  TokenSymbol = "h"
	KeepLowSymbol   TokenSymbol = "l"
	LParenSymbol    TokenSymbol = "("
	RParenSymbol    TokenSymbol = ")"
	CommaSymbol     TokenSymbol = ","
	SemicolonSymbol TokenSymbol = ";"

	ReadKeyword    TokenSymbol = "read"
	RereadKeyword  TokenSymbol = "reread"
	HelpKeyword    TokenSymbol = "help"
	LoadConKeyword TokenSymbol = "loadcon"
	RollKeyword    TokenSymbol = "roll"
	DMInitKeyword  TokenSymbol = "dminit"
)

func (t Token) String() string {
	if t.Symbol == EOFSymbol {
		return "end of input"
	}

	return "'" + t.Lexeme + "'"
}
