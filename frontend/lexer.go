package frontend

import (
	"fmt"

	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/source"
)

type lexResult struct {
	tok Token
	msg feedback.Message
}

// Lexer structs maintain state during the lexical analysis of a line of input,
// lazily generating a sequence of Tokens. The sequence ends with an EOF token
// which is repeated on every further call
type Lexer struct {
	Scanner *Scanner
	Grammar *Grammar
	peeked  *lexResult
	last    Token
}

// NewLexer is a constructor function that takes a File and returns a Lexer
// positioned at the start of that file
func NewLexer(file *source.File) *Lexer {
	return &Lexer{
		Scanner: NewScanner(file),
		Grammar: diceGrammar,
	}
}

// Reset rewinds the Lexer to the start of its file
func (l *Lexer) Reset() {
	l.Scanner = NewScanner(l.Scanner.File)
	l.peeked = nil
	l.last = Token{}
}

// Lex collects every token in a file up to and including the EOF token. It
// stops at the first lex error
func Lex(file *source.File) (toks []Token, msg feedback.Message) {
	lexer := NewLexer(file)

	for {
		tok, msg := lexer.Next()
		if msg != nil {
			return toks, msg
		}

		toks = append(toks, tok)

		if tok.Symbol == EOFSymbol {
			return toks, nil
		}
	}
}

// readNextToken is responsible for digesting characters from the scanner and
// producing the next Token
func (l *Lexer) readNextToken() (tok Token, msg feedback.Message) {
	for {
		peek, pos, eof := l.Scanner.Peek()

		switch {
		case eof:
			// Point EOF tokens at the last meaningful token so that error
			// messages don't underline an empty column past the input
			span := source.Span{Start: pos, End: pos}
			if l.last.Lexeme != "" {
				span = l.last.Span
			}

			return Token{EOFSymbol, "<EOF>", span}, nil
		case l.Grammar.isWhitespace(peek), l.Grammar.isLineBreak(peek):
			l.Scanner.Next()
			continue
		case l.Grammar.isWordStart(peek):
			return l.lexWord()
		case l.Grammar.isNumeric(peek), peek == '.':
			return l.lexNumber()
		case l.Grammar.isOperatorRune(peek), l.Grammar.isPunctuatorRune(peek):
			return l.lexSingle()
		}

		return l.unexpected()
	}
}

// unexpected consumes one rune and reports it as an unrecognized character
func (l *Lexer) unexpected() (tok Token, msg feedback.Message) {
	r, pos, _ := l.Scanner.Next()
	lexeme := string(r)
	span := source.Span{Start: pos, End: pos}

	msg = feedback.Error{
		Classification: feedback.LexError,
		File:           l.Scanner.File,
		What: feedback.Selection{
			Description: fmt.Sprintf("Illegal character '%s'", lexeme),
			Span:        span,
		},
	}

	return Token{Symbol: TokenSymbol(lexeme), Lexeme: lexeme, Span: span}, msg
}

// Identifiers, keywords and dice operators
//   - identifiers match [A-Za-z_][A-Za-z_][A-Za-z0-9_]*
//   - a lone 'd', 'h' or 'l' is a dice operator
//   - any other lone letter is illegal
func (l *Lexer) lexWord() (tok Token, msg feedback.Message) {
	first, _, _ := l.Scanner.Peek()

	if second, eof := l.Scanner.PeekSecond(); eof || !l.Grammar.isWordStart(second) {
		if l.Grammar.isDiceRune(first) {
			return l.lexSingle()
		}

		return l.unexpected()
	}

	var lexeme string
	var span source.Span

	for {
		peek, _, eof := l.Scanner.Peek()
		if eof || !l.Grammar.isWordPart(peek) {
			break
		}

		r, pos, _ := l.Scanner.Next()

		if len(lexeme) == 0 {
			span.Start = pos
		}

		lexeme += string(r)
		span.End = pos
	}

	sym := CommandSymbol
	if l.Grammar.isKeyword(lexeme) {
		sym = TokenSymbol(lexeme)
	}

	return Token{sym, lexeme, span}, nil
}

// Integer or Float literals
//   - integer match [0-9]+
//   - float match [0-9]*\.[0-9]+
func (l *Lexer) lexNumber() (tok Token, msg feedback.Message) {
	var lexeme string
	var span source.Span

	sym := IntegerSymbol
	start := l.Scanner.Pos()
	span.Start = start

	consumeDigits := func() {
		for {
			peek, _, eof := l.Scanner.Peek()
			if eof || !l.Grammar.isNumeric(peek) {
				return
			}

			r, pos, _ := l.Scanner.Next()
			lexeme += string(r)
			span.End = pos
		}
	}

	consumeDigits()

	if peek, _, _ := l.Scanner.Peek(); peek == '.' {
		if second, eof := l.Scanner.PeekSecond(); !eof && l.Grammar.isNumeric(second) {
			// A decimal point followed by a digit turns the literal into a
			// Float
			r, pos, _ := l.Scanner.Next()
			lexeme += string(r)
			span.End = pos
			sym = FloatSymbol
			consumeDigits()
		} else if lexeme == "" {
			// A lone decimal point
			return l.unexpected()
		}
	}

	return Token{sym, lexeme, span}, nil
}

// Operators and punctuators always consist of a single character
func (l *Lexer) lexSingle() (tok Token, msg feedback.Message) {
	r, pos, _ := l.Scanner.Next()
	lexeme := string(r)

	return Token{TokenSymbol(lexeme), lexeme, source.Span{Start: pos, End: pos}}, nil
}

// Peek returns the next token WITHOUT advancing the lexer. Once the next token
// has been peek'ed it is cached so repeated calls do no extra lexing work
func (l *Lexer) Peek() (tok Token, msg feedback.Message) {
	if l.peeked == nil {
		tok, msg = l.readNextToken()
		l.peeked = &lexResult{tok, msg}
	}

	return l.peeked.tok, l.peeked.msg
}

// PeekMatches returns true if the upcoming token matches a given TokenSymbol
func (l *Lexer) PeekMatches(sym TokenSymbol) (matches bool) {
	if tok, msg := l.Peek(); msg == nil {
		return tok.Symbol == sym
	}

	return false
}

// Next returns the upcoming token and advances the Lexer
func (l *Lexer) Next() (tok Token, msg feedback.Message) {
	if l.peeked != nil {
		tok, msg = l.peeked.tok, l.peeked.msg
		l.peeked = nil
	} else {
		tok, msg = l.readNextToken()
	}

	if msg == nil && tok.Symbol != EOFSymbol {
		l.last = tok
	}

	return tok, msg
}

// ExpectNext returns the next token if it matches the given TokenSymbol. If the
// upcoming token DOESN'T match, a syntax error is returned
func (l *Lexer) ExpectNext(sym TokenSymbol) (tok Token, msg feedback.Message) {
	if tok, msg = l.Next(); msg != nil {
		return tok, msg
	}

	if tok.Symbol == sym {
		return tok, nil
	}

	return tok, feedback.Error{
		Classification: feedback.SyntaxError,
		File:           l.Scanner.File,
		What: feedback.Selection{
			Description: fmt.Sprintf("Expected '%s' instead found %s", sym, tok),
			Span:        tok.Span,
		},
	}
}
