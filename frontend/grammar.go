package frontend

// Grammar holds the rune and keyword tables of the dice language. The tables
// are built once (see diceGrammar) and never modified afterwards, so a single
// Grammar is shared by every Lexer
type Grammar struct {
	OperatorRunes   []rune
	PunctuatorRunes []rune
	DiceRunes       []rune
	Keywords        []string
}

var diceGrammar = &Grammar{
	OperatorRunes:   []rune{'+', '-', '*', '/', '='},
	PunctuatorRunes: []rune{'(', ')', ',', ';'},
	DiceRunes:       []rune{'d', 'h', 'l'},
	Keywords: []string{
		string(ReadKeyword),
		string(RereadKeyword),
		string(HelpKeyword),
		string(LoadConKeyword),
		string(RollKeyword),
		string(DMInitKeyword),
	},
}

func (g *Grammar) isLineBreak(r rune) bool {
	return r == '\n'
}

// isWhitespace matches space, tab, form-feed and carriage return. Line breaks
// are handled separately so the lexer can count lines
func (g *Grammar) isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\r'
}

// isWordStart matches the runes an identifier may start with. The second
// rune of an identifier must match it too
func (g *Grammar) isWordStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func (g *Grammar) isWordPart(r rune) bool {
	return g.isWordStart(r) || g.isNumeric(r)
}

func (g *Grammar) isNumeric(r rune) bool {
	return r >= '0' && r <= '9'
}

func (g *Grammar) isOperatorRune(r rune) bool {
	return containsRune(g.OperatorRunes, r)
}

func (g *Grammar) isPunctuatorRune(r rune) bool {
	return containsRune(g.PunctuatorRunes, r)
}

func (g *Grammar) isDiceRune(r rune) bool {
	return containsRune(g.DiceRunes, r)
}

// isKeyword returns true if a given word is one of the reserved directive
// names
func (g *Grammar) isKeyword(s string) bool {
	for _, kw := range g.Keywords {
		if kw == s {
			return true
		}
	}

	return false
}

func containsRune(runes []rune, r rune) bool {
	for _, candidate := range runes {
		if candidate == r {
			return true
		}
	}

	return false
}
