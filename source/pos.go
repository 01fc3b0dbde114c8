package source

import "fmt"

// Pos holds the line/column data for a single rune of a command line
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span holds a Start and End position in a command line. Both ends are
// inclusive
type Span struct {
	Start Pos
	End   Pos
}
