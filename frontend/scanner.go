package frontend

import (
	"unicode/utf8"

	"github.com/Orcthanc/discord-dieroller/source"
)

// Scanner structs hold the state of a scanner instance which consumes input
// runes one at a time. Since chat messages can be Unicode, the scanner must
// keep track of each rune's byte offset. The scanner also records line and
// column data which it emits along with each rune.
//
// The first character in each line is in column 1. A newline at the end of a
// line with `N` characters is in column `N + 1`.
type Scanner struct {
	File     *source.File
	nextByte int // initialized to 0
	nextLine int // ...  ...  ...  1
	nextCol  int // ...  ...  ...  1
}

// NewScanner is a basic constructor function for Scanners which populates
// private fields with the appropriate starting values
func NewScanner(file *source.File) *Scanner {
	return &Scanner{
		File:     file,
		nextByte: 0,
		nextLine: 1,
		nextCol:  1,
	}
}

// Pos returns the position of the next rune to be scanned
func (s *Scanner) Pos() source.Pos {
	return source.Pos{Line: s.nextLine, Col: s.nextCol}
}

// Peek returns the next rune and its position without advancing the Scanner.
// The eof flag is set (and r is 0) once every rune has been consumed
func (s *Scanner) Peek() (r rune, pos source.Pos, eof bool) {
	if s.nextByte >= len(s.File.Contents) {
		return 0, s.Pos(), true
	}

	r, _ = utf8.DecodeRuneInString(s.File.Contents[s.nextByte:])
	return r, s.Pos(), false
}

// PeekSecond returns the rune after the next one without advancing the
// Scanner. Number literals need two runes of lookahead to tell "5." from ".5"
func (s *Scanner) PeekSecond() (r rune, eof bool) {
	if s.nextByte >= len(s.File.Contents) {
		return 0, true
	}

	_, width := utf8.DecodeRuneInString(s.File.Contents[s.nextByte:])
	if s.nextByte+width >= len(s.File.Contents) {
		return 0, true
	}

	r, _ = utf8.DecodeRuneInString(s.File.Contents[s.nextByte+width:])
	return r, false
}

// Next returns the next rune and its position and advances the Scanner
// permanently
func (s *Scanner) Next() (r rune, pos source.Pos, eof bool) {
	if s.nextByte >= len(s.File.Contents) {
		return 0, s.Pos(), true
	}

	r, width := utf8.DecodeRuneInString(s.File.Contents[s.nextByte:])
	pos = s.Pos()

	if r == '\n' {
		s.nextLine++
		s.nextCol = 1
	} else {
		s.nextCol++
	}

	s.nextByte += width

	return r, pos, false
}
