package feedback

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Orcthanc/discord-dieroller/source"
	"github.com/fatih/color"
)

const (
	warningColors = iota
	errorColors
	helperColors
)

// Message is the interface for all Warnings and Errors that can be emitted
// by the stages of the pipeline. The plain text returned by Error() is what a
// chat user sees, Make renders the same message for a terminal.
type Message interface {
	error
	Make(withColor bool) string
}

// Selection represents a region of the input along with a description of why
// the region is interesting
type Selection struct {
	Description string
	Span        source.Span
}

// Warning classification constants
const (
	RedefinitionWarning string = "redefinition warning"
)

// Warning messages highlight something the user may want to know about even
// though the input was processed successfully
type Warning struct {
	Classification string
	File           *source.File
	What           Selection
}

// Error returns the warning's description so Warnings can travel as plain
// strings in chat replies
func (w Warning) Error() string {
	return w.What.Description
}

// Make renders the warning, with or without terminal colors
func (w Warning) Make(withColor bool) string {
	return makeMessage(w.Classification, w.File, w.What, nil, warningColors, withColor)
}

// Error classification constants
const (
	LexError      string = "lex error"
	SyntaxError   string = "syntax error"
	SemanticError string = "semantic error"
	ResourceError string = "resource error"
)

// Error messages abort the current invocation. Cause is set when the error
// was produced by a collaborator (character loader, config loader) and is
// returned unchanged by Unwrap
type Error struct {
	Classification string
	File           *source.File
	What           Selection
	Why            []Selection
	Cause          error
}

// Error returns the message shown verbatim to the user
func (e Error) Error() string {
	return e.What.Description
}

// Unwrap exposes the collaborator error behind a resource error
func (e Error) Unwrap() error {
	return e.Cause
}

// Make takes an Error and produces a fully rendered message with the option of
// using colors to make elements of the message more clear
func (e Error) Make(withColor bool) string {
	return makeMessage(e.Classification, e.File, e.What, e.Why, errorColors, withColor)
}

// Is reports whether err is a feedback Error of the given classification
func Is(err error, classification string) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Classification == classification
	}

	return false
}

// Resource wraps a collaborator failure as a resource error, keeping the
// collaborator's message unchanged
func Resource(err error) Error {
	return Error{
		Classification: ResourceError,
		What:           Selection{Description: err.Error()},
		Cause:          err,
	}
}

type palette struct {
	yellow, red, blue   func(a ...interface{}) string
	yellowBold, redBold func(a ...interface{}) string
}

func newPalette(withColor bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if withColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}

	return palette{
		yellow:     mk(color.FgYellow),
		red:        mk(color.FgRed),
		blue:       mk(color.FgBlue),
		yellowBold: mk(color.FgYellow, color.Bold),
		redBold:    mk(color.FgRed, color.Bold),
	}
}

// makeMessage renders a message of the form:
//
//	<message type>: <classification>
//	  --> <input name>:<line number>:<column number>
//	   |
//	 1 | <offending line of input>
//	   |  ^^^^^^^^^ <message detailing error>
//
// Messages without a span (resource errors) render the header and the
// description only.
func makeMessage(classification string, file *source.File, what Selection, why []Selection, colorScheme int, withColor bool) string {
	pal := newPalette(withColor)

	var lines []string
	var header string

	if colorScheme == warningColors {
		header = pal.yellowBold(fmt.Sprintf("warning: %s", classification))
	} else {
		header = pal.redBold(fmt.Sprintf("error: %s", classification))
	}

	if file == nil || what.Span.Start.Line == 0 {
		return header + "\n  " + what.Description
	}

	lines = append(lines, header)

	maxLineNum := getMaxLineNum(append([]Selection{what}, why...)...)
	placeValues := utf8.RuneCountInString(fmt.Sprintf("%d", maxLineNum))

	lines = append(lines, fmt.Sprintf(" %s%s %s:%d:%d",
		strings.Repeat(" ", placeValues),
		pal.blue("-->"),
		file.Name,
		what.Span.Start.Line,
		what.Span.Start.Col))

	lines = append(lines, pal.blue(fmt.Sprintf(" %s |", strings.Repeat(" ", placeValues))))

	for _, sel := range why {
		lines = append(lines, sourceCodeSelection(pal, file, sel, helperColors, placeValues)...)
	}

	lines = append(lines, sourceCodeSelection(pal, file, what, colorScheme, placeValues)...)
	return strings.Join(lines, "\n")
}

// sourceCodeSelection extracts the selected lines from the input and renders
// them with line numbers, underlining the selection and appending its
// description
func sourceCodeSelection(pal palette, file *source.File, sel Selection, colorScheme int, placeValues int) (lines []string) {
	first, last := sel.Span.Start.Line, sel.Span.End.Line
	if last < first {
		last = first
	}
	if first < 1 || first > len(file.Lines) {
		return nil
	}
	if last > len(file.Lines) {
		last = len(file.Lines)
	}

	numMargFmt := fmt.Sprintf("%%%dd", placeValues)
	emptyMarg := strings.Repeat(" ", placeValues)

	for i, srcLine := range file.Lines[first-1 : last] {
		lineNum := first + i
		srcLine = strings.TrimRight(srcLine, "\r\n")

		focusStart := 1
		if lineNum == sel.Span.Start.Line {
			focusStart = sel.Span.Start.Col
		}

		focusEnd := utf8.RuneCountInString(srcLine) + 1
		if lineNum == sel.Span.End.Line {
			focusEnd = sel.Span.End.Col + 1
		}

		prefix, focus, suffix := highlightSourceLine(srcLine, focusStart, focusEnd)

		switch colorScheme {
		case warningColors:
			focus = pal.yellow(focus)
		case errorColors:
			focus = pal.red(focus)
		case helperColors:
			focus = pal.blue(focus)
		}

		lines = append(lines, fmt.Sprintf(" %s %s %s%s%s",
			pal.blue(fmt.Sprintf(numMargFmt, lineNum)), pal.blue("|"), prefix, focus, suffix))
	}

	if sel.Description == "" {
		return lines
	}

	var underlineChar, desc string

	switch colorScheme {
	case warningColors:
		underlineChar = pal.yellow("^")
		desc = pal.yellow(sel.Description)
	case errorColors:
		underlineChar = pal.red("^")
		desc = pal.red(sel.Description)
	default:
		underlineChar = pal.blue("-")
		desc = pal.blue(sel.Description)
	}

	width := sel.Span.End.Col + 1 - sel.Span.Start.Col
	if sel.Span.End.Line != sel.Span.Start.Line || width < 1 {
		// Underline must be at least 1 character wide
		width = 1
	}

	leftPad := strings.Repeat(" ", max(sel.Span.Start.Col-1, 0))
	lines = append(lines, fmt.Sprintf(" %s %s %s%s %s",
		emptyMarg, pal.blue("|"), leftPad, strings.Repeat(underlineChar, width), desc))

	return lines
}

// getMaxLineNum returns the largest line number present in a collection of
// Selection structs
func getMaxLineNum(selections ...Selection) (max int) {
	max = 1

	for _, sel := range selections {
		if sel.Span.End.Line > max {
			max = sel.Span.End.Line
		}
	}

	return max
}

// highlightSourceLine splits a line into the segment before column "start",
// the segment from "start" up to (not including) column "end" and the rest
func highlightSourceLine(line string, start, end int) (prefix, focus, suffix string) {
	nextByte := 0

	for col := 1; col < end && nextByte < len(line); col++ {
		runeValue, runeWidth := utf8.DecodeRuneInString(line[nextByte:])
		nextByte += runeWidth

		if col < start {
			prefix += string(runeValue)
		} else {
			focus += string(runeValue)
		}
	}

	suffix = line[nextByte:]

	return prefix, focus, suffix
}
