package source

import "strings"

// File represents one chunk of user input handed to the front-end, usually a
// single chat message. The "Name" field labels the input in diagnostics (the
// author of the message or "<stdin>"). The "Lines" field caches the contents
// split by '\n' so that error messages can quote the offending line without
// splitting the contents again.
type File struct {
	Name     string
	Contents string
	Lines    []string
}

// NewFile wraps raw input text in a File
func NewFile(name, contents string) *File {
	return &File{
		Name:     name,
		Contents: contents,
		Lines:    strings.SplitAfter(contents, "\n"),
	}
}
