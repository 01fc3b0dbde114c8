// Package character holds the character sheets and attribute mnemonics that
// dice expressions resolve names against, together with the loaders that
// read them from disk.
package character

import (
	"errors"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNotFound indicates no character data exists for a user.
var ErrNotFound = errors.New("character not found")

// ErrConfigNotFound indicates an attribute config does not exist.
var ErrConfigNotFound = errors.New("config not found")

// Character field keys that attribute mnemonics may map to. Any other key is
// looked up among the skills.
const (
	FieldFortitude  = "fortitude"
	FieldReflex     = "reflex"
	FieldWill       = "will"
	FieldInitiative = "initiative"
)

// FoldKey case folds a field or skill key. Config files and character sheets
// both go through it so that their keys compare equal.
func FoldKey(key string) string {
	return cases.Lower(language.Und).String(key)
}

// Character is one user's loaded character sheet. A Character is replaced
// wholesale when it is reloaded.
type Character struct {
	Name       string
	Fortitude  int
	Reflex     int
	Will       int
	Initiative int
	Skills     map[string]int
}

// Field returns the value stored under a field key.
func (c Character) Field(key string) (int, bool) {
	switch key {
	case FieldFortitude:
		return c.Fortitude, true
	case FieldReflex:
		return c.Reflex, true
	case FieldWill:
		return c.Will, true
	case FieldInitiative:
		return c.Initiative, true
	}

	value, ok := c.Skills[key]
	return value, ok
}

// AttributeMap maps short mnemonics ("fort") to character field keys
// ("fortitude").
type AttributeMap map[string]string

// Names returns the mnemonics in sorted order.
func (m AttributeMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
