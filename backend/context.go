package backend

import (
	"context"
	"errors"
	"sort"

	"github.com/Orcthanc/discord-dieroller/character"
	"github.com/Orcthanc/discord-dieroller/frontend"
	"github.com/Orcthanc/discord-dieroller/source"
)

// CharacterLoader loads the character data of a user. It fails when no data
// is present
type CharacterLoader interface {
	LoadCharacter(ctx context.Context, user string) (character.Character, error)
}

// ConfigLoader loads a named attribute map. It fails when the config is
// missing
type ConfigLoader interface {
	LoadAttributeConfig(ctx context.Context, name string) (character.AttributeMap, error)
}

// AttachmentFetcher refreshes the stored sheet of a user from whatever the
// user attached to their message. It returns character.ErrNoAttachment when
// nothing was attached
type AttachmentFetcher interface {
	FetchAttachment(ctx context.Context, user string) error
}

// Binding is the unevaluated expression sequence bound to a variable name.
// File is the input the expressions were parsed from, used to point
// diagnostics at the definition
type Binding struct {
	File  *source.File
	Exprs []frontend.Expr
}

// CommandStore holds the variables every user has defined
type CommandStore struct {
	bindings map[string]map[string]Binding
}

// NewCommandStore returns an empty CommandStore
func NewCommandStore() *CommandStore {
	return &CommandStore{bindings: make(map[string]map[string]Binding)}
}

// Lookup returns the binding of name for user
func (s *CommandStore) Lookup(user, name string) (Binding, bool) {
	b, ok := s.bindings[user][name]
	return b, ok
}

// Bind binds name for user, overwriting any previous binding. It reports
// whether a previous binding was replaced
func (s *CommandStore) Bind(user, name string, b Binding) (replaced bool) {
	names, ok := s.bindings[user]
	if !ok {
		names = make(map[string]Binding)
		s.bindings[user] = names
	}

	_, replaced = names[name]
	names[name] = b
	return replaced
}

// Names returns the variables user has defined, sorted
func (s *CommandStore) Names(user string) []string {
	names := make([]string, 0, len(s.bindings[user]))

	for name := range s.bindings[user] {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// State is the long-lived state shared by every invocation. The core never
// locks it: callers serialize invocations (see Session)
type State struct {
	Attributes character.AttributeMap
	Characters character.Store
	Commands   *CommandStore
}

// NewState returns a State with an empty attribute map and the given
// character store. A nil store is replaced with a memory store
func NewState(characters character.Store) *State {
	if characters == nil {
		characters = character.NewMemoryStore()
	}

	return &State{
		Attributes: make(character.AttributeMap),
		Characters: characters,
		Commands:   NewCommandStore(),
	}
}

// Context is the resolution context of one invocation: who is asking, the
// shared state names resolve against, the dice and the collaborators the
// directives call
type Context struct {
	User  string
	State *State
	Dice  Source

	Characters  CharacterLoader
	Configs     ConfigLoader
	Attachments AttachmentFetcher
}

// changes stages every modification an invocation makes to the shared state.
// They are applied only once the whole line has succeeded
type changes struct {
	attributes character.AttributeMap
	characters map[string]character.Character
	bindings   map[string]Binding
}

func newChanges() *changes {
	return &changes{
		characters: make(map[string]character.Character),
		bindings:   make(map[string]Binding),
	}
}

func (e *evaluator) attributes() character.AttributeMap {
	if e.staged.attributes != nil {
		return e.staged.attributes
	}

	return e.env.State.Attributes
}

// character returns the loaded character of user, if any
func (e *evaluator) character(user string) (c character.Character, ok bool, err error) {
	if c, ok := e.staged.characters[user]; ok {
		return c, true, nil
	}

	c, err = e.env.State.Characters.Get(e.ctx, user)
	if errors.Is(err, character.ErrNotFound) {
		return character.Character{}, false, nil
	} else if err != nil {
		return character.Character{}, false, err
	}

	return c, true, nil
}

// characters lists every loaded character ordered by user, including the ones
// loaded earlier in the same line
func (e *evaluator) characters() ([]character.Record, error) {
	stored, err := e.env.State.Characters.List(e.ctx)
	if err != nil {
		return nil, err
	}

	var records []character.Record

	for _, rec := range stored {
		if _, ok := e.staged.characters[rec.User]; !ok {
			records = append(records, rec)
		}
	}

	for user, c := range e.staged.characters {
		records = append(records, character.Record{User: user, Character: c})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].User < records[j].User })
	return records, nil
}

func (e *evaluator) binding(name string) (Binding, bool) {
	if b, ok := e.staged.bindings[name]; ok {
		return b, true
	}

	return e.env.State.Commands.Lookup(e.env.User, name)
}

// commit applies the staged changes to the shared state. Characters are
// stored first and nothing else is applied if the store fails
func (e *evaluator) commit() error {
	users := make([]string, 0, len(e.staged.characters))
	for user := range e.staged.characters {
		users = append(users, user)
	}
	sort.Strings(users)

	for _, user := range users {
		if err := e.env.State.Characters.Put(e.ctx, user, e.staged.characters[user]); err != nil {
			return err
		}
	}

	if e.staged.attributes != nil {
		e.env.State.Attributes = e.staged.attributes
	}

	for name, b := range e.staged.bindings {
		e.env.State.Commands.Bind(e.env.User, name, b)
	}

	return nil
}
