package backend

import (
	"context"
	"fmt"
	"testing"

	"github.com/Orcthanc/discord-dieroller/character"
)

// sequence is a Source that replays fixed die faces and counts draws. Once
// the faces run out every die shows 1
type sequence struct {
	faces []int
	draws int
}

func dice(faces ...int) *sequence {
	return &sequence{faces: faces}
}

func (s *sequence) Intn(n int) int {
	s.draws++

	if len(s.faces) == 0 {
		return 0
	}

	face := s.faces[0]
	s.faces = s.faces[1:]
	return (face - 1) % n
}

type characterFiles map[string]character.Character

func (f characterFiles) LoadCharacter(ctx context.Context, user string) (character.Character, error) {
	c, ok := f[user]
	if !ok {
		return character.Character{}, fmt.Errorf("could not find character data of %s: %w", user, character.ErrNotFound)
	}
	return c, nil
}

type configFiles map[string]character.AttributeMap

func (f configFiles) LoadAttributeConfig(ctx context.Context, name string) (character.AttributeMap, error) {
	attrs, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("could not find config %s: %w", name, character.ErrConfigNotFound)
	}
	return attrs, nil
}

type attachmentFunc func(ctx context.Context, user string) error

func (f attachmentFunc) FetchAttachment(ctx context.Context, user string) error {
	return f(ctx, user)
}

var (
	valeros  = character.Character{Name: "Valeros", Fortitude: 7, Reflex: 3, Will: 1, Initiative: 2, Skills: map[string]int{"perception": 4}}
	merisiel = character.Character{Name: "Merisiel", Fortitude: 2, Reflex: 9, Will: 0, Initiative: 5, Skills: map[string]int{}}
)

func newTestContext(user string, src Source) *Context {
	return &Context{
		User:  user,
		State: NewState(nil),
		Dice:  src,
		Characters: characterFiles{
			"alice": valeros,
			"bob":   merisiel,
		},
		Configs: configFiles{
			"pf": {"fort": character.FieldFortitude, "ref": character.FieldReflex, "perc": "perception"},
		},
	}
}

func mustExecute(t *testing.T, env *Context, text string) string {
	t.Helper()

	out, err := Execute(context.Background(), text, env)
	if err != nil {
		t.Fatalf("execute %q: %v", text, err)
	}
	return out
}
