package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Orcthanc/discord-dieroller/character"
	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/google/go-cmp/cmp"
)

func TestExecuteStatementsInOrder(t *testing.T) {
	env := newTestContext("alice", dice(1, 2, 3, 4))

	got := mustExecute(t, env, "roll 3d6;roll 1d4")
	if diff := cmp.Diff("6: {{1, 2, 3}}\n4: {{4}}", got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteArithmeticOnly(t *testing.T) {
	env := newTestContext("alice", dice())

	if got := mustExecute(t, env, "2 * (3 + 4) - 0.5"); got != "13.5" {
		t.Fatalf("expected 13.5, got %q", got)
	}
	if got := mustExecute(t, env, "1 - 1"); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
}

func TestHelp(t *testing.T) {
	env := newTestContext("alice", dice())

	if got := mustExecute(t, env, "help"); got != HelpText {
		t.Fatalf("expected help text, got %q", got)
	}
}

func TestBindingRedrawsEachUse(t *testing.T) {
	env := newTestContext("alice", NewSource(11))

	if got := mustExecute(t, env, "foo = 1d20+5"); got != "Defined foo" {
		t.Fatalf("expected definition reply, got %q", got)
	}

	for i := 0; i < 50; i++ {
		res := mustEvaluate(t, env, "foo")
		if res.Value < 6 || res.Value > 25 {
			t.Fatalf("foo rolled %v, outside [6, 25]", res.Value)
		}
	}
}

func TestBindingUsesFreshDraws(t *testing.T) {
	env := newTestContext("alice", dice(3, 17))
	mustExecute(t, env, "foo = 1d20+5")

	first := mustExecute(t, env, "foo")
	second := mustExecute(t, env, "foo")

	if diff := cmp.Diff([]string{"8: {{3}}", "22: {{17}}"}, []string{first, second}); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBindingsArePerUser(t *testing.T) {
	state := NewState(nil)

	alice := newTestContext("alice", dice())
	alice.State = state
	mustExecute(t, alice, "dmg = 7")

	bob := newTestContext("bob", dice())
	bob.State = state

	_, err := Execute(context.Background(), "dmg", bob)
	if err == nil || err.Error() != "unknown identifier dmg" {
		t.Fatalf("expected unknown identifier for bob, got %v", err)
	}

	if got := mustExecute(t, alice, "dmg * 2"); got != "14" {
		t.Fatalf("expected 14, got %q", got)
	}
}

func TestRedefinitionWarns(t *testing.T) {
	env := newTestContext("alice", dice())
	mustExecute(t, env, "atk = 1")

	got := mustExecute(t, env, "atk = 2")
	if diff := cmp.Diff("Warning: atk was already defined, the old definition was overwritten", got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	if got := mustExecute(t, env, "atk"); got != "2" {
		t.Fatalf("expected new definition, got %q", got)
	}
}

func TestAssignmentCannotShadowAttribute(t *testing.T) {
	env := newTestContext("alice", dice())
	mustExecute(t, env, "loadcon(pf)")

	_, err := Execute(context.Background(), "fort = 5", env)
	if !feedback.Is(err, feedback.SemanticError) {
		t.Fatalf("expected semantic error, got %v", err)
	}
	if !strings.Contains(err.Error(), "fortitude") {
		t.Fatalf("expected message to name the attribute, got %q", err.Error())
	}

	if _, ok := env.State.Commands.Lookup("alice", "fort"); ok {
		t.Fatal("expected fort to stay unbound")
	}
}

func TestMultiExpressionBinding(t *testing.T) {
	env := newTestContext("alice", dice(10, 3, 4))
	mustExecute(t, env, "atk = 1d20+5; 2d6+3")

	got := mustExecute(t, env, "atk")
	if diff := cmp.Diff("15: {{10}}\n10: {{3, 4}}", got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	_, err := Execute(context.Background(), "atk + 1", env)
	if !feedback.Is(err, feedback.SemanticError) {
		t.Fatalf("expected semantic error, got %v", err)
	}
}

func TestBindingReferringToOtherBindings(t *testing.T) {
	env := newTestContext("alice", dice(4))
	mustExecute(t, env, "bonus = 3")
	mustExecute(t, env, "hit = 1d20 + bonus")

	if got := mustExecute(t, env, "hit"); got != "7: {{4}}" {
		t.Fatalf("expected 7: {{4}}, got %q", got)
	}

	// later rebinding is picked up
	mustExecute(t, env, "bonus = 10")
	env.Dice = dice(4)
	if got := mustExecute(t, env, "hit"); got != "14: {{4}}" {
		t.Fatalf("expected 14: {{4}}, got %q", got)
	}
}

func TestSelfReferenceFails(t *testing.T) {
	env := newTestContext("alice", dice())
	mustExecute(t, env, "loop = loop + 1")

	_, err := Execute(context.Background(), "loop", env)
	if !feedback.Is(err, feedback.SemanticError) {
		t.Fatalf("expected semantic error, got %v", err)
	}
	if diff := cmp.Diff("loop refers to itself", err.Error()); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestFailedLineChangesNothing(t *testing.T) {
	env := newTestContext("alice", dice())

	if _, err := Execute(context.Background(), "bar = 2", env); err != nil {
		t.Fatalf("define bar: %v", err)
	}

	inputs := []string{
		"loadcon(pf); reread; 1/0",
		"loadcon(pf); reread; fort = 1",
		"reread; bar = 3; 1 +",
	}

	for _, input := range inputs {
		if _, err := Execute(context.Background(), input, env); err == nil {
			t.Fatalf("expected %q to fail", input)
		}
	}

	if len(env.State.Attributes) != 0 {
		t.Fatalf("expected no attributes, got %v", env.State.Attributes)
	}
	if _, err := env.State.Characters.Get(context.Background(), "alice"); !errors.Is(err, character.ErrNotFound) {
		t.Fatalf("expected no stored character, got %v", err)
	}
	if diff := cmp.Diff([]string{"bar"}, env.State.Commands.Names("alice")); diff != "" {
		t.Fatalf("bindings mismatch (-want +got):\n%s", diff)
	}
	if got := mustExecute(t, env, "bar"); got != "2" {
		t.Fatalf("expected bar to keep its value, got %q", got)
	}
}

// brokenStore reads like a MemoryStore but refuses every write
type brokenStore struct {
	*character.MemoryStore
}

func (brokenStore) Put(ctx context.Context, user string, c character.Character) error {
	return errors.New("disk full")
}

func TestFailedCommitChangesNothing(t *testing.T) {
	env := newTestContext("alice", dice())
	env.State = NewState(brokenStore{character.NewMemoryStore()})

	_, err := Execute(context.Background(), "loadcon(pf); reread", env)
	if !feedback.Is(err, feedback.ResourceError) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if diff := cmp.Diff("disk full", err.Error()); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
	if len(env.State.Attributes) != 0 {
		t.Fatalf("expected no attributes after failed line, got %v", env.State.Attributes)
	}

	if _, err := Execute(context.Background(), "reread; bonus = 2", env); err == nil {
		t.Fatal("expected second line to fail")
	}
	if names := env.State.Commands.Names("alice"); len(names) != 0 {
		t.Fatalf("expected no bindings after failed line, got %v", names)
	}
}

func TestLaterStatementsSeeEarlierChanges(t *testing.T) {
	env := newTestContext("alice", dice(12))

	got := mustExecute(t, env, "loadcon(pf); reread; fort 2")
	want := "Successfully read config pf\nValeros\n21: {{12}}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRead(t *testing.T) {
	env := newTestContext("alice", dice())

	if got := mustExecute(t, env, "read"); got != noAttachment {
		t.Fatalf("expected missing attachment reply, got %q", got)
	}

	var fetched []string
	env.Attachments = attachmentFunc(func(ctx context.Context, user string) error {
		fetched = append(fetched, user)
		return nil
	})

	if got := mustExecute(t, env, "read"); got != "Valeros" {
		t.Fatalf("expected character name, got %q", got)
	}
	if diff := cmp.Diff([]string{"alice"}, fetched); diff != "" {
		t.Fatalf("fetch mismatch (-want +got):\n%s", diff)
	}

	env.Attachments = attachmentFunc(func(ctx context.Context, user string) error {
		return fmt.Errorf("download: %w", character.ErrNoAttachment)
	})
	if got := mustExecute(t, env, "read"); got != noAttachment {
		t.Fatalf("expected missing attachment reply, got %q", got)
	}

	env.Attachments = attachmentFunc(func(ctx context.Context, user string) error {
		return errors.New("converter crashed")
	})
	if _, err := Execute(context.Background(), "read", env); !feedback.Is(err, feedback.ResourceError) {
		t.Fatalf("expected resource error, got %v", err)
	}
}

func TestDMInit(t *testing.T) {
	env := newTestContext("alice", dice(10, 4, 20, 1))

	env.User = "bob"
	mustExecute(t, env, "reread")
	env.User = "alice"
	mustExecute(t, env, "reread")

	// alice (Valeros) rolls 10+2, bob (Merisiel) 4+5, the enemies 20+3 and 1-1
	got := mustExecute(t, env, "dminit(3, -1)")
	want := "```\n 23: Enemy 1\n 12: Valeros\n  9: Merisiel\n  0: Enemy 2\n```"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDMInitWithoutCharacters(t *testing.T) {
	env := newTestContext("alice", dice())

	if got := mustExecute(t, env, "dminit"); got != "```\n```" {
		t.Fatalf("expected empty listing, got %q", got)
	}
}

func TestDMInitListsEveryEntryOnce(t *testing.T) {
	env := newTestContext("alice", NewSource(5))
	mustExecute(t, env, "reread")

	got := mustExecute(t, env, "dminit(1, 2, 1d4)")
	lines := strings.Split(strings.Trim(got, "`\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected 4 entries, got %q", got)
	}

	for _, name := range []string{"Valeros", "Enemy 1", "Enemy 2", "Enemy 3"} {
		if strings.Count(got, ": "+name+"\n") != 1 {
			t.Fatalf("expected %s exactly once in %q", name, got)
		}
	}
}

func TestSessionSerializesUsers(t *testing.T) {
	session := &Session{
		State:      NewState(nil),
		Dice:       NewSource(1),
		Characters: characterFiles{},
		Configs:    configFiles{},
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			user := fmt.Sprintf("user%02d", i)
			if _, err := session.Handle(context.Background(), user, "xa = 2d6; 1d4", nil); err != nil {
				t.Errorf("%s: %v", user, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		user := fmt.Sprintf("user%02d", i)
		if diff := cmp.Diff([]string{"xa"}, session.State.Commands.Names(user)); diff != "" {
			t.Fatalf("%s bindings mismatch (-want +got):\n%s", user, diff)
		}
	}
}
