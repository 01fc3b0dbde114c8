package character

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSheet = `{
  "basic_info": {"Character_Name": "Valeros"},
  "classes": {"Fort_Total": "+7", "Ref_Total": 3, "Will_Total": "-1"},
  "stats": {"init": {"total": "+2"}},
  "skill": {
    "Perception": {"Total": "4"},
    "Acrobatics": {"Total": 6},
    "Craft": {}
  }
}`

func TestDecode(t *testing.T) {
	got, err := Decode([]byte(sampleSheet))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := Character{
		Name:       "Valeros",
		Fortitude:  7,
		Reflex:     3,
		Will:       -1,
		Initiative: 2,
		Skills:     map[string]int{"perception": 4, "acrobatics": 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("character mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte(`{"classes": {"Fort_Total": "lots"}}`)); err == nil {
		t.Fatal("expected error for non-numeric total")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestField(t *testing.T) {
	c := Character{Fortitude: 7, Reflex: 3, Will: 1, Initiative: 2, Skills: map[string]int{"perception": 4}}

	tests := []struct {
		key   string
		want  int
		found bool
	}{
		{FieldFortitude, 7, true},
		{FieldReflex, 3, true},
		{FieldWill, 1, true},
		{FieldInitiative, 2, true},
		{"perception", 4, true},
		{"stealth", 0, false},
	}

	for _, tt := range tests {
		got, found := c.Field(tt.key)
		if got != tt.want || found != tt.found {
			t.Errorf("Field(%q) = %d, %v; want %d, %v", tt.key, got, found, tt.want, tt.found)
		}
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "guild#alice.json"), []byte(sampleSheet), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}

	loader := FileLoader{Dir: dir}

	c, err := loader.LoadCharacter(context.Background(), "guild/alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Name != "Valeros" {
		t.Fatalf("expected Valeros, got %q", c.Name)
	}

	_, err = loader.LoadCharacter(context.Background(), "bob")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if diff := cmp.Diff("could not find character data of bob: character not found", err.Error()); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAttributes(t *testing.T) {
	input := "fort Fortitude\nref reflex extra words\n\nlonely\n  perc   Perception\n"

	got, err := ParseAttributes(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := AttributeMap{"fort": "fortitude", "ref": "reflex", "perc": "perception"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fort", "perc", "ref"}, got.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pf.com"), []byte("fort fortitude\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	configs := ConfigDir{Dir: dir}

	attrs, err := configs.LoadAttributeConfig(context.Background(), "pf")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if attrs["fort"] != FieldFortitude {
		t.Fatalf("expected fort to map to fortitude, got %v", attrs)
	}

	_, err = configs.LoadAttributeConfig(context.Background(), "dnd")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	for _, user := range []string{"carol", "alice", "bob"} {
		if err := store.Put(ctx, user, Character{Name: user}); err != nil {
			t.Fatalf("put %s: %v", user, err)
		}
	}
	if err := store.Put(ctx, "alice", Character{Name: "Valeros"}); err != nil {
		t.Fatalf("replace alice: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []Record{
		{User: "alice", Character: Character{Name: "Valeros"}},
		{User: "bob", Character: Character{Name: "bob"}},
		{User: "carol", Character: Character{Name: "carol"}},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestImporter(t *testing.T) {
	dir := t.TempDir()

	if err := (Importer{Dir: dir}).FetchAttachment(context.Background(), "alice"); !errors.Is(err, ErrNoAttachment) {
		t.Fatalf("expected ErrNoAttachment, got %v", err)
	}

	pdf := filepath.Join(t.TempDir(), "sheet.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	err := Importer{Dir: dir, Attachment: pdf}.FetchAttachment(context.Background(), "alice")
	if err == nil || !strings.Contains(err.Error(), "no sheet converter") {
		t.Fatalf("expected missing converter error, got %v", err)
	}

	copied, err := os.ReadFile(filepath.Join(dir, "alice.pdf"))
	if err != nil {
		t.Fatalf("read copied pdf: %v", err)
	}
	if string(copied) != "%PDF-1.4" {
		t.Fatalf("unexpected copy %q", copied)
	}
}

func TestConfigKeysMatchSkills(t *testing.T) {
	c, err := Decode([]byte(`{"skill": {"Sleight_Of_Hand": {"Total": 5}, "Wissen_ÜBER_Runen": {"Total": 3}}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	attrs, err := ParseAttributes(strings.NewReader("soh SLEIGHT_OF_HAND\nrun wissen_über_RUNEN\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for mnemonic, want := range map[string]int{"soh": 5, "run": 3} {
		got, ok := c.Field(attrs[mnemonic])
		if !ok || got != want {
			t.Errorf("%s -> %q: got %d, %v; want %d", mnemonic, attrs[mnemonic], got, ok, want)
		}
	}
}
