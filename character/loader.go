package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sheet mirrors the JSON document produced from an exported character sheet
// PDF. Only the fields the dice language resolves are decoded.
type sheet struct {
	BasicInfo struct {
		CharacterName string `json:"Character_Name"`
	} `json:"basic_info"`
	Classes struct {
		FortTotal sheetInt `json:"Fort_Total"`
		RefTotal  sheetInt `json:"Ref_Total"`
		WillTotal sheetInt `json:"Will_Total"`
	} `json:"classes"`
	Stats struct {
		Init struct {
			Total sheetInt `json:"total"`
		} `json:"init"`
	} `json:"stats"`
	Skill map[string]struct {
		Total *sheetInt `json:"Total"`
	} `json:"skill"`
}

// sheetInt accepts both JSON numbers and numeric strings such as "+3".
type sheetInt int

func (v *sheetInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" || raw == "null" {
		*v = 0
		return nil
	}

	n, err := strconv.ParseFloat(strings.TrimPrefix(raw, "+"), 64)
	if err != nil {
		return fmt.Errorf("parse sheet number %q: %w", raw, err)
	}
	*v = sheetInt(int(n))
	return nil
}

// FileLoader loads characters from "<Dir>/<user>.json".
type FileLoader struct {
	Dir string
}

// LoadCharacter reads and decodes the character sheet of user.
func (l FileLoader) LoadCharacter(ctx context.Context, user string) (Character, error) {
	if err := ctx.Err(); err != nil {
		return Character{}, err
	}

	path := filepath.Join(l.Dir, FileName(user)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Character{}, fmt.Errorf("could not find character data of %s: %w", user, ErrNotFound)
		}
		return Character{}, fmt.Errorf("read character data of %s: %w", user, err)
	}

	return Decode(data)
}

// Decode converts a character sheet JSON document into a Character. Skill
// names are case folded so that "Perception" is stored as "perception".
func Decode(data []byte) (Character, error) {
	var s sheet
	if err := json.Unmarshal(data, &s); err != nil {
		return Character{}, fmt.Errorf("decode character sheet: %w", err)
	}

	c := Character{
		Name:       s.BasicInfo.CharacterName,
		Fortitude:  int(s.Classes.FortTotal),
		Reflex:     int(s.Classes.RefTotal),
		Will:       int(s.Classes.WillTotal),
		Initiative: int(s.Stats.Init.Total),
		Skills:     make(map[string]int, len(s.Skill)),
	}

	for name, skill := range s.Skill {
		if skill.Total == nil {
			continue
		}
		c.Skills[FoldKey(name)] = int(*skill.Total)
	}

	return c, nil
}

// FileName turns a user identity into a file name. Slashes would otherwise
// escape the data directory.
func FileName(user string) string {
	return strings.ReplaceAll(user, "/", "#")
}
