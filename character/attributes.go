package character

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir loads attribute maps from "<Dir>/<name>.com" files. Each line
// holding at least two whitespace separated words maps the first word (the
// mnemonic) to the second (the field key); other lines are ignored.
type ConfigDir struct {
	Dir string
}

// LoadAttributeConfig reads the attribute map called name.
func (d ConfigDir) LoadAttributeConfig(ctx context.Context, name string) (AttributeMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(d.Dir, FileName(name)+".com"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not find config %s: %w", name, ErrConfigNotFound)
		}
		return nil, fmt.Errorf("open config %s: %w", name, err)
	}
	defer f.Close()

	return ParseAttributes(f)
}

// ParseAttributes reads an attribute map in the two column config format.
func ParseAttributes(r io.Reader) (AttributeMap, error) {
	attrs := make(AttributeMap)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		attrs[fields[0]] = FoldKey(fields[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return attrs, nil
}
