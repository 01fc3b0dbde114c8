package character

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrNoAttachment indicates a read was requested without a sheet to import.
var ErrNoAttachment = errors.New("could not find attachment")

// Importer copies an exported character sheet PDF into the data directory and
// converts it to the JSON document FileLoader reads. The converter is invoked
// as "<Converter> <pdf> <json>".
type Importer struct {
	Dir        string
	Converter  string
	Attachment string
}

// FetchAttachment imports the attachment as the sheet of user.
func (i Importer) FetchAttachment(ctx context.Context, user string) error {
	if i.Attachment == "" {
		return ErrNoAttachment
	}

	base := filepath.Join(i.Dir, FileName(user))
	if err := copyFile(i.Attachment, base+".pdf"); err != nil {
		return fmt.Errorf("store attachment: %w", err)
	}

	if i.Converter == "" {
		return fmt.Errorf("no sheet converter configured")
	}

	cmd := exec.CommandContext(ctx, i.Converter, base+".pdf", base+".json")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("convert sheet: %w: %s", err, out)
	}
	return nil
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
