package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Orcthanc/discord-dieroller/backend"
	"github.com/Orcthanc/discord-dieroller/character"
	"github.com/Orcthanc/discord-dieroller/config"
	"github.com/Orcthanc/discord-dieroller/feedback"
	"github.com/Orcthanc/discord-dieroller/frontend"
	"github.com/Orcthanc/discord-dieroller/source"
	"github.com/Orcthanc/discord-dieroller/storage/sqlite"
	"github.com/urfave/cli"
)

// commandPrefix marks the lines the REPL treats as dice commands, the way a
// chat channel only answers messages starting with it
const commandPrefix = "?"

// pingLine is answered with "pong" without being parsed
const pingLine = commandPrefix + "ping"

var errorNoColor bool
var debugShowAST bool
var userName string
var attachmentPath string

// printResult writes the reply to a line, rendering diagnostics with source
// excerpts
func printResult(w io.Writer, out string, err error) {
	if err == nil {
		fmt.Fprintln(w, out)
		return
	}

	if msg, ok := err.(feedback.Message); ok {
		fmt.Fprintln(w, msg.Make(!errorNoColor))
		return
	}

	fmt.Fprintln(w, err.Error())
}

// attachments returns the fetcher a `read` directive uses, or nil when no
// attachment was given
func attachments(cfg config.Config) backend.AttachmentFetcher {
	if attachmentPath == "" {
		return nil
	}

	return character.Importer{
		Dir:        cfg.FilesDir,
		Converter:  cfg.Converter,
		Attachment: attachmentPath,
	}
}

// newSession wires the configured collaborators into a Session. The returned
// function releases the character store
func newSession(cfg config.Config) (*backend.Session, func(), error) {
	var store character.Store = character.NewMemoryStore()
	closeStore := func() {}

	if cfg.DatabasePath != "" {
		db, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open character store: %w", err)
		}

		log.Printf("storing characters in %s", cfg.DatabasePath)
		store = db
		closeStore = func() {
			if err := db.Close(); err != nil {
				log.Printf("close character store: %v", err)
			}
		}
	}

	session := &backend.Session{
		State:      backend.NewState(store),
		Dice:       backend.NewSource(cfg.Seed),
		Characters: character.FileLoader{Dir: cfg.FilesDir},
		Configs:    character.ConfigDir{Dir: cfg.ConfigDir},
	}

	return session, closeStore, nil
}

// repl answers every prefixed line read from r until EOF. Other lines are
// ignored
func repl(ctx context.Context, session *backend.Session, cfg config.Config, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if line == pingLine {
			fmt.Fprintln(w, "pong")
			continue
		}

		if !strings.HasPrefix(line, commandPrefix) {
			continue
		}

		out, err := session.Handle(ctx, userName, strings.TrimPrefix(line, commandPrefix), attachments(cfg))
		printResult(w, out, err)
	}

	return scanner.Err()
}

// check parses each argument without evaluating it
func check(w io.Writer, args []string) {
	for i, arg := range args {
		file := source.NewFile(fmt.Sprintf("<arg %d>", i+1), arg)

		prog, msg := frontend.Parse(file)
		if msg != nil {
			fmt.Fprintln(w, msg.Make(!errorNoColor))
			continue
		}

		if debugShowAST {
			fmt.Fprintln(w, frontend.StringifyAST(prog))
		} else {
			fmt.Fprintf(w, "%s: ok\n", arg)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Fatal(err)
	}

	errorNoColor = cfg.NoColor
	userName = cfg.User

	app := cli.NewApp()
	app.Name = "dieroll"
	app.Usage = "roll dice written in a small expression language"

	noColorFlag := cli.BoolFlag{
		Name:        "no-color",
		Usage:       "hide colors in error and warning messages",
		Destination: &errorNoColor,
	}

	debugAstFlag := cli.BoolFlag{
		Name:        "debug-ast",
		Usage:       "show a basic representation of the abstract-syntax-tree",
		Destination: &debugShowAST,
	}

	userFlag := cli.StringFlag{
		Name:        "user",
		Usage:       "name the invocations are made as",
		Value:       cfg.User,
		Destination: &userName,
	}

	attachmentFlag := cli.StringFlag{
		Name:        "attachment",
		Usage:       "character sheet PDF imported by `read`",
		Destination: &attachmentPath,
	}

	app.Commands = []cli.Command{
		{
			Name:    "repl",
			Aliases: []string{"r"},
			Usage:   "Answer every line of standard input that starts with '?'",
			Flags: []cli.Flag{
				noColorFlag,
				userFlag,
				attachmentFlag,
			},
			Action: func(c *cli.Context) error {
				session, closeStore, err := newSession(cfg)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				defer closeStore()

				log.Printf("answering lines prefixed with %q as %s", commandPrefix, userName)
				return repl(context.Background(), session, cfg, os.Stdin, os.Stdout)
			},
		},
		{
			Name:    "eval",
			Aliases: []string{"e"},
			Usage:   "Evaluate the arguments as one line of input",
			Flags: []cli.Flag{
				noColorFlag,
				userFlag,
				attachmentFlag,
			},
			Action: func(c *cli.Context) error {
				session, closeStore, err := newSession(cfg)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				defer closeStore()

				line := strings.Join(c.Args(), " ")
				out, err := session.Handle(context.Background(), userName, line, attachments(cfg))
				printResult(os.Stdout, out, err)

				if err != nil {
					return cli.NewExitError("", 1)
				}
				return nil
			},
		},
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "Check the syntax of each argument without rolling",
			Flags: []cli.Flag{
				noColorFlag,
				debugAstFlag,
			},
			Action: func(c *cli.Context) error {
				check(os.Stdout, c.Args())
				return nil
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
