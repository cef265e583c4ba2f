package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/nhle/notebook/internal/app"
	"github.com/nhle/notebook/internal/config"
	"github.com/nhle/notebook/internal/export"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/privacy"
)

func cmdUI(c *cli, e *env, _ []string) error {
	f, err := tea.LogToFile(e.cfg.Log.File, "notebook")
	if err != nil {
		log.Printf("logging to %s: %v", e.cfg.Log.File, err)
	} else {
		defer f.Close()
	}

	var verifier privacy.Verifier = lockedVerifier{}
	if p, err := c.passcode(e); err != nil {
		log.Printf("opening keyring: %v", err)
	} else {
		verifier = p
		if !p.IsSet() {
			log.Print("no passcode set; private notes stay locked")
			fmt.Fprintln(c.stderr, "warning: no passcode set, private notes stay locked (run: notebook passcode set)")
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return c.runUI(app.New(e.notebook, app.Options{
		Verifier:   verifier,
		ExportDir:  wd,
		ExportFrom: e.cfg.Export.From,
	}))
}

// lockedVerifier keeps private notes closed when no keyring is available.
type lockedVerifier struct{}

func (lockedVerifier) Verify(string) error { return privacy.ErrNoPasscode }

func cmdList(c *cli, e *env, args []string) error {
	flags := flag.NewFlagSet("list", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	search := flags.String("search", "", "Only show notes whose title contains QUERY")
	if err := flags.Parse(args); err != nil {
		return err
	}

	notes := e.notebook.Notes()
	if *search != "" {
		notes = e.notebook.Search(*search)
	}

	w := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFLAGS\tDATE\tTITLE")
	for _, n := range notes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, flagsOf(n), n.Date.Local().Format("2006-01-02 15:04"), n.Title)
	}
	return w.Flush()
}

func flagsOf(n model.Note) string {
	f := []byte("--")
	if n.IsPrivate {
		f[0] = 'P'
	}
	if n.IsChecklist {
		f[1] = 'L'
	}
	return string(f)
}

func cmdExport(c *cli, e *env, args []string) error {
	flags := flag.NewFlagSet("export", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	out := flags.StringP("out", "o", "", "Output file (default: ID-title.eml)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("%w: export takes exactly one note ID", errUsage)
	}

	id, err := strconv.ParseInt(flags.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid note ID %q", errUsage, flags.Arg(0))
	}
	note, ok := e.notebook.Note(id)
	if !ok {
		return fmt.Errorf("note %d not found", id)
	}

	if privacy.NeedsAuth(note, privacy.ActionExport) {
		p, err := c.passcode(e)
		if err != nil {
			return err
		}
		code, err := readLine(c.stdin, c.stderr, "Passcode: ")
		if err != nil {
			return err
		}
		if err := p.Verify(code); err != nil {
			return err
		}
	}

	var items []model.ChecklistItem
	if note.IsChecklist {
		items, err = e.notebook.ChecklistItems(context.Background(), note.ID)
		if err != nil {
			return err
		}
	}

	path := *out
	if path == "" {
		path = export.FileName(note)
	}
	if err := export.WriteFile(path, note, items, e.cfg.Export.From); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintln(c.stdout, abs)
	return nil
}

func cmdPasscode(c *cli, e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: passcode takes one of set, check, clear", errUsage)
	}

	p, err := c.passcode(e)
	if err != nil {
		return err
	}

	switch args[0] {
	case "set":
		code, err := readLine(c.stdin, c.stderr, "New passcode: ")
		if err != nil {
			return err
		}
		if err := p.Set(code); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "passcode set")

	case "check":
		code, err := readLine(c.stdin, c.stderr, "Passcode: ")
		if err != nil {
			return err
		}
		if err := p.Verify(code); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "ok")

	case "clear":
		if err := p.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "passcode cleared")

	default:
		return fmt.Errorf("%w: unknown passcode action %q", errUsage, args[0])
	}
	return nil
}

func cmdConfig(c *cli, e *env, args []string) error {
	if len(args) == 0 || args[0] != "init" {
		return fmt.Errorf("%w: config takes init", errUsage)
	}

	flags := flag.NewFlagSet("config init", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	force := flags.Bool("force", false, "Overwrite an existing config file")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if _, err := os.Stat(e.cfgPath); err == nil && !*force {
		return fmt.Errorf("%s already exists; pass --force to overwrite", e.cfgPath)
	}
	if err := config.Save(e.cfgPath, config.Default()); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, e.cfgPath)
	return nil
}

func cmdReset(c *cli, e *env, args []string) error {
	flags := flag.NewFlagSet("reset", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	yes := flags.Bool("yes", false, "Confirm that every note should be deleted")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("%w: reset deletes every note; pass --yes to confirm", errUsage)
	}

	if err := e.notebook.Reset(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "database reset")
	return nil
}

// readLine prompts on prompt and reads one line from in.
func readLine(in io.Reader, prompt io.Writer, text string) (string, error) {
	fmt.Fprint(prompt, text)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading passcode: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
