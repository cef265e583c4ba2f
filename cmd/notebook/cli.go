package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/nhle/notebook/internal/config"
	"github.com/nhle/notebook/internal/credential"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/privacy"
	"github.com/nhle/notebook/internal/store"
)

// cli holds the process environment so commands can run against fakes in
// tests.
type cli struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	openVault func(service string) (*credential.Vault, error)
	runUI     func(tea.Model) error
}

// command is one subcommand. The notebook is loaded before run is called.
type command struct {
	usage string
	run   func(c *cli, env *env, args []string) error
}

var commands = map[string]command{
	"ui":       {usage: "ui                      open the terminal UI (default)", run: cmdUI},
	"list":     {usage: "list [--search QUERY]   print notes, most recent first", run: cmdList},
	"export":   {usage: "export ID [--out FILE]  write a note as an .eml file", run: cmdExport},
	"passcode": {usage: "passcode set|check|clear  manage the private-note passcode", run: cmdPasscode},
	"config":   {usage: "config init [--force]    write the default config file", run: cmdConfig},
	"reset":    {usage: "reset --yes             delete every note (debug)", run: cmdReset},
}

var commandOrder = []string{"ui", "list", "export", "passcode", "config", "reset"}

// env is what every command works with.
type env struct {
	cfgPath  string
	cfg      *config.Config
	store    *store.SQLiteStore
	notebook *notebook.Notebook
}

// passcode opens the keyring and returns the passcode verifier.
func (c *cli) passcode(e *env) (*privacy.Passcode, error) {
	vault, err := c.openVault(e.cfg.Privacy.Service)
	if err != nil {
		return nil, err
	}
	return privacy.NewPasscode(vault), nil
}

func (c *cli) run(args []string) int {
	flags := flag.NewFlagSet("notebook", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)

	configPath := flags.String("config", config.DefaultPath(), "Path to the config file")
	flags.String("db", "", "Path to the note database")
	flags.String("log-file", "", "Where the terminal UI writes its log")
	help := flags.BoolP("help", "h", false, "Show help")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(c.stderr, "error:", err)
		c.printUsage(c.stderr)
		return 2
	}
	if *help {
		c.printUsage(c.stdout)
		return 0
	}

	name := "ui"
	rest := flags.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(c.stderr, "error: unknown command %q\n", name)
		c.printUsage(c.stderr)
		return 2
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(c.stderr, "error:", err)
		return 1
	}

	e, err := openEnv(cfg)
	if err != nil {
		fmt.Fprintln(c.stderr, "error:", err)
		return 1
	}
	defer e.store.Close()
	e.cfgPath = *configPath

	if err := cmd.run(c, e, rest); err != nil {
		fmt.Fprintln(c.stderr, "error:", err)
		return 1
	}
	return 0
}

// openEnv opens the database and loads the note cache. A cache that fails
// to load is logged; commands then see an empty notebook.
func openEnv(cfg *config.Config) (*env, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	nb := notebook.New(s)
	if err := nb.Load(context.Background()); err != nil {
		log.Printf("loading notes: %v", err)
	}

	return &env{cfg: cfg, store: s, notebook: nb}, nil
}

func (c *cli) printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: notebook [--config FILE] [--db FILE] [--log-file FILE] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
}

// errUsage is returned by commands called with bad arguments.
var errUsage = errors.New("bad arguments")
