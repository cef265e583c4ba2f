package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notebook/internal/app"
	"github.com/nhle/notebook/internal/config"
	"github.com/nhle/notebook/internal/credential"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/store"
)

type harness struct {
	dir    string
	db     string
	vault  *credential.Vault
	ran    tea.Model
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		dir:   dir,
		db:    filepath.Join(dir, "data", "notebook.db"),
		vault: credential.NewVault(keyring.NewArrayKeyring(nil)),
	}
}

func (h *harness) run(stdin string, args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	c := &cli{
		stdin:  strings.NewReader(stdin),
		stdout: &h.stdout,
		stderr: &h.stderr,
		openVault: func(string) (*credential.Vault, error) {
			return h.vault, nil
		},
		runUI: func(m tea.Model) error {
			h.ran = m
			return nil
		},
	}
	global := []string{
		"--config", filepath.Join(h.dir, "config.yaml"),
		"--db", h.db,
		"--log-file", filepath.Join(h.dir, "notebook.log"),
	}
	return c.run(append(global, args...))
}

// seed writes notes straight to the database the CLI will open.
func (h *harness) seed(t *testing.T, in ...model.NoteInput) []model.Note {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(h.db), 0o755))
	s, err := store.NewSQLiteStore(h.db)
	require.NoError(t, err)
	defer s.Close()

	nb := notebook.New(s)
	var out []model.Note
	for _, n := range in {
		created, err := nb.CreateNote(context.Background(), n)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestDefaultCommand_RunsUI(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run(""), h.stderr.String())
	assert.IsType(t, app.Model{}, h.ran)
	assert.FileExists(t, h.db)
}

func TestUI_WarnsWithoutPasscode(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("", "ui"), h.stderr.String())
	assert.Contains(t, h.stderr.String(), "no passcode set")

	require.Equal(t, 0, h.run("2468\n", "passcode", "set"), h.stderr.String())
	require.Equal(t, 0, h.run("", "ui"))
	assert.NotContains(t, h.stderr.String(), "no passcode set")
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "config.yaml")

	require.Equal(t, 0, h.run("", "config", "init"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), path)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.Equal(t, 1, h.run("", "config", "init"))
	assert.Contains(t, h.stderr.String(), "already exists")
	assert.Equal(t, 0, h.run("", "config", "init", "--force"), h.stderr.String())
	assert.Equal(t, 1, h.run("", "config", "show"))
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 2, h.run("", "frobnicate"))
	assert.Contains(t, h.stderr.String(), "unknown command")
}

func TestList(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		model.NoteInput{Title: "Trip plan"},
		model.NoteInput{Title: "Groceries", IsChecklist: true},
		model.NoteInput{Title: "Trip budget", IsPrivate: true},
	)

	require.Equal(t, 0, h.run("", "list"), h.stderr.String())
	out := h.stdout.String()
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "-L")
	assert.Contains(t, out, "P-")

	require.Equal(t, 0, h.run("", "list", "--search", "TRIP"))
	assert.NotContains(t, h.stdout.String(), "Groceries")
	assert.Contains(t, h.stdout.String(), "Trip budget")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	notes := h.seed(t, model.NoteInput{Title: "Hello", Content: "World"})
	out := filepath.Join(h.dir, "hello.eml")

	require.Equal(t, 0, h.run("", "export", strconv.FormatInt(notes[0].ID, 10), "--out", out), h.stderr.String())
	assert.Contains(t, h.stdout.String(), "hello.eml")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Subject: Hello")

	assert.Equal(t, 1, h.run("", "export", "999"))
	assert.Equal(t, 1, h.run("", "export"))
}

func TestExportPrivate_NeedsPasscode(t *testing.T) {
	h := newHarness(t)
	notes := h.seed(t, model.NoteInput{Title: "Secret", IsPrivate: true})
	id := strconv.FormatInt(notes[0].ID, 10)
	out := filepath.Join(h.dir, "secret.eml")

	assert.Equal(t, 1, h.run("2468\n", "export", id, "--out", out), "no passcode configured")
	assert.NoFileExists(t, out)

	require.Equal(t, 0, h.run("2468\n", "passcode", "set"), h.stderr.String())
	assert.Equal(t, 1, h.run("1111\n", "export", id, "--out", out))
	assert.NoFileExists(t, out)

	require.Equal(t, 0, h.run("2468\n", "export", id, "--out", out), h.stderr.String())
	assert.FileExists(t, out)
}

func TestPasscode(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run("12\n", "passcode", "set"), "too short")
	require.Equal(t, 0, h.run("2468\n", "passcode", "set"), h.stderr.String())
	assert.Equal(t, 0, h.run("2468\n", "passcode", "check"))
	assert.Equal(t, 1, h.run("9999\n", "passcode", "check"))
	assert.Contains(t, h.stderr.String(), "authentication failed")

	require.Equal(t, 0, h.run("", "passcode", "clear"))
	assert.Equal(t, 1, h.run("2468\n", "passcode", "check"))
	assert.Equal(t, 1, h.run("", "passcode", "rotate"))
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.seed(t, model.NoteInput{Title: "Doomed"})

	assert.Equal(t, 1, h.run("", "reset"))
	require.Equal(t, 0, h.run("", "list"))
	assert.Contains(t, h.stdout.String(), "Doomed")

	require.Equal(t, 0, h.run("", "reset", "--yes"), h.stderr.String())
	require.Equal(t, 0, h.run("", "list"))
	assert.NotContains(t, h.stdout.String(), "Doomed")
}
