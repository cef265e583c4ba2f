// Command notebook is a local note-taking tool: text notes and checklists
// in a SQLite database, with an optional passcode gate for private notes.
package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notebook/internal/credential"
)

func main() {
	c := &cli{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		openVault: credential.Open,
		runUI: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	os.Exit(c.run(os.Args[1:]))
}
