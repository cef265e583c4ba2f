package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notebook/internal/keys"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/privacy"
	"github.com/nhle/notebook/internal/ui"
	"github.com/nhle/notebook/internal/ui/checklist"
	helpview "github.com/nhle/notebook/internal/ui/help"
	"github.com/nhle/notebook/internal/ui/noteform"
	"github.com/nhle/notebook/internal/ui/notelist"
	"github.com/nhle/notebook/internal/ui/passcode"
)

// AuthFailedMessage is shown in the status bar when a passcode prompt fails.
const AuthFailedMessage = "Authentication Failed"

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewNoteForm
	ViewChecklist
	ViewPasscode
	ViewHelp
)

// Options configures the application model.
type Options struct {
	// Verifier checks the passcode for private notes.
	Verifier privacy.Verifier
	// ExportDir is where exported notes are written.
	ExportDir string
	// ExportFrom is the From address of exported notes.
	ExportFrom string
}

// status is the message currently shown in the status bar.
type status struct {
	text  string
	alert bool
}

// Model is the root Bubble Tea model. It routes messages between views and
// turns user intents into notebook calls.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	notebook     *notebook.Notebook
	opts         Options
	keys         *keys.KeyMap
	noteList     notelist.Model
	noteForm     noteform.Model
	checklist    checklist.Model
	passcode     passcode.Model
	helpView     helpview.Model
	status       status
	ready        bool
}

// New creates the root model over nb.
func New(nb *notebook.Notebook, opts Options) Model {
	k := keys.DefaultKeyMap()
	ck := keys.DefaultChecklistKeyMap()

	return Model{
		currentView: ViewList,
		notebook:    nb,
		opts:        opts,
		keys:        k,
		noteList:    notelist.New(nb, k, 80, 24),
		noteForm:    noteform.New(80, 24),
		checklist:   checklist.New(nb, ck, 80, 24),
		passcode:    passcode.New(opts.Verifier, 80),
		helpView: helpview.New(80, 24,
			helpview.Section{Title: "Notes", Keys: k},
			helpview.Section{Title: "Checklist editor", Keys: ck},
		),
	}
}

// Init loads the note cache.
func (m Model) Init() tea.Cmd {
	return m.loadNotebook()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.noteList.SetSize(w, h)
		m.noteForm.SetSize(w, h)
		m.checklist.SetSize(w, h)
		m.passcode.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case notebookLoadedMsg:
		if msg.err != nil {
			m.fail("loading notes", msg.err)
		}
		return m, m.noteList.LoadNotes()

	case resultMsg:
		if msg.err != nil {
			m.fail(msg.op, msg.err)
		} else if msg.info != "" {
			m.status = status{text: msg.info}
		}
		return m, m.noteList.LoadNotes()

	case notelist.OpenNoteMsg:
		cmd := m.gate(msg.Note, privacy.ActionOpen)
		return m, cmd

	case notelist.NewNoteMsg:
		m.status = status{}
		if msg.IsChecklist {
			m.switchTo(ViewChecklist)
			cmd := m.checklist.StartDraft()
			return m, cmd
		}
		m.switchTo(ViewNoteForm)
		cmd := m.noteForm.StartCreate()
		return m, cmd

	case notelist.TogglePrivacyMsg:
		cmd := m.gate(msg.Note, privacy.ToggleAction(msg.Note))
		return m, cmd

	case notelist.DeleteNoteMsg:
		return m, m.deleteNote(msg.Note)

	case notelist.ExportNoteMsg:
		cmd := m.gate(msg.Note, privacy.ActionExport)
		return m, cmd

	case passcode.ResultMsg:
		m.currentView = ViewList
		if msg.Err != nil {
			if !errors.Is(msg.Err, privacy.ErrAuthFailed) {
				log.Printf("verifying passcode: %v", msg.Err)
			}
			m.status = status{text: AuthFailedMessage, alert: true}
			return m, nil
		}
		cmd := m.perform(msg.Note, msg.Action)
		return m, cmd

	case noteform.SubmittedMsg:
		m.currentView = ViewList
		return m, m.saveTextNote(msg)

	case noteform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case checklist.ChangedMsg:
		if msg.Err != nil {
			m.fail("updating checklist", msg.Err)
		}
		// The editor may have moved on to another note since the write.
		if m.currentView != ViewChecklist || msg.NoteID != m.checklist.NoteID() {
			return m, m.noteList.LoadNotes()
		}
		var cmd tea.Cmd
		m.checklist, cmd = m.checklist.Update(msg)
		return m, tea.Batch(cmd, m.noteList.LoadNotes())

	case checklist.ItemsLoadedMsg:
		if msg.Err != nil {
			m.fail("loading checklist", msg.Err)
		}
		var cmd tea.Cmd
		m.checklist, cmd = m.checklist.Update(msg)
		return m, cmd

	case checklist.CloseMsg:
		m.currentView = ViewList
		if msg.Draft != nil {
			return m, m.saveDraft(msg.Draft)
		}
		return m, m.noteList.LoadNotes()

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active view.
// Keys are left alone while a text input has focus.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	listFocused := m.currentView == ViewList && !m.noteList.Searching()
	if listFocused {
		// Any key clears a stale status message.
		m.status = status{}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit, true
		case key.Matches(msg, m.keys.Refresh):
			return m.loadNotebook(), true
		}
	}

	switch {
	case m.currentView == ViewHelp && key.Matches(msg, m.keys.Help, m.keys.Back):
		m.currentView = m.previousView
		return nil, true
	case key.Matches(msg, m.keys.Help) &&
		(listFocused || m.currentView == ViewChecklist && !m.checklist.Typing()):
		m.switchTo(ViewHelp)
		return nil, true
	}

	return nil, false
}

// gate runs action on note, asking for the passcode first when the note
// is private and the action reveals it.
func (m *Model) gate(note model.Note, action privacy.Action) tea.Cmd {
	if !privacy.NeedsAuth(note, action) {
		return m.perform(note, action)
	}
	m.switchTo(ViewPasscode)
	return m.passcode.Start(note, action)
}

// perform runs an already authorized action.
func (m *Model) perform(note model.Note, action privacy.Action) tea.Cmd {
	switch action {
	case privacy.ActionOpen:
		return m.openNote(note)
	case privacy.ActionMakePublic:
		return m.setPrivate(note, false)
	case privacy.ActionMakePrivate:
		return m.setPrivate(note, true)
	case privacy.ActionExport:
		return m.exportNote(note)
	default:
		return nil
	}
}

func (m *Model) openNote(note model.Note) tea.Cmd {
	if note.IsChecklist {
		m.switchTo(ViewChecklist)
		return m.checklist.Open(note)
	}
	m.switchTo(ViewNoteForm)
	return m.noteForm.StartEdit(note)
}

func (m *Model) switchTo(v ViewState) {
	m.previousView = m.currentView
	m.currentView = v
}

// fail logs a failed operation and shows it in the status bar. The cache
// is left as it was.
func (m *Model) fail(op string, err error) {
	log.Printf("%s: %v", op, err)
	m.status = status{text: fmt.Sprintf("Could not %s", op), alert: true}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.noteList, cmd = m.noteList.Update(msg)
	case ViewNoteForm:
		m.noteForm, cmd = m.noteForm.Update(msg)
	case ViewChecklist:
		m.checklist, cmd = m.checklist.Update(msg)
	case ViewPasscode:
		m.passcode, cmd = m.passcode.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Notebook", m.noteCount())
	text, alert := m.keyHints(), false
	if m.status.text != "" {
		text, alert = m.status.text, m.status.alert
	}
	statusBar := m.layout.RenderStatusBar(text, alert)

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.noteList.View()
	case ViewNoteForm:
		return m.noteForm.View()
	case ViewChecklist:
		return m.checklist.View()
	case ViewPasscode:
		return m.passcode.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

func (m Model) noteCount() string {
	n := m.notebook.Len()
	if n == 1 {
		return "1 note"
	}
	return fmt.Sprintf("%d notes", n)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewNoteForm:
		return "tab next field | enter submit | esc cancel"
	case ViewChecklist:
		return "a add | space toggle | e rename | t title | d delete | esc close"
	case ViewPasscode:
		return "enter unlock | esc cancel"
	default:
		if q := m.noteList.Query(); q != "" {
			return fmt.Sprintf("search %q | esc clear", q)
		}
		return "q quit | ? help | n note | L checklist | / search | p private | x export"
	}
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// StatusMessage returns the text currently shown in the status bar, if
// any.
func (m Model) StatusMessage() string {
	return m.status.text
}

func (m Model) loadNotebook() tea.Cmd {
	nb := m.notebook
	return func() tea.Msg {
		return notebookLoadedMsg{err: nb.Load(context.Background())}
	}
}
