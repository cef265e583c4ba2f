// Package privacy implements the authentication gate in front of private
// notes. Privacy is a presentation gate only: note contents are stored in
// plain text either way.
package privacy

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/notebook/internal/credential"
	"github.com/nhle/notebook/internal/model"
)

var (
	// ErrAuthFailed is returned when the passcode does not match.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrNoPasscode is returned when no passcode has been set up yet.
	ErrNoPasscode = errors.New("no passcode configured")
	// ErrPasscodeTooShort is returned by Set for passcodes under MinLength.
	ErrPasscodeTooShort = errors.New("passcode too short")
)

// MinLength is the shortest passcode Set accepts, in characters.
const MinLength = 4

// passcodeKey is the keyring entry holding the bcrypt hash.
const passcodeKey = "passcode-hash"

// Action is something a user wants to do with a note.
type Action int

const (
	ActionOpen Action = iota
	ActionMakePublic
	ActionMakePrivate
	ActionExport
)

// NeedsAuth reports whether a must be authenticated for note. Anything
// that reveals a private note or removes its protection needs it; adding
// protection never does.
func NeedsAuth(note model.Note, a Action) bool {
	if !note.IsPrivate {
		return false
	}
	switch a {
	case ActionOpen, ActionMakePublic, ActionExport:
		return true
	default:
		return false
	}
}

// ToggleAction returns the action that flipping the privacy of note means.
func ToggleAction(note model.Note) Action {
	if note.IsPrivate {
		return ActionMakePublic
	}
	return ActionMakePrivate
}

// Verifier checks a passcode.
type Verifier interface {
	Verify(passcode string) error
}

var _ Verifier = (*Passcode)(nil)

// Passcode verifies a local passcode whose bcrypt hash lives in the vault.
type Passcode struct {
	vault *credential.Vault
	cost  int
}

// NewPasscode creates a verifier over vault.
func NewPasscode(vault *credential.Vault) *Passcode {
	return &Passcode{vault: vault, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt cost for new hashes. Tests use bcrypt.MinCost.
func (p *Passcode) WithCost(cost int) *Passcode {
	p.cost = cost
	return p
}

// IsSet reports whether a passcode has been configured.
func (p *Passcode) IsSet() bool {
	_, err := p.vault.Get(passcodeKey)
	return err == nil
}

// Set replaces the stored passcode.
func (p *Passcode) Set(passcode string) error {
	if utf8.RuneCountInString(passcode) < MinLength {
		return fmt.Errorf("%w: need at least %d characters", ErrPasscodeTooShort, MinLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), p.cost)
	if err != nil {
		return fmt.Errorf("hashing passcode: %w", err)
	}
	return p.vault.Set(passcodeKey, hash)
}

// Clear removes the stored passcode.
func (p *Passcode) Clear() error {
	return p.vault.Delete(passcodeKey)
}

// Verify checks passcode against the stored hash. Without a stored
// passcode every attempt fails with ErrNoPasscode.
func (p *Passcode) Verify(passcode string) error {
	hash, err := p.vault.Get(passcodeKey)
	if errors.Is(err, credential.ErrNotFound) {
		return ErrNoPasscode
	}
	if err != nil {
		return fmt.Errorf("reading passcode: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(passcode)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrAuthFailed
		}
		return fmt.Errorf("comparing passcode: %w", err)
	}
	return nil
}
