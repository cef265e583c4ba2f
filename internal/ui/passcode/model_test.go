package passcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/privacy"
)

type stubVerifier struct {
	want string
	err  error
}

func (v stubVerifier) Verify(passcode string) error {
	if v.err != nil {
		return v.err
	}
	if passcode != v.want {
		return privacy.ErrAuthFailed
	}
	return nil
}

func TestVerify(t *testing.T) {
	note := model.Note{ID: 9, Title: "Secret", IsPrivate: true}

	tests := []struct {
		name     string
		verifier stubVerifier
		input    string
		wantErr  error
	}{
		{"accepted", stubVerifier{want: "2468"}, "2468", nil},
		{"wrong", stubVerifier{want: "2468"}, "1357", privacy.ErrAuthFailed},
		{"none configured", stubVerifier{err: privacy.ErrNoPasscode}, "2468", privacy.ErrAuthFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.verifier, 80)
			m.Start(note, privacy.ActionMakePublic)

			res, ok := m.verify(tt.input)().(ResultMsg)
			require.True(t, ok)
			assert.Equal(t, note, res.Note)
			assert.Equal(t, privacy.ActionMakePublic, res.Action)
			if tt.wantErr == nil {
				assert.NoError(t, res.Err)
			} else {
				assert.ErrorIs(t, res.Err, tt.wantErr)
			}
		})
	}
}

func TestView(t *testing.T) {
	m := New(stubVerifier{}, 80)
	assert.Empty(t, m.View())

	m.Start(model.Note{Title: "Diary"}, privacy.ActionOpen)
	assert.Contains(t, m.View(), "Diary")
}
