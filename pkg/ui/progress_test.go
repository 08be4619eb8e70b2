package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestProgressModel(t *testing.T) {
	m := NewProgressModel("computing statistics")
	require.NotNil(t, m.Init())
	require.Contains(t, m.View(), "computing statistics")

	next, cmd := m.Update(spinner.TickMsg{})
	require.NotNil(t, next)
	_ = cmd

	done, _ := next.(ProgressModel).Done()
	require.False(t, done)

	next, cmd = next.Update(TaskDoneMsg{})
	require.NotNil(t, cmd)
	final := next.(ProgressModel)
	done, err := final.Done()
	require.True(t, done)
	require.NoError(t, err)
	require.Contains(t, final.View(), "✓")
}

func TestProgressModelFailure(t *testing.T) {
	boom := errors.New("boom")
	next, _ := NewProgressModel("scan").Update(TaskDoneMsg{Err: boom})

	done, err := next.(ProgressModel).Done()
	require.True(t, done)
	require.ErrorIs(t, err, boom)
	require.Contains(t, next.View(), "✗ scan")
}

func TestProgressModelCtrlC(t *testing.T) {
	next, cmd := NewProgressModel("scan").Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	done, _ := next.(ProgressModel).Done()
	require.False(t, done)
}

func TestRunWithSpinner(t *testing.T) {
	var out bytes.Buffer
	ran := false
	require.NoError(t, RunWithSpinner(&out, "work", func() error {
		ran = true
		return nil
	}))
	require.True(t, ran)
	require.Contains(t, out.String(), "work")

	boom := errors.New("boom")
	err := RunWithSpinner(&out, "work", func() error { return boom })
	require.ErrorIs(t, err, boom)
}
