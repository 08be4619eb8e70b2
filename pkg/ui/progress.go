package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned by RunWithSpinner when the program was stopped
// before the task finished.
var ErrInterrupted = errors.New("interrupted")

// TaskDoneMsg reports the end of the task a ProgressModel waits for.
type TaskDoneMsg struct {
	Err error
}

// ProgressModel shows a spinner next to a title until a TaskDoneMsg
// arrives.
type ProgressModel struct {
	title   string
	spinner spinner.Model
	started time.Time

	done    bool
	err     error
	elapsed time.Duration
}

func NewProgressModel(title string) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = mutedStyle

	return ProgressModel{
		title:   title,
		spinner: sp,
		started: time.Now(),
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TaskDoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	switch {
	case !m.done:
		return fmt.Sprintf("%s %s\n", m.spinner.View(), m.title)
	case m.err != nil:
		return errorStyle.Render("✗ "+m.title) + "\n"
	default:
		return successStyle.Render("✓ "+m.title) + mutedStyle.Render(fmt.Sprintf(" (%s)", m.elapsed.Round(time.Millisecond))) + "\n"
	}
}

// Done reports whether the task finished, and with which error.
func (m ProgressModel) Done() (bool, error) {
	return m.done, m.err
}

// RunWithSpinner runs task while rendering a spinner on w and returns the
// task's error. The program reads no keyboard input.
func RunWithSpinner(w io.Writer, title string, task func() error) error {
	p := tea.NewProgram(NewProgressModel(title), tea.WithOutput(w), tea.WithInput(strings.NewReader("")))

	result := make(chan error, 1)
	go func() {
		err := task()
		result <- err
		p.Send(TaskDoneMsg{Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := final.(ProgressModel)
	if !ok {
		return ErrInterrupted
	}
	if done, _ := m.Done(); !done {
		return ErrInterrupted
	}
	return <-result
}
