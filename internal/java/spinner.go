package java

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrScanInterrupted is returned when the user aborts the spinner.
var ErrScanInterrupted = errors.New("scan interrupted")

type scanFinishedMsg struct{}

type scanFoundMsg struct{}

type scannerModel struct {
	spinner     spinner.Model
	message     string
	found       int
	quitting    bool
	interrupted bool
}

func newScannerModel(message string) scannerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return scannerModel{
		spinner: s,
		message: message,
	}
}

func (m scannerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case scanFoundMsg:
		m.found++
		return m, nil

	case scanFinishedMsg:
		m.quitting = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m scannerModel) View() string {
	if m.quitting {
		return ""
	}
	if m.found > 0 {
		return fmt.Sprintf(" %s %s (%d found)\n", m.spinner.View(), m.message, m.found)
	}
	return fmt.Sprintf(" %s %s\n", m.spinner.View(), m.message)
}

// ScanProgress lets the scanned function report each JDK it accepts.
type ScanProgress func()

// WithScanner runs fn while a spinner is shown and returns fn's error.
func WithScanner(message string, fn func(found ScanProgress) error) error {
	p := tea.NewProgram(newScannerModel(message))

	done := make(chan error, 1)
	go func() {
		time.Sleep(50 * time.Millisecond) // Give UI time to start
		err := fn(func() { p.Send(scanFoundMsg{}) })
		p.Send(scanFinishedMsg{})
		done <- err
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(scannerModel); ok && m.interrupted {
		return ErrScanInterrupted
	}

	return <-done
}
