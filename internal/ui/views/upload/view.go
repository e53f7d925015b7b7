// Package upload is the CSV upload form.
package upload

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dsdto "eqviz/internal/modules/dataset/dto"
	apperrors "eqviz/internal/platform/errors"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/theme"
)

type UploadPort interface {
	ValidateCSVName(filename string) error
	Upload(ctx context.Context, in dsdto.UploadInput) (dsdto.UploadOutput, error)
}

// UploadedMsg tells the root model an upload succeeded; it schedules the
// delayed switch to the history tab.
type UploadedMsg struct {
	Filename string
}

type Model struct {
	port     UploadPort
	path     textinput.Model
	selected string
	upload   fetch.Fetcher[dsdto.UploadOutput]
	spinner  spinner.Model
	width    int
	height   int
}

func New(port UploadPort, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/equipment.csv"
	ti.CharLimit = 512
	ti.Width = 48
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		path:    ti,
		upload:  fetch.New[dsdto.UploadOutput](timeout),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the form so the next visit starts fresh.
func (m *Model) Reset() {
	m.path.SetValue("")
	m.selected = ""
	m.upload.Reset()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case fetch.DoneMsg[dsdto.UploadOutput]:
		if m.upload.Apply(msg) {
			switch {
			case m.upload.Kind() == apperrors.KindAuthExpired:
				return m, func() tea.Msg { return fetch.SessionExpiredMsg{} }
			case m.upload.Status() == fetch.Success:
				out := m.upload.Data()
				return m, func() tea.Msg { return UploadedMsg{Filename: out.Filename} }
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.upload.Busy() {
				return m, nil
			}
			if m.selected == "" {
				cmd := m.selectCmd()
				return m, cmd
			}
			cmd := m.uploadCmd()
			return m, tea.Batch(cmd, m.spinner.Tick)
		case "esc":
			m.upload.Dismiss()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	if m.selected != "" && m.path.Value() != m.selected {
		// editing the path drops the pending selection
		m.selected = ""
	}
	return m, cmd
}

// selectCmd validates the typed path client-side. A bad extension clears the
// selection so the user cannot submit it anyway.
func (m *Model) selectCmd() tea.Cmd {
	path := strings.TrimSpace(m.path.Value())
	if err := m.port.ValidateCSVName(path); err != nil {
		m.selected = ""
		m.upload.Fail(apperrors.KindOf(err), apperrors.Message(err))
		return nil
	}
	m.selected = path
	m.upload.Dismiss()
	return nil
}

func (m *Model) uploadCmd() tea.Cmd {
	path := m.selected
	return m.upload.Start(func(ctx context.Context) (dsdto.UploadOutput, error) {
		return m.port.Upload(ctx, dsdto.UploadInput{Path: path})
	})
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Upload CSV") + "\n\n")
	sb.WriteString(theme.Label.Render("File path") + "\n")
	sb.WriteString(m.path.View() + "\n\n")

	switch {
	case m.upload.Busy():
		sb.WriteString(m.spinner.View() + " uploading…\n")
	case m.upload.Status() == fetch.Success:
		out := m.upload.Data()
		sb.WriteString(theme.SuccessMsg.Render(
			fmt.Sprintf("Uploaded %s (%d rows). Taking you to history…", out.Filename, out.TotalCount)) + "\n")
	case m.upload.Status() == fetch.Error:
		sb.WriteString(theme.ErrorMsg.Render(m.upload.ErrMsg()) + "\n")
		sb.WriteString(theme.Muted.Render("esc to dismiss") + "\n")
	case m.selected != "":
		sb.WriteString(theme.Muted.Render("Selected: ") + m.selected + "\n")
		sb.WriteString(theme.Muted.Render("enter again to upload") + "\n")
	default:
		sb.WriteString(theme.Muted.Render("enter to select the file, enter again to upload") + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("Required columns: Equipment Name · Type · Flowrate · Pressure · Temperature"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(sb.String()))
}
