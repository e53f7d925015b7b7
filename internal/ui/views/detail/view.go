// Package detail shows a single dataset's equipment rows and report download.
package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dsdto "eqviz/internal/modules/dataset/dto"
	apperrors "eqviz/internal/platform/errors"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/theme"
)

type DetailPort interface {
	Get(ctx context.Context, id int) (dsdto.DetailOutput, error)
	SaveReport(ctx context.Context, id int) (dsdto.ReportOutput, error)
}

// BackMsg returns navigation to the history view.
type BackMsg struct{}

type Model struct {
	port    DetailPort
	id      int
	detail  fetch.Fetcher[dsdto.DetailOutput]
	report  fetch.Fetcher[dsdto.ReportOutput]
	table   table.Model
	spinner spinner.Model
	width   int
	height  int
}

func New(port DetailPort, timeout time.Duration) Model {
	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Equipment", Width: 24},
			{Title: "Type", Width: 16},
			{Title: "Flowrate", Width: 10},
			{Title: "Pressure", Width: 10},
			{Title: "Temp", Width: 8},
		}),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Lavender).Bold(true).BorderForeground(theme.Surface1)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Sapphire)
	tbl.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		detail:  fetch.New[dsdto.DetailOutput](timeout),
		report:  fetch.New[dsdto.ReportOutput](timeout),
		table:   tbl,
		spinner: sp,
	}
}

// Load points the view at a dataset and starts the fetch. A later Load
// supersedes any in-flight one.
func (m *Model) Load(id int) tea.Cmd {
	m.id = id
	m.report.Reset()
	m.table.SetRows(nil)
	return tea.Batch(m.detail.Start(func(ctx context.Context) (dsdto.DetailOutput, error) {
		return m.port.Get(ctx, id)
	}), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 12)

	case fetch.DoneMsg[dsdto.DetailOutput]:
		if m.detail.Apply(msg) {
			switch {
			case m.detail.Kind() == apperrors.KindAuthExpired:
				return m, func() tea.Msg { return fetch.SessionExpiredMsg{} }
			case m.detail.Status() == fetch.Success:
				m.setRows(m.detail.Data().Equipment)
			}
		}

	case fetch.DoneMsg[dsdto.ReportOutput]:
		if m.report.Apply(msg) && m.report.Kind() == apperrors.KindAuthExpired {
			return m, func() tea.Msg { return fetch.SessionExpiredMsg{} }
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.detail.Status() == fetch.Error || m.report.Status() == fetch.Error {
				m.detail.Dismiss()
				m.report.Dismiss()
				return m, nil
			}
			return m, func() tea.Msg { return BackMsg{} }
		case "r":
			if !m.report.Busy() && m.detail.Status() == fetch.Success {
				cmd := m.reportCmd()
				return m, tea.Batch(cmd, m.spinner.Tick)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) reportCmd() tea.Cmd {
	id := m.id
	return m.report.Start(func(ctx context.Context) (dsdto.ReportOutput, error) {
		return m.port.SaveReport(ctx, id)
	})
}

func (m *Model) setRows(equipment []dsdto.EquipmentOutput) {
	rows := make([]table.Row, 0, len(equipment))
	for _, e := range equipment {
		rows = append(rows, table.Row{
			e.Name,
			e.Type,
			fmt.Sprintf("%.1f", e.Flowrate),
			fmt.Sprintf("%.1f", e.Pressure),
			fmt.Sprintf("%.1f", e.Temperature),
		})
	}
	m.table.SetRows(rows)
}

func (m Model) View() string {
	if m.detail.Status() == fetch.Loading || m.detail.Status() == fetch.Idle {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dataset…")
	}
	if m.detail.Status() == fetch.Error {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.ErrorMsg.Render(m.detail.ErrMsg())+"\n"+theme.Muted.Render("esc dismiss"))
	}

	d := m.detail.Data()
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Filename) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("Uploaded %s · %d rows · flow %.1f · press %.1f · temp %.1f",
		d.UploadDate.Local().Format("2006-01-02 15:04"),
		d.TotalCount, d.AvgFlowrate, d.AvgPressure, d.AvgTemperature)) + "\n\n")
	sb.WriteString(m.table.View() + "\n\n")

	switch {
	case m.report.Busy():
		sb.WriteString(m.spinner.View() + " generating report…\n")
	case m.report.Status() == fetch.Success:
		out := m.report.Data()
		sb.WriteString(theme.SuccessMsg.Render(
			fmt.Sprintf("Report saved to %s (%d pages)", out.Path, out.Pages)) + "\n")
	case m.report.Status() == fetch.Error:
		sb.WriteString(theme.ErrorMsg.Render(m.report.ErrMsg()) + " " + theme.Muted.Render("(esc to dismiss)") + "\n")
	default:
		sb.WriteString(theme.Muted.Render("r download PDF report · esc back") + "\n")
	}
	return sb.String()
}
