// Package history lists the recent datasets and handles row deletion.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dsdto "eqviz/internal/modules/dataset/dto"
	apperrors "eqviz/internal/platform/errors"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/theme"
)

type HistoryPort interface {
	List(ctx context.Context) ([]dsdto.SummaryOutput, error)
	Delete(ctx context.Context, id int) error
}

// SelectedMsg asks the root model to open the detail view for a dataset.
type SelectedMsg struct {
	ID int
}

type item struct {
	summary dsdto.SummaryOutput
}

func (i item) Title() string { return i.summary.Filename }

func (i item) Description() string {
	s := i.summary
	return fmt.Sprintf("%s · %d rows · flow %.1f · press %.1f · temp %.1f",
		s.UploadDate.Local().Format("2006-01-02 15:04"),
		s.TotalCount, s.AvgFlowrate, s.AvgPressure, s.AvgTemperature)
}

func (i item) FilterValue() string { return i.summary.Filename }

type Model struct {
	port    HistoryPort
	rows    list.Model
	fetch   fetch.Fetcher[[]dsdto.SummaryOutput]
	del     fetch.Fetcher[int]
	spinner spinner.Model
	width   int
	height  int
}

func New(port HistoryPort, timeout time.Duration) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Sapphire).BorderForeground(theme.Sapphire)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Subtext0).BorderForeground(theme.Sapphire)

	rows := list.New(nil, delegate, 0, 0)
	rows.Title = "Upload history"
	rows.SetShowStatusBar(false)
	rows.SetFilteringEnabled(false)
	rows.Styles.Title = theme.Title

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		rows:    rows,
		fetch:   fetch.New[[]dsdto.SummaryOutput](timeout),
		del:     fetch.New[int](timeout),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Reload() tea.Cmd {
	start := m.fetch.Start(func(ctx context.Context) ([]dsdto.SummaryOutput, error) {
		return m.port.List(ctx)
	})
	return tea.Batch(start, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rows.SetSize(msg.Width-4, msg.Height-6)

	case fetch.DoneMsg[[]dsdto.SummaryOutput]:
		if m.fetch.Apply(msg) {
			switch {
			case m.fetch.Kind() == apperrors.KindAuthExpired:
				return m, func() tea.Msg { return fetch.SessionExpiredMsg{} }
			case m.fetch.Status() == fetch.Success:
				m.setItems(m.fetch.Data())
			}
		}

	case fetch.DoneMsg[int]:
		if m.del.Apply(msg) {
			switch {
			case m.del.Kind() == apperrors.KindAuthExpired:
				return m, func() tea.Msg { return fetch.SessionExpiredMsg{} }
			case m.del.Status() == fetch.Success:
				// remove the row locally; no refetch
				m.removeItem(m.del.Data())
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if it, ok := m.rows.SelectedItem().(item); ok {
				id := it.summary.ID
				return m, func() tea.Msg { return SelectedMsg{ID: id} }
			}
			return m, nil
		case "d":
			if it, ok := m.rows.SelectedItem().(item); ok && !m.del.Busy() {
				cmd := m.deleteCmd(it.summary.ID)
				return m, tea.Batch(cmd, m.spinner.Tick)
			}
			return m, nil
		case "r":
			if !m.fetch.Busy() {
				cmd := m.Reload()
				return m, cmd
			}
			return m, nil
		case "esc":
			m.fetch.Dismiss()
			m.del.Dismiss()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m *Model) deleteCmd(id int) tea.Cmd {
	return m.del.Start(func(ctx context.Context) (int, error) {
		if err := m.port.Delete(ctx, id); err != nil {
			return 0, err
		}
		return id, nil
	})
}

func (m *Model) setItems(summaries []dsdto.SummaryOutput) {
	items := make([]list.Item, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, item{summary: s})
	}
	m.rows.SetItems(items)
}

func (m *Model) removeItem(id int) {
	for idx, it := range m.rows.Items() {
		if it.(item).summary.ID == id {
			m.rows.RemoveItem(idx)
			break
		}
	}
}

func (m Model) View() string {
	if m.fetch.Status() == fetch.Loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading history…")
	}
	if m.fetch.Status() == fetch.Error {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.ErrorMsg.Render(m.fetch.ErrMsg())+"\n"+theme.Muted.Render("r retry · esc dismiss"))
	}
	if len(m.rows.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No datasets yet. Upload a CSV to see it here."))
	}

	body := m.rows.View()
	footer := theme.Muted.Render("enter details · d delete · r refresh")
	if m.del.Busy() {
		footer = m.spinner.View() + " deleting…"
	} else if m.del.Status() == fetch.Error {
		footer = theme.ErrorMsg.Render(m.del.ErrMsg()) + " " + theme.Muted.Render("(esc to dismiss)")
	}
	return body + "\n" + footer
}
