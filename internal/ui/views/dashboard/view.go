// Package dashboard renders the latest dataset's aggregate statistics.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dsdto "eqviz/internal/modules/dataset/dto"
	apperrors "eqviz/internal/platform/errors"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/theme"
)

type ListPort interface {
	List(ctx context.Context) ([]dsdto.SummaryOutput, error)
}

type Model struct {
	port    ListPort
	list    fetch.Fetcher[[]dsdto.SummaryOutput]
	spinner spinner.Model
	width   int
	height  int
}

func New(port ListPort, timeout time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		port:    port,
		list:    fetch.New[[]dsdto.SummaryOutput](timeout),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Reload triggers a fresh list fetch; the root model calls it whenever the
// dashboard becomes active.
func (m *Model) Reload() tea.Cmd {
	start := m.list.Start(func(ctx context.Context) ([]dsdto.SummaryOutput, error) {
		return m.port.List(ctx)
	})
	return tea.Batch(start, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case fetch.DoneMsg[[]dsdto.SummaryOutput]:
		if m.list.Apply(msg) && m.list.Kind() == apperrors.KindAuthExpired {
			return m, func() tea.Msg { return fetch.SessionExpiredMsg{} }
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if !m.list.Busy() {
				cmd := m.Reload()
				return m, cmd
			}
		case "esc":
			m.list.Dismiss()
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.list.Status() {
	case fetch.Idle, fetch.Loading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dashboard…")
	case fetch.Error:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.ErrorMsg.Render(m.list.ErrMsg())+"\n"+theme.Muted.Render("r retry · esc dismiss"))
	}

	datasets := m.list.Data()
	if len(datasets) == 0 {
		empty := theme.Title.Render("Welcome to your dashboard") + "\n\n" +
			theme.Muted.Render("No datasets uploaded yet. Upload a CSV file to get started!")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	latest := datasets[0]
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Dashboard — latest dataset") + "\n\n")
	sb.WriteString(m.statCards(latest) + "\n\n")
	sb.WriteString(theme.Label.Render("Equipment type distribution") + "\n")
	sb.WriteString(m.typeChart(latest.TypeDistribution) + "\n")
	sb.WriteString(theme.Label.Render("Average parameters") + "\n")
	sb.WriteString(m.averagesChart(latest) + "\n")
	sb.WriteString(theme.Muted.Render("Dataset: ") + latest.Filename + "   " +
		theme.Muted.Render("Uploaded: ") + latest.UploadDate.Local().Format("2006-01-02 15:04") + "\n")
	return sb.String()
}

func (m Model) statCards(d dsdto.SummaryOutput) string {
	card := func(label, value, unit string) string {
		body := theme.Muted.Render(label) + "\n" +
			theme.StatValue.Render(value)
		if unit != "" {
			body += " " + theme.StatUnit.Render(unit)
		}
		return theme.StatCard.Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Equipment", fmt.Sprintf("%d", d.TotalCount), ""),
		" ",
		card("Avg Flowrate", fmt.Sprintf("%.2f", d.AvgFlowrate), "m³/h"),
		" ",
		card("Avg Pressure", fmt.Sprintf("%.2f", d.AvgPressure), "bar"),
		" ",
		card("Avg Temperature", fmt.Sprintf("%.2f", d.AvgTemperature), "°C"),
	)
}

// typeChart draws one horizontal bar per equipment type, scaled to the
// largest count.
func (m Model) typeChart(dist map[string]int) string {
	if len(dist) == 0 {
		return theme.Muted.Render("  (no type data)") + "\n"
	}
	types := make([]string, 0, len(dist))
	maxCount := 0
	for t, n := range dist {
		types = append(types, t)
		if n > maxCount {
			maxCount = n
		}
	}
	sort.Strings(types)

	var sb strings.Builder
	for i, t := range types {
		color := theme.ChartColors[i%len(theme.ChartColors)]
		sb.WriteString(bar(t, float64(dist[t]), float64(maxCount), fmt.Sprintf("%d", dist[t]), color, m.chartWidth()))
	}
	return sb.String()
}

func (m Model) averagesChart(d dsdto.SummaryOutput) string {
	maxVal := d.AvgFlowrate
	if d.AvgPressure > maxVal {
		maxVal = d.AvgPressure
	}
	if d.AvgTemperature > maxVal {
		maxVal = d.AvgTemperature
	}
	var sb strings.Builder
	sb.WriteString(bar("Flowrate", d.AvgFlowrate, maxVal, fmt.Sprintf("%.2f", d.AvgFlowrate), theme.Sapphire, m.chartWidth()))
	sb.WriteString(bar("Pressure", d.AvgPressure, maxVal, fmt.Sprintf("%.2f", d.AvgPressure), theme.Red, m.chartWidth()))
	sb.WriteString(bar("Temperature", d.AvgTemperature, maxVal, fmt.Sprintf("%.2f", d.AvgTemperature), theme.Green, m.chartWidth()))
	return sb.String()
}

func (m Model) chartWidth() int {
	w := m.width - 40
	if w < 10 {
		w = 10
	}
	if w > 60 {
		w = 60
	}
	return w
}

func bar(label string, value, max float64, display string, color lipgloss.Color, width int) string {
	n := 0
	if max > 0 {
		n = int(value / max * float64(width))
	}
	if n < 1 && value > 0 {
		n = 1
	}
	blocks := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n))
	return fmt.Sprintf("  %-16s %s %s\n", label, blocks, theme.Muted.Render(display))
}
