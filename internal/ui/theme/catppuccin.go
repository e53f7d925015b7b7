package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")
	Teal     = lipgloss.Color("#94e2d5")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Label = lipgloss.NewStyle().Foreground(Lavender).Bold(true)

	// Inline dismissable message styles shared by every view.
	ErrorMsg = lipgloss.NewStyle().
			Foreground(Red).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(Red).
			PaddingLeft(1)

	SuccessMsg = lipgloss.NewStyle().
			Foreground(Green).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(Green).
			PaddingLeft(1)

	// StatCard frames one dashboard statistic.
	StatCard = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Background(Mantle).
			Padding(0, 2).
			Align(lipgloss.Center)

	StatValue = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	StatUnit  = lipgloss.NewStyle().Foreground(Subtext0)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)
)

// ChartColors is the rotation used for type-distribution bars.
var ChartColors = []lipgloss.Color{Sapphire, Peach, Green, Lavender, Red, Yellow, Teal}
