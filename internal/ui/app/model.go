package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	authdto "eqviz/internal/modules/auth/dto"
	dsdto "eqviz/internal/modules/dataset/dto"
	"eqviz/internal/ui/components"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/theme"
	"eqviz/internal/ui/views/authview"
	"eqviz/internal/ui/views/dashboard"
	"eqviz/internal/ui/views/detail"
	"eqviz/internal/ui/views/history"
	"eqviz/internal/ui/views/upload"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type authPort interface {
	Restore(ctx context.Context) (authdto.SessionOutput, error)
	Login(ctx context.Context, in authdto.LoginInput) (authdto.SessionOutput, error)
	Register(ctx context.Context, in authdto.RegisterInput) (authdto.SessionOutput, error)
	Logout(ctx context.Context) error
	Expire(ctx context.Context) error
	Current() (authdto.SessionOutput, bool)
}

type datasetPort interface {
	ValidateCSVName(filename string) error
	List(ctx context.Context) ([]dsdto.SummaryOutput, error)
	Get(ctx context.Context, id int) (dsdto.DetailOutput, error)
	Upload(ctx context.Context, in dsdto.UploadInput) (dsdto.UploadOutput, error)
	Delete(ctx context.Context, id int) error
	SaveReport(ctx context.Context, id int) (dsdto.ReportOutput, error)
}

// ─── view index ──────────────────────────────────────────────────────────────

type viewID int

const (
	viewDashboard viewID = iota
	viewUpload
	viewHistory
	viewCount
	// detail is reached from history, never from the tab bar
	viewDetail
)

var viewLabels = [viewCount]string{
	"Dashboard", "Upload", "History",
}

// uploadNavDelay is how long the upload success message stays on screen
// before the app switches to the history view.
const uploadNavDelay = 1500 * time.Millisecond

// ─── async messages ───────────────────────────────────────────────────────────

type restoreDoneMsg struct {
	session authdto.SessionOutput
	err     error
}

type loggedOutMsg struct{}

// navTickMsg carries the tag of the deferred navigation that scheduled it;
// a stale tag means the user navigated manually in the meantime.
type navTickMsg struct {
	tag uuid.UUID
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Logout  key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Delete  key.Binding
	Report  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete dataset")),
		Report:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh / report")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Delete},
		{k.Report, k.Logout},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the auth gate, view routing,
// the deferred post-upload navigation, the help overlay, and the command
// palette. All business logic is delegated to port interfaces; all rendering
// is delegated to sub-views.
type Model struct {
	auth    authPort
	dataset datasetPort

	// sub-views
	authView  authview.Model
	dashView  dashboard.Model
	upView    upload.Model
	histView  history.Model
	detView   detail.Model

	// global UI state
	signedIn   bool
	restoring  bool
	username   string
	activeView viewID
	selected   int
	hasSelect  bool
	pendingNav uuid.UUID
	keys       keyMap
	help       help.Model
	showHelp   bool
	palette    components.Palette
	status     string
	width      int
	height     int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(auth authPort, dataset datasetPort, timeout time.Duration) Model {
	return Model{
		auth:       auth,
		dataset:    dataset,
		authView:   authview.New(authPortBridge{p: auth}, timeout),
		dashView:   dashboard.New(datasetPortBridge{p: dataset}, timeout),
		upView:     upload.New(datasetPortBridge{p: dataset}, timeout),
		histView:   history.New(datasetPortBridge{p: dataset}, timeout),
		detView:    detail.New(datasetPortBridge{p: dataset}, timeout),
		restoring:  true,
		activeView: viewDashboard,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "checking stored session…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.authView.Init(), m.restoreCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case restoreDoneMsg:
		m.restoring = false
		if msg.err != nil {
			m.status = "please sign in"
			return m, nil
		}
		return m.acceptSession(msg.session)

	case authview.SignedInMsg:
		session, ok := m.auth.Current()
		if !ok {
			session = authdto.SessionOutput{Username: msg.Username}
		}
		return m.acceptSession(session)

	case fetch.SessionExpiredMsg:
		return m.resetToAuth("session expired, please log in again")

	case loggedOutMsg:
		return m.resetToAuth("signed out")

	case upload.UploadedMsg:
		m.pendingNav = uuid.New()
		tag := m.pendingNav
		m.status = "uploaded " + msg.Filename
		return m, tea.Tick(uploadNavDelay, func(time.Time) tea.Msg {
			return navTickMsg{tag: tag}
		})

	case navTickMsg:
		// manual navigation since the upload invalidates the tick
		if msg.tag != m.pendingNav || m.pendingNav == uuid.Nil {
			return m, nil
		}
		m.pendingNav = uuid.Nil
		m.upView.Reset()
		cmd := m.goTo(viewHistory)
		return m, cmd

	case history.SelectedMsg:
		cmd := m.selectDataset(msg.ID)
		return m, cmd

	case detail.BackMsg:
		cmd := m.backToHistory()
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.signedIn {
			break
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		// Yield plain keys to the upload view so the path field can be typed
		// into freely.
		if m.activeView == viewUpload && len(msg.String()) == 1 && msg.String() != ":" {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			cmd := m.goTo(m.tabView((m.currentTab() + 1) % viewCount))
			return m, cmd
		case "shift+tab":
			cmd := m.goTo(m.tabView((m.currentTab() + viewCount - 1) % viewCount))
			return m, cmd
		case "1":
			cmd := m.goTo(viewDashboard)
			return m, cmd
		case "2":
			cmd := m.goTo(viewUpload)
			return m, cmd
		case "3":
			cmd := m.goTo(viewHistory)
			return m, cmd
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			cmd := m.palette.Open()
			return m, cmd
		case "ctrl+l":
			return m, m.logoutCmd()
		}
	}

	// Propagate the message to the active view.
	if !m.signedIn {
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		return m, append1(cmds, cmd)
	}

	var cmd tea.Cmd
	switch m.activeView {
	case viewDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case viewUpload:
		m.upView, cmd = m.upView.Update(msg)
	case viewHistory:
		m.histView, cmd = m.histView.Update(msg)
	case viewDetail:
		m.detView, cmd = m.detView.Update(msg)
	}
	return m, append1(cmds, cmd)
}

// ─── navigation ──────────────────────────────────────────────────────────────

// goTo performs a manual navigation, which always cancels any pending
// deferred navigation.
func (m *Model) goTo(v viewID) tea.Cmd {
	m.pendingNav = uuid.Nil
	if v == viewDetail && !m.hasSelect {
		m.status = "no dataset selected"
		return nil
	}
	m.activeView = v
	switch v {
	case viewDashboard:
		m.status = "ready"
		return m.dashView.Reload()
	case viewHistory:
		m.status = "ready"
		return m.histView.Reload()
	case viewUpload:
		m.status = "ready"
	}
	return nil
}

// selectDataset records the selection and enters the detail view in one
// step so the two can never disagree.
func (m *Model) selectDataset(id int) tea.Cmd {
	m.pendingNav = uuid.Nil
	m.selected = id
	m.hasSelect = true
	m.activeView = viewDetail
	return m.detView.Load(id)
}

func (m *Model) backToHistory() tea.Cmd {
	m.selected = 0
	m.hasSelect = false
	return m.goTo(viewHistory)
}

// currentTab maps the active view onto the tab bar; detail highlights the
// history tab it was opened from.
func (m Model) currentTab() viewID {
	if m.activeView == viewDetail {
		return viewHistory
	}
	return m.activeView
}

func (m Model) tabView(tab viewID) viewID { return tab }

// ─── session transitions ─────────────────────────────────────────────────────

func (m Model) acceptSession(session authdto.SessionOutput) (tea.Model, tea.Cmd) {
	m.signedIn = true
	m.username = session.Username
	m.activeView = viewDashboard
	m.status = "signed in as " + session.Username
	cmd := tea.Batch(m.dashView.Reload(), m.upView.Init())
	return m, cmd
}

func (m Model) resetToAuth(status string) (tea.Model, tea.Cmd) {
	m.signedIn = false
	m.username = ""
	m.selected = 0
	m.hasSelect = false
	m.pendingNav = uuid.Nil
	m.activeView = viewDashboard
	m.upView.Reset()
	m.authView = m.authView.Cleared()
	m.status = status
	return m, m.authView.Init()
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.signedIn {
		if m.restoring {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
				theme.Muted.Render("checking stored session…"))
		}
		return m.authView.View()
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeViewContent()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeViewContent() string {
	switch m.activeView {
	case viewDashboard:
		return m.dashView.View()
	case viewUpload:
		return m.upView.View()
	case viewHistory:
		return m.histView.View()
	case viewDetail:
		return m.detView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, viewCount)
	for i := viewID(0); i < viewCount; i++ {
		label := viewLabels[i]
		if i == m.currentTab() {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "eqviz  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.username != "" {
		left = theme.Hot.Render("● "+m.username) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  ctrl+l:logout  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "go:dashboard":
		cmd := m.goTo(viewDashboard)
		return m, cmd
	case "go:upload":
		cmd := m.goTo(viewUpload)
		return m, cmd
	case "go:history":
		cmd := m.goTo(viewHistory)
		return m, cmd
	case "go:detail":
		if len(parts) < 2 {
			m.status = "usage: go:detail <id>"
			return m, nil
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid dataset id"
			return m, nil
		}
		cmd := m.selectDataset(id)
		return m, cmd
	case "refresh":
		cmd := m.goTo(m.currentTab())
		return m, cmd
	case "logout":
		return m, m.logoutCmd()
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	full := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.authView, _ = m.authView.Update(full)
	m.dashView, _ = m.dashView.Update(sub)
	m.upView, _ = m.upView.Update(sub)
	m.histView, _ = m.histView.Update(sub)
	m.detView, _ = m.detView.Update(sub)
}

func append1(cmds []tea.Cmd, cmd tea.Cmd) tea.Cmd {
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) restoreCmd() tea.Cmd {
	return func() tea.Msg {
		session, err := m.auth.Restore(context.Background())
		return restoreDoneMsg{session: session, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.auth.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed
// by a specific sub-view.

type authPortBridge struct{ p authPort }

func (b authPortBridge) Login(ctx context.Context, in authdto.LoginInput) (authdto.SessionOutput, error) {
	return b.p.Login(ctx, in)
}
func (b authPortBridge) Register(ctx context.Context, in authdto.RegisterInput) (authdto.SessionOutput, error) {
	return b.p.Register(ctx, in)
}

type datasetPortBridge struct{ p datasetPort }

func (b datasetPortBridge) ValidateCSVName(filename string) error {
	return b.p.ValidateCSVName(filename)
}
func (b datasetPortBridge) List(ctx context.Context) ([]dsdto.SummaryOutput, error) {
	return b.p.List(ctx)
}
func (b datasetPortBridge) Get(ctx context.Context, id int) (dsdto.DetailOutput, error) {
	return b.p.Get(ctx, id)
}
func (b datasetPortBridge) Upload(ctx context.Context, in dsdto.UploadInput) (dsdto.UploadOutput, error) {
	return b.p.Upload(ctx, in)
}
func (b datasetPortBridge) Delete(ctx context.Context, id int) error {
	return b.p.Delete(ctx, id)
}
func (b datasetPortBridge) SaveReport(ctx context.Context, id int) (dsdto.ReportOutput, error) {
	return b.p.SaveReport(ctx, id)
}
