// Package authview renders the login/register forms shown while no session
// exists. Everything behind it is unreachable until SignedInMsg fires.
package authview

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "eqviz/internal/modules/auth/dto"
	"eqviz/internal/ui/fetch"
	"eqviz/internal/ui/theme"
)

type AuthPort interface {
	Login(ctx context.Context, input authdto.LoginInput) (authdto.SessionOutput, error)
	Register(ctx context.Context, input authdto.RegisterInput) (authdto.SessionOutput, error)
}

// SignedInMsg bubbles to the root model, which opens the gate.
type SignedInMsg struct {
	Username string
}

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	fieldCount
)

type Model struct {
	port        AuthPort
	inputs      [fieldCount]textinput.Model
	focus       int
	registering bool
	submit      fetch.Fetcher[authdto.SessionOutput]
	spinner     spinner.Model
	width       int
	height      int
}

func New(port AuthPort, timeout time.Duration) Model {
	var inputs [fieldCount]textinput.Model

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 150
	inputs[fieldUsername] = username

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 254
	inputs[fieldEmail] = email

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	inputs[fieldPassword] = password

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	inputs[fieldConfirm] = confirm

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	m := Model{
		port:    port,
		inputs:  inputs,
		submit:  fetch.New[authdto.SessionOutput](timeout),
		spinner: sp,
	}
	m.inputs[fieldUsername].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Cleared wipes all form state, keeping the port and window size. The root
// model uses it when a session ends.
func (m Model) Cleared() Model {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.registering = false
	m.focus = fieldUsername
	m.submit.Reset()
	m.inputs[fieldUsername].Focus()
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetch.DoneMsg[authdto.SessionOutput]:
		if !m.submit.Apply(msg) {
			return m, nil
		}
		if m.submit.Status() == fetch.Success {
			out := m.submit.Data()
			return m, func() tea.Msg { return SignedInMsg{Username: out.Username} }
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "ctrl+t":
			if !m.submit.Busy() {
				m.registering = !m.registering
				m.submit.Dismiss()
				m.clampFocus()
			}
			return m, nil
		case "esc":
			m.submit.Dismiss()
			return m, nil
		case "enter":
			// The form stays disabled for the whole round trip.
			if m.submit.Busy() {
				return m, nil
			}
			cmd := m.submitCmd()
			return m, tea.Batch(cmd, m.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) submitCmd() tea.Cmd {
	if m.registering {
		input := authdto.RegisterInput{
			Username:        m.inputs[fieldUsername].Value(),
			Email:           m.inputs[fieldEmail].Value(),
			Password:        m.inputs[fieldPassword].Value(),
			ConfirmPassword: m.inputs[fieldConfirm].Value(),
		}
		return m.submit.Start(func(ctx context.Context) (authdto.SessionOutput, error) {
			return m.port.Register(ctx, input)
		})
	}
	input := authdto.LoginInput{
		Username: m.inputs[fieldUsername].Value(),
		Password: m.inputs[fieldPassword].Value(),
	}
	return m.submit.Start(func(ctx context.Context) (authdto.SessionOutput, error) {
		return m.port.Login(ctx, input)
	})
}

func (m *Model) fields() []int {
	if m.registering {
		return []int{fieldUsername, fieldEmail, fieldPassword, fieldConfirm}
	}
	return []int{fieldUsername, fieldPassword}
}

func (m *Model) moveFocus(delta int) {
	fields := m.fields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	m.setFocus(fields[pos])
}

func (m *Model) clampFocus() {
	for _, f := range m.fields() {
		if f == m.focus {
			return
		}
	}
	m.setFocus(fieldUsername)
}

func (m *Model) setFocus(field int) {
	m.inputs[m.focus].Blur()
	m.focus = field
	m.inputs[m.focus].Focus()
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(theme.Title.Render("Chemical Equipment Visualizer") + "\n")
	sb.WriteString(theme.Muted.Render("analyze and visualize chemical equipment data") + "\n\n")

	loginTab := " Login "
	registerTab := " Register "
	if m.registering {
		registerTab = theme.Hot.Render(registerTab)
		loginTab = theme.Muted.Render(loginTab)
	} else {
		loginTab = theme.Hot.Render(loginTab)
		registerTab = theme.Muted.Render(registerTab)
	}
	sb.WriteString(loginTab + theme.Muted.Render("│") + registerTab + "\n\n")

	labels := [fieldCount]string{"Username", "Email", "Password", "Confirm"}
	for _, f := range m.fields() {
		sb.WriteString(theme.Label.Render(labels[f]) + "\n")
		sb.WriteString(m.inputs[f].View() + "\n")
	}

	if m.submit.Busy() {
		sb.WriteString("\n" + m.spinner.View() + " signing in…\n")
	}
	if m.submit.Status() == fetch.Error {
		sb.WriteString("\n" + theme.ErrorMsg.Render(m.submit.ErrMsg()) + "\n")
		sb.WriteString(theme.Muted.Render("esc to dismiss") + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("enter submit · tab next field · ctrl+t switch login/register · ctrl+c quit"))

	form := theme.Pane.Render(sb.String())
	if m.width == 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}
