package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatmodel "github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
)

var (
	cyberGreen = lipgloss.Color("#00FF41")
	cyberGray  = lipgloss.Color("#6B7280")

	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(cyberGreen).Padding(0, 1)
	frameStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cyberGreen)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(cyberGreen).Padding(0, 1)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(cyberGreen).PaddingLeft(1)
	speakerStyle   = lipgloss.NewStyle().Bold(true).Foreground(cyberGreen)
	clockStyle     = lipgloss.NewStyle().Foreground(cyberGray)
	launcherStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(cyberGreen).Padding(0, 2)
)

const placeholder = "Ask the white rabbit..."

// widgetSession is the part of *chat.Session the TUI drives.
type widgetSession interface {
	Open()
	Close()
	SetInput(text string)
	Submit(ctx context.Context, text string) (chatmodel.Message, error)
	Snapshot() chatmodel.Snapshot
	Subscribe() (<-chan chatmodel.Snapshot, func())
}

type snapshotMsg chatmodel.Snapshot

type subscriptionClosedMsg struct{}

type submitDoneMsg struct {
	text string
	err  error
}

type model struct {
	session  widgetSession
	name     string
	updates  <-chan chatmodel.Snapshot
	cancel   func()
	snapshot chatmodel.Snapshot

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

func newModel(session widgetSession, name string) model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = speakerStyle

	updates, cancel := session.Subscribe()
	m := model{
		session:  session,
		name:     name,
		updates:  updates,
		cancel:   cancel,
		snapshot: session.Snapshot(),
		input:    ti,
		viewport: viewport.New(60, 16),
		spinner:  sp,
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForSnapshot(m.updates))
}

func waitForSnapshot(updates <-chan chatmodel.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func submit(session widgetSession, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := session.Submit(context.Background(), text)
		return submitDoneMsg{text: text, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.cancel()
			return m, tea.Quit
		case tea.KeyCtrlT:
			if m.snapshot.Visible {
				m.session.Close()
			} else {
				m.session.Open()
			}
			return m, nil
		case tea.KeyEnter:
			if !m.snapshot.Visible {
				return m, nil
			}
			text := m.input.Value()
			if strings.TrimSpace(text) == "" || m.snapshot.Pending {
				return m, nil
			}
			m.input.Reset()
			return m, submit(m.session, text)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-7, 4)
		m.input.Width = m.viewport.Width - 4
		m.refresh()

	case snapshotMsg:
		m.snapshot = chatmodel.Snapshot(msg)
		m.refresh()
		return m, waitForSnapshot(m.updates)

	case subscriptionClosedMsg:
		return m, tea.Quit

	case submitDoneMsg:
		// a rejected line goes back into the empty input box
		if msg.err != nil && m.input.Value() == "" {
			m.input.SetValue(msg.text)
			m.input.CursorEnd()
			m.session.SetInput(msg.text)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.snapshot.Pending {
			m.refresh()
		}
		return m, cmd
	}

	if m.snapshot.Visible {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.session.SetInput(m.input.Value())

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// refresh re-renders the transcript and keeps the latest message in view.
func (m *model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m model) renderTranscript() string {
	width := max(m.viewport.Width-2, 10)
	bubble := width * 85 / 100

	var b strings.Builder
	for _, msg := range m.snapshot.Messages {
		b.WriteString(m.renderMessage(msg, bubble, width))
		b.WriteString("\n\n")
	}
	if m.snapshot.Pending {
		b.WriteString(assistantStyle.Render(speakerStyle.Render(strings.ToUpper("Thinking")) + " " + m.spinner.View()))
	}
	return b.String()
}

func (m model) renderMessage(msg chatmodel.Message, bubble, width int) string {
	clock := clockStyle.Render(msg.Clock())
	if msg.Role == chatmodel.RoleUser {
		body := userStyle.Width(min(lipgloss.Width(msg.Text)+2, bubble)).Render(msg.Text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, lipgloss.JoinVertical(lipgloss.Right, body, clock))
	}
	header := speakerStyle.Render(strings.ToUpper(m.name))
	body := lipgloss.NewStyle().Width(bubble).Render(msg.Text)
	return assistantStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, clock))
}

func (m model) View() string {
	if !m.snapshot.Visible {
		return lipgloss.PlaceHorizontal(max(m.width, 20), lipgloss.Right, launcherStyle.Render("[ "+m.name+" ]  ctrl+t"))
	}
	header := headerStyle.Render(m.name) + clockStyle.Render("ctrl+t close · ctrl+c quit")
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), m.input.View()))
}

var _ widgetSession = (*chat.Session)(nil)
