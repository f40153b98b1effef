package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/vidflow/internal/app"
	"github.com/sevigo/vidflow/internal/core"
)

const asciiLogo = `
╔══════════════════════════════════════════════╗
║   VIDFLOW · TRANSCODE DISPATCH TERMINAL      ║
╚══════════════════════════════════════════════╝
`

const historyLimit = 8

// model is the single-threaded rendering loop of the interactive front. The
// background poller fills the registry; every tick re-snapshots it, so the
// list on screen is always a consistent copy. Launches triggered by the
// operator run as detached commands and report back via launchDoneMsg, which
// keeps the loop responsive while a backend call is in flight.
type model struct {
	styles styles
	app    *app.App

	stopPoller context.CancelFunc

	// Last registry snapshot, refreshed on every tick.
	jobs     []core.Job
	selected int

	launching int
	history   []string

	spinner   spinner.Model
	isLoading bool
	width     int
}

func initialModel(theme ThemeName) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Points

	return &model{
		styles:    GetTheme(theme),
		spinner:   sp,
		isLoading: true,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initializeAppCmd(), m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var spCmd tea.Cmd
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, spCmd)

	case appInitializedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.history = append(m.history, m.styles.error.Render("✗ "+msg.err.Error()))
			return m, nil
		}
		m.app = msg.app

		// The poller outlives individual ticks; it stops when the
		// operator quits.
		pollCtx, cancel := context.WithCancel(context.Background())
		m.stopPoller = cancel
		go m.app.Dispatcher.RunPoller(pollCtx)

		m.pushHistory(m.styles.success.Render("✓ dispatcher online, polling for uploads"))
		return m, tickCmd()

	case tickMsg:
		if m.app != nil {
			m.jobs, m.selected = m.app.Registry.Snapshot()
		}
		return m, tickCmd()

	case launchDoneMsg:
		m.launching--
		if msg.err != nil {
			m.pushHistory(m.styles.error.Render(fmt.Sprintf("✗ %s: %v", msg.job.Key, msg.err)))
		} else {
			m.pushHistory(m.styles.success.Render("✓ launched " + msg.job.Key))
		}
		return m, spCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, spCmd
}

func (m *model) handleKey(msg tea.KeyMsg, spCmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		if m.stopPoller != nil {
			m.stopPoller()
		}
		return m, tea.Quit

	case "up", "k":
		if m.app != nil {
			m.app.Registry.SelectPrev()
		}

	case "down", "j":
		if m.app != nil {
			m.app.Registry.SelectNext()
		}

	case "enter", " ":
		if m.app == nil {
			return m, spCmd
		}
		// Selecting on an empty registry is a no-op.
		job, ok := m.app.Registry.RemoveSelected()
		if !ok {
			return m, spCmd
		}
		m.launching++
		m.pushHistory(m.styles.command.Render("→ launching " + job.Key))
		return m, tea.Batch(spCmd, launchCmd(m.app, job))
	}
	return m, spCmd
}

func (m *model) View() string {
	if m.app == nil {
		if m.isLoading {
			return fmt.Sprintf("\n  %s connecting to queue and backend...\n\n", m.spinner.View())
		}
		return m.styles.app.Render(strings.Join(m.history, "\n") + "\n\npress q to quit")
	}

	var b strings.Builder
	b.WriteString(m.styles.ascii.Render(asciiLogo))
	b.WriteString("\n")

	if len(m.jobs) == 0 {
		b.WriteString(m.styles.inactive.Render("  no pending jobs — waiting for upload notifications"))
		b.WriteString("\n")
	} else {
		for i, job := range m.jobs {
			line := fmt.Sprintf("  s3://%s/%s", job.Bucket, job.Key)
			if i == m.selected {
				b.WriteString(m.styles.selected.Render("► " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteString("\n")
	}

	statusParts := []string{
		fmt.Sprintf("PENDING: %d", len(m.jobs)),
		fmt.Sprintf("IN FLIGHT: %d", m.launching),
		"BACKEND: " + m.app.Cfg.Launcher.Backend,
	}
	if m.launching > 0 {
		statusParts = append(statusParts, m.spinner.View())
	}
	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	footer := m.styles.footer.Render("↑/↓ select · enter launch · q quit")

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left, b.String(), status, footer),
	)
}

func (m *model) pushHistory(line string) {
	m.history = append(m.history, line)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}
