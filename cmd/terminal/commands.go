package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/vidflow/internal/app"
	"github.com/sevigo/vidflow/internal/core"
	"github.com/sevigo/vidflow/internal/wire"
)

// The render cadence is independent of the poller's long-poll interval.
const tickInterval = 100 * time.Millisecond

func initializeAppCmd() tea.Cmd {
	return func() tea.Msg {
		application, cleanup, err := wire.InitializeApp(context.Background())
		if err != nil {
			return appInitializedMsg{err: err}
		}
		_ = cleanup // nothing to release before process exit
		return appInitializedMsg{app: application}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// launchCmd runs launch-and-ack as its own detached command, so the render
// loop never blocks on the backend call. Once in flight it is not
// cancellable; quitting the terminal lets it run to completion or failure.
func launchCmd(a *app.App, job core.Job) tea.Cmd {
	return func() tea.Msg {
		err := a.Dispatcher.LaunchAndAck(context.Background(), job)
		return launchDoneMsg{job: job, err: err}
	}
}
