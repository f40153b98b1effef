package main

import (
	"github.com/sevigo/vidflow/internal/app"
	"github.com/sevigo/vidflow/internal/core"
)

// Indicates that the core application services have been initialized.
type appInitializedMsg struct {
	app *app.App
	err error
}

// Drives the render loop: every tick re-snapshots the registry.
type tickMsg struct{}

// Reports the outcome of a detached launch-and-ack operation.
type launchDoneMsg struct {
	job core.Job
	err error
}
