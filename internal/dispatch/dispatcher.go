// Package dispatch drives the poll → decode → enqueue → launch → ack cycle.
// It supports two operating modes built from the same primitives: an
// automatic loop that launches every decoded job immediately, and an
// interactive split where a background poller only enqueues jobs and the
// operator terminal triggers each launch.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/sevigo/vidflow/internal/core"
	"github.com/sevigo/vidflow/internal/registry"
)

// Dispatcher coordinates the message source, the job registry and the launch
// backend. Repeated notifications for the same key are not deduplicated;
// each one becomes its own job and its own backend task.
type Dispatcher struct {
	source   core.MessageSource
	launcher core.Launcher
	registry *registry.Registry
	baseEnv  []core.EnvVar

	maxMessages int32
	pollWait    time.Duration

	logger *slog.Logger
}

// NewDispatcher wires a dispatcher. baseEnv is appended to every launch
// request before the per-job source key; maxMessages and pollWait bound each
// queue poll.
func NewDispatcher(
	source core.MessageSource,
	launcher core.Launcher,
	reg *registry.Registry,
	baseEnv []core.EnvVar,
	maxMessages int32,
	pollWait time.Duration,
	logger *slog.Logger,
) *Dispatcher {
	if maxMessages <= 0 {
		maxMessages = 1
	}
	return &Dispatcher{
		source:      source,
		launcher:    launcher,
		registry:    reg,
		baseEnv:     baseEnv,
		maxMessages: maxMessages,
		pollWait:    pollWait,
		logger:      logger,
	}
}

// Registry exposes the shared pending-job registry this dispatcher feeds.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Run executes the automatic mode until the context is canceled: every
// decoded job is pushed and launched in the same cycle, and a message is
// acked only once every job it produced has launched. Per-message failures
// never abort the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("listening for upload notifications")

	for {
		messages, err := d.source.Poll(ctx, d.maxMessages, d.pollWait)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.logger.Error("queue poll failed, retrying next cycle", "error", err)
			continue
		}

		for _, msg := range messages {
			d.processMessage(ctx, msg)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// processMessage decodes one message and launches every job it carries. The
// originating message is acked only when all of its jobs launched; a decode
// failure or any launch failure leaves it un-acked, so the visibility window
// will hand it back later.
func (d *Dispatcher) processMessage(ctx context.Context, msg core.RawMessage) {
	jobs, err := core.JobsFromStorageEvent([]byte(msg.Body), msg.ReceiptHandle)
	if err != nil {
		d.logger.Error("failed to decode upload notification", "error", err, "body", msg.Body)
		return
	}

	launched := 0
	for _, job := range jobs {
		d.logger.Info("new upload notification", "bucket", job.Bucket, "key", job.Key)

		job.Status = core.JobLaunching
		d.registry.Push(*job)

		result, err := d.launcher.Submit(ctx, &core.LaunchRequest{Job: job, Env: d.envFor(job)})

		// The job leaves the registry either way: launched jobs are done
		// here, failed jobs are not retried.
		d.registry.RemoveSelected()

		if err != nil {
			job.Status = core.JobFailed
			d.logger.Error("job launch failed", "bucket", job.Bucket, "key", job.Key, "error", err)
			continue
		}
		job.Status = core.JobLaunched
		launched++
		d.logger.Info("job launched", "key", job.Key, "task", result.TaskID)
	}

	if launched == len(jobs) {
		if err := d.source.Ack(ctx, msg.ReceiptHandle); err != nil {
			d.logger.Error("failed to ack queue message", "error", err)
			return
		}
		d.logger.Info("queue message acknowledged", "jobs", len(jobs))
	}
}

// RunPoller executes the interactive mode's background half until the
// context is canceled: poll, decode, push — never launch. Decode failures
// are logged and the message left un-acked.
func (d *Dispatcher) RunPoller(ctx context.Context) {
	d.logger.Info("background poller started")

	for ctx.Err() == nil {
		messages, err := d.source.Poll(ctx, d.maxMessages, d.pollWait)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			d.logger.Error("queue poll failed, retrying next cycle", "error", err)
			continue
		}

		for _, msg := range messages {
			jobs, err := core.JobsFromStorageEvent([]byte(msg.Body), msg.ReceiptHandle)
			if err != nil {
				d.logger.Error("failed to decode upload notification", "error", err, "body", msg.Body)
				continue
			}
			for _, job := range jobs {
				d.registry.Push(*job)
				d.logger.Info("job queued", "bucket", job.Bucket, "key", job.Key)
			}
		}
	}

	d.logger.Info("background poller stopped")
}

// LaunchAndAck submits one already-dequeued job and, on success, acks the
// message it came from against the job's own receipt handle. Callers run it
// off the rendering loop; once Submit is in flight it is not cancellable.
func (d *Dispatcher) LaunchAndAck(ctx context.Context, job core.Job) error {
	job.Status = core.JobLaunching

	result, err := d.launcher.Submit(ctx, &core.LaunchRequest{Job: &job, Env: d.envFor(&job)})
	if err != nil {
		d.logger.Error("job launch failed", "bucket", job.Bucket, "key", job.Key, "error", err)
		return err
	}
	d.logger.Info("job launched", "key", job.Key, "task", result.TaskID)

	if err := d.source.Ack(ctx, job.ReceiptHandle); err != nil {
		d.logger.Error("failed to ack queue message after launch", "key", job.Key, "error", err)
		return err
	}
	return nil
}

func (d *Dispatcher) envFor(job *core.Job) []core.EnvVar {
	env := make([]core.EnvVar, 0, len(d.baseEnv)+1)
	env = append(env, d.baseEnv...)
	env = append(env, core.EnvVar{Name: core.SourceKeyVar, Value: job.Key})
	return env
}
