// Package core defines the essential interfaces and data structures that form
// the backbone of the dispatcher. These components are deliberately abstract
// so that the queue and the compute backends can be swapped without touching
// the dispatch logic.
package core

import (
	"context"
	"time"
)

// JobStatus tracks a job from arrival through launch.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobLaunching JobStatus = "launching"
	JobLaunched  JobStatus = "launched"
	JobFailed    JobStatus = "failed"
)

// Job is one dispatch unit derived from a single notification record. A Job
// is immutable except for Status, which only the dispatcher transitions.
type Job struct {
	ID     string
	Bucket string

	// Key is carried verbatim from the notification; it is not
	// percent-decoded, so the worker receives exactly what the object
	// store reported.
	Key string

	// ReceiptHandle is borrowed from the originating queue message and is
	// required to acknowledge it after a successful launch.
	ReceiptHandle string

	Status     JobStatus
	ReceivedAt time.Time
}

// RawMessage is a unit of delivery from the message queue: an opaque payload
// plus the handle needed to acknowledge this specific message instance.
type RawMessage struct {
	Body          string
	ReceiptHandle string
}

// MessageSource abstracts receiving and acknowledging queue messages.
type MessageSource interface {
	// Poll blocks for up to wait (long-poll) and returns between zero and
	// maxMessages messages. Errors are transient: callers log and retry on
	// the next cycle.
	Poll(ctx context.Context, maxMessages int32, wait time.Duration) ([]RawMessage, error)

	// Ack removes the message identified by receiptHandle from the queue.
	// Acking an already-removed or unknown handle is a no-op, which keeps
	// duplicate delivery harmless.
	Ack(ctx context.Context, receiptHandle string) error
}

// SourceKeyVar names the environment entry every worker reads to find its
// input object. It is part of the launch environment contract.
const SourceKeyVar = "SOURCE_KEY"

// EnvVar is one environment entry passed to a launched task.
type EnvVar struct {
	Name  string
	Value string
}

// LaunchRequest carries a job and the environment entries its task needs,
// at minimum the source key and, for backends without an ambient identity,
// credential material.
type LaunchRequest struct {
	Job *Job
	Env []EnvVar
}

// LaunchResult is the backend-assigned handle of a successfully started task.
type LaunchResult struct {
	TaskID string
}

// Launcher submits jobs to a compute backend. Each call attempts exactly one
// launch: there is no internal retry and no deduplication, so submitting the
// same job twice starts two independent tasks.
type Launcher interface {
	Submit(ctx context.Context, req *LaunchRequest) (*LaunchResult, error)
}
