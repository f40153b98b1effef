package core

import "fmt"

// DecodeError reports a notification payload that could not be turned into
// jobs. The message stays un-acked and becomes redeliverable once its
// visibility window lapses.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding notification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decoding notification: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LaunchError reports a submission the compute backend rejected. The job is
// dropped without retry; redelivery of the un-acked message is the only
// retry mechanism.
type LaunchError struct {
	Backend string
	Reason  string
	Err     error
}

func (e *LaunchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s launch failed: %s: %v", e.Backend, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s launch failed: %s", e.Backend, e.Reason)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// AckError reports a failed queue acknowledgement. There is no compensating
// action; the message may be delivered again.
type AckError struct {
	Err error
}

func (e *AckError) Error() string {
	return fmt.Sprintf("acknowledging queue message: %v", e.Err)
}

func (e *AckError) Unwrap() error { return e.Err }
