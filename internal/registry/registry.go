// Package registry holds the shared collection of pending jobs. Exactly one
// producer (the background poller) and one consumer (the dispatcher or the
// operator terminal) mutate it concurrently, so every compound operation runs
// inside a single critical section. The lock is never held across a launch
// or any other blocking call.
package registry

import (
	"sync"

	"github.com/sevigo/vidflow/internal/core"
)

// Registry is an ordered sequence of jobs in arrival order plus a selection
// cursor. The cursor is always clamped into [0, len-1] after any mutation
// and is meaningless while the registry is empty.
type Registry struct {
	mu       sync.Mutex
	jobs     []core.Job
	selected int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Push appends a job at the end. If the registry was empty, the cursor moves
// to the new first element.
func (r *Registry) Push(job core.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs = append(r.jobs, job)
	if len(r.jobs) == 1 {
		r.selected = 0
	}
}

// SelectNext moves the cursor one entry down, clamped to the last entry.
// No-op on an empty registry.
func (r *Registry) SelectNext() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selected < len(r.jobs)-1 {
		r.selected++
	}
}

// SelectPrev moves the cursor one entry up, clamped to the first entry.
// No-op on an empty registry.
func (r *Registry) SelectPrev() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.jobs) > 0 && r.selected > 0 {
		r.selected--
	}
}

// RemoveSelected atomically reads the currently selected job, removes it and
// re-clamps the cursor. The second return value is false on an empty
// registry.
func (r *Registry) RemoveSelected() (core.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.jobs) == 0 {
		return core.Job{}, false
	}

	job := r.jobs[r.selected]
	r.jobs = append(r.jobs[:r.selected], r.jobs[r.selected+1:]...)
	if r.selected >= len(r.jobs) {
		r.selected = len(r.jobs) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
	return job, true
}

// Snapshot returns a consistent point-in-time copy of the job list and the
// cursor position, taken under the same lock mutations use. The returned
// slice is the caller's to keep.
func (r *Registry) Snapshot() ([]core.Job, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs := make([]core.Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs, r.selected
}

// Len reports the number of pending jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
