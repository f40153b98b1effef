package registry

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/vidflow/internal/core"
)

func job(id string) core.Job {
	return core.Job{ID: id, Bucket: "b", Key: id + ".mp4", Status: core.JobPending}
}

func TestRemoveSelectedOnEmptyRegistry(t *testing.T) {
	r := New()

	got, ok := r.RemoveSelected()
	assert.False(t, ok)
	assert.Empty(t, got.ID)
	assert.Equal(t, 0, r.Len())
}

func TestPushResetsSelectionWhenEmpty(t *testing.T) {
	r := New()
	r.Push(job("a"))

	jobs, selected := r.Snapshot()
	require.Len(t, jobs, 1)
	assert.Equal(t, 0, selected)

	// Selection survives further pushes.
	r.Push(job("b"))
	r.SelectNext()
	_, selected = r.Snapshot()
	assert.Equal(t, 1, selected)

	r.Push(job("c"))
	_, selected = r.Snapshot()
	assert.Equal(t, 1, selected)
}

func TestSelectionClampsAtBounds(t *testing.T) {
	r := New()

	// Cursor moves on an empty registry are no-ops.
	r.SelectNext()
	r.SelectPrev()
	assert.Equal(t, 0, r.Len())

	r.Push(job("a"))
	r.Push(job("b"))
	r.Push(job("c"))

	r.SelectPrev()
	_, selected := r.Snapshot()
	assert.Equal(t, 0, selected)

	for range 10 {
		r.SelectNext()
	}
	_, selected = r.Snapshot()
	assert.Equal(t, 2, selected)
}

func TestRemoveSelectedReclampsCursor(t *testing.T) {
	r := New()
	r.Push(job("a"))
	r.Push(job("b"))
	r.Push(job("c"))

	// Remove the last entry while it is selected.
	r.SelectNext()
	r.SelectNext()
	removed, ok := r.RemoveSelected()
	require.True(t, ok)
	assert.Equal(t, "c", removed.ID)

	jobs, selected := r.Snapshot()
	require.Len(t, jobs, 2)
	assert.Equal(t, 1, selected)

	// Remove from the middle; cursor stays on a valid entry.
	removed, ok = r.RemoveSelected()
	require.True(t, ok)
	assert.Equal(t, "b", removed.ID)

	jobs, selected = r.Snapshot()
	require.Len(t, jobs, 1)
	assert.Equal(t, 0, selected)
}

// The selection index must stay within [0, len-1] after any operation
// sequence, or the registry must be empty.
func TestSelectionInvariantUnderRandomOps(t *testing.T) {
	r := New()
	rng := rand.New(rand.NewSource(1))

	for i := range 5000 {
		switch rng.Intn(4) {
		case 0:
			r.Push(job(fmt.Sprintf("j%d", i)))
		case 1:
			r.SelectNext()
		case 2:
			r.SelectPrev()
		case 3:
			r.RemoveSelected()
		}

		jobs, selected := r.Snapshot()
		if len(jobs) == 0 {
			continue
		}
		require.GreaterOrEqual(t, selected, 0, "op %d", i)
		require.Less(t, selected, len(jobs), "op %d", i)
	}
}

// Concurrent pushes and removals must neither lose a pushed job nor hand the
// same job to the consumer twice.
func TestConcurrentPushAndRemove(t *testing.T) {
	const total = 1000

	r := New()
	removed := make(map[string]int, total)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := range total {
			r.Push(job(fmt.Sprintf("j%d", i)))
		}
	}()

	go func() {
		defer wg.Done()
		seen := 0
		for seen < total {
			if j, ok := r.RemoveSelected(); ok {
				removed[j.ID]++
				seen++
			}
		}
	}()

	wg.Wait()

	assert.Equal(t, 0, r.Len())
	require.Len(t, removed, total)
	for id, count := range removed {
		assert.Equal(t, 1, count, "job %s removed more than once", id)
	}
}
