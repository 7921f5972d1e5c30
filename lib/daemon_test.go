package copiclib

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// A daemon with every external collaborator stubbed out. renders counts
// pipeline runs, monitorCount controls what the layout query reports.
type daemonHarness struct {
	d            *Daemon
	clock        *fakeClock
	renders      int
	renderErr    error
	monitorCount int
	layoutErr    error
}

func newHarness(t *testing.T, rotation time.Duration) *daemonHarness {
	t.Helper()

	h := &daemonHarness{
		clock:        &fakeClock{t: time.Unix(1000000, 0)},
		monitorCount: 2,
	}

	h.d = &Daemon{
		conf: &Config{ImageFileExtensions: defaultExtensions},
		opts: DaemonOptions{
			Mode:             FitZoom,
			RotationInterval: rotation,
			PollInterval:     time.Second,
		},
		queue: &CommandQueue{},
		now:   h.clock.now,
	}
	h.d.queryLayout = func() (*DisplayLayout, error) {
		if h.layoutErr != nil {
			return nil, h.layoutErr
		}
		monitors := make([]Monitor, h.monitorCount)
		for i := range monitors {
			monitors[i] = Monitor{Width: 1920, Height: 1080, X: i * 1920}
		}
		return &DisplayLayout{
			Viewport: Viewport{Width: h.monitorCount * 1920, Height: 1080},
			Monitors: monitors,
		}, nil
	}
	h.d.selectPaths = func(n int) ([]AbsolutePath, error) {
		paths := make([]AbsolutePath, n)
		for i := range paths {
			paths[i] = "/fake/image.png"
		}
		return paths, nil
	}
	h.d.render = func(layout *DisplayLayout, paths []AbsolutePath) error {
		require.Len(t, paths, len(layout.Monitors))
		if h.renderErr != nil {
			return h.renderErr
		}
		h.renders++
		return nil
	}

	return h
}

// A fresh daemon composes on its very first poll
func TestDaemonComposesImmediately(t *testing.T) {
	h := newHarness(t, time.Hour)

	h.d.poll()
	assert.Equal(t, 1, h.renders)
	assert.Equal(t, h.clock.t, h.d.lastApplied)
}

// Starting Idle at T0 with interval I: no rotation before T0+I, exactly one
// at T0+I.
func TestDaemonRotationInterval(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.d.poll()
	require.Equal(t, 1, h.renders)

	h.clock.advance(59 * time.Minute)
	h.d.poll()
	assert.Equal(t, 1, h.renders)

	h.clock.advance(time.Minute)
	h.d.poll()
	assert.Equal(t, 2, h.renders)

	// Back to Idle, nothing more until the next expiry
	h.d.poll()
	assert.Equal(t, 2, h.renders)
}

// A monitor count change triggers recomposition ahead of the timer
func TestDaemonMonitorCountChange(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.d.poll()
	require.Equal(t, 1, h.renders)

	h.clock.advance(time.Minute)
	h.monitorCount = 3
	h.d.poll()
	assert.Equal(t, 2, h.renders)
	assert.Len(t, h.d.lastSeen.Monitors, 3)

	// Same count again, no retrigger
	h.clock.advance(time.Minute)
	h.d.poll()
	assert.Equal(t, 2, h.renders)
}

func TestDaemonPauseResume(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.d.poll()
	require.Equal(t, 1, h.renders)

	h.d.queue.Push("pause")
	h.clock.advance(2 * time.Hour)
	h.d.poll()
	assert.Equal(t, 1, h.renders)

	// pause masks the timer, not configuration changes
	h.monitorCount = 1
	h.d.poll()
	assert.Equal(t, 2, h.renders)

	h.d.queue.Push("resume")
	h.clock.advance(2 * time.Hour)
	h.d.poll()
	assert.Equal(t, 3, h.renders)
}

func TestDaemonNextCommand(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.d.poll()
	require.Equal(t, 1, h.renders)

	h.clock.advance(time.Minute)
	h.d.queue.Push("next")
	h.d.poll()
	assert.Equal(t, 2, h.renders)

	h.d.poll()
	assert.Equal(t, 2, h.renders)
}

// Commands queued together are all consumed, in order, on one poll
func TestDaemonDrainsQueueInOrder(t *testing.T) {
	h := newHarness(t, time.Hour)

	h.d.queue.Push("pause")
	h.d.queue.Push("what even is this")
	h.d.queue.Push("status")
	h.d.poll()

	assert.True(t, h.d.paused)
	_, ok := h.d.queue.TryPop()
	assert.False(t, ok)
}

// Pipeline failures are recoverable: state doesn't advance and the next poll
// retries
func TestDaemonRenderFailureRetries(t *testing.T) {
	h := newHarness(t, time.Hour)

	h.renderErr = errors.New("sink exploded")
	h.d.poll()
	assert.Equal(t, 0, h.renders)
	assert.True(t, h.d.lastApplied.IsZero())
	assert.Nil(t, h.d.lastSeen)

	h.renderErr = nil
	h.d.poll()
	assert.Equal(t, 1, h.renders)
	assert.Equal(t, h.clock.t, h.d.lastApplied)
}

func TestDaemonLayoutFailureSkipsCycle(t *testing.T) {
	h := newHarness(t, time.Hour)

	h.layoutErr = ErrLayoutUnavailable
	h.d.poll()
	assert.Equal(t, 0, h.renders)

	h.layoutErr = nil
	h.d.poll()
	assert.Equal(t, 1, h.renders)
}
