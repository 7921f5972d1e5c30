package copiclib

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueueOrder(t *testing.T) {
	q := &CommandQueue{}

	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push("a")
	q.Push("b")
	q.Push("c")

	for _, want := range []Command{"a", "b", "c"} {
		got, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok = q.TryPop()
	assert.False(t, ok)
}

func startListener(t *testing.T) (*Listener, string) {
	t.Helper()

	l := &Listener{Addr: "127.0.0.1:0", Queue: &CommandQueue{}}
	require.NoError(t, l.Listen())

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Run(stop)
	}()
	t.Cleanup(func() {
		close(stop)
		<-done
	})

	return l, l.ListenAddr().String()
}

func send(t *testing.T, addr, payload string) {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	if payload != "" {
		_, err = conn.Write([]byte(payload))
		require.NoError(t, err)
	}
	require.NoError(t, conn.Close())
}

func waitForCommand(t *testing.T, q *CommandQueue) Command {
	t.Helper()

	var got Command
	require.Eventually(t, func() bool {
		c, ok := q.TryPop()
		if ok {
			got = c
		}
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	return got
}

// A client sends the literal bytes "pause" and exactly that command shows
// up in the queue.
func TestListenerQueuesCommand(t *testing.T) {
	l, addr := startListener(t)

	send(t, addr, "pause")
	assert.Equal(t, Command("pause"), waitForCommand(t, l.Queue))

	_, ok := l.Queue.TryPop()
	assert.False(t, ok)
}

func TestListenerPreservesArrivalOrder(t *testing.T) {
	l, addr := startListener(t)

	// Served inline by the accept loop, so sequential connects can't reorder
	send(t, addr, "pause")
	send(t, addr, "next")
	send(t, addr, "resume")

	assert.Equal(t, Command("pause"), waitForCommand(t, l.Queue))
	assert.Equal(t, Command("next"), waitForCommand(t, l.Queue))
	assert.Equal(t, Command("resume"), waitForCommand(t, l.Queue))
}

// Binary payloads are forwarded verbatim, empty ones dropped
func TestListenerOpaquePayloads(t *testing.T) {
	l, addr := startListener(t)

	send(t, addr, "")
	send(t, addr, "\xff\xfe not utf8")

	assert.Equal(t, Command("\xff\xfe not utf8"), waitForCommand(t, l.Queue))
	_, ok := l.Queue.TryPop()
	assert.False(t, ok)
}
