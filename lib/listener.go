package copiclib

import (
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// A Command is opaque UTF-8 text from a client. Validation is entirely the
// consuming side's problem.
type Command = string

// CommandQueue is the unbounded FIFO between the listener and the daemon.
// Single producer, single consumer; the daemon drains it once per poll.
type CommandQueue struct {
	mu    sync.Mutex
	items []Command
}

func (q *CommandQueue) Push(c Command) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
}

// TryPop never blocks
func (q *CommandQueue) TryPop() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return "", false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// How long Accept blocks before rechecking the stop channel
const acceptTimeout = 500 * time.Millisecond

// How long a client gets to finish sending before the connection is dropped
const readTimeout = 2 * time.Second

// Listener accepts commands over local TCP and queues them for the daemon.
// The protocol is the original client's: connect, send UTF-8 bytes,
// disconnect. No framing, no response.
type Listener struct {
	Addr  string
	Queue *CommandQueue

	ln *net.TCPListener
}

func (l *Listener) Listen() error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	l.ln = ln.(*net.TCPListener)
	return nil
}

// ListenAddr is only valid after Listen succeeds
func (l *Listener) ListenAddr() net.Addr {
	return l.ln.Addr()
}

// Run accepts until stop is closed. Connections are served inline so queued
// commands keep their arrival order; the accept and read deadlines bound how
// long any single client can hold the listener.
func (l *Listener) Run(stop <-chan struct{}) {
	defer l.ln.Close()

	for {
		select {
		case <-stop:
			return
		default:
		}

		_ = l.ln.SetDeadline(time.Now().Add(acceptTimeout))
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("Accept failed: %v", err)
			continue
		}

		l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	b, err := io.ReadAll(conn)
	if err != nil {
		// Idle or broken client. The partial payload is discarded.
		log.Printf("Dropping connection from %s: %v", conn.RemoteAddr(), err)
		return
	}

	if len(b) == 0 {
		return
	}
	l.Queue.Push(Command(b))
}
