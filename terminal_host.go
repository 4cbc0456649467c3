// terminal_host.go - Raw-terminal REPL host for the stack-trace debugger
//
// Grounded on the teacher's TerminalHost: term.MakeRaw/term.Restore
// bracketing a non-blocking stdin read loop. The original routes raw
// bytes into an emulated terminal MMIO device one byte at a time;
// this host instead accumulates a line buffer and dispatches whole
// commands to a DebugConsole on Enter, since there is no emulated
// character device on this side of the boundary - only a command
// line (spec.md §3 "stack-trace debugger CLI").

package gba

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// TerminalHost reads raw stdin and dispatches completed lines to a
// DebugConsole. Only instantiated by cmd/gbadbg for interactive use -
// never in tests.
type TerminalHost struct {
	console *DebugConsole

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State

	line []byte
}

// NewTerminalHost creates a host adapter that reads stdin and drives
// the given console.
func NewTerminalHost(console *DebugConsole) *TerminalHost {
	return &TerminalHost{
		console: console,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start sets stdin to raw, non-blocking mode and begins reading in a
// goroutine. Call Stop() to restore stdin.
func (h *TerminalHost) Start() {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set raw mode: %v\n", err)
		close(h.done)
		return
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "terminal_host: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			if n > 0 {
				h.handleByte(buf[0])
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

// handleByte accumulates one input byte into the current line,
// dispatching the command on Enter and handling Backspace/DEL.
func (h *TerminalHost) handleByte(b byte) {
	switch b {
	case '\r', '\n':
		fmt.Print("\r\n")
		line := string(h.line)
		h.line = h.line[:0]
		cmd := ParseCommand(line)
		if cmd.Name == "" {
			return
		}
		h.console.Execute(cmd)
		for _, l := range h.console.Output() {
			fmt.Printf("%s\r\n", l.Text)
		}
		h.console.output = h.console.output[:0]
	case 0x7F, 0x08: // DEL / Backspace
		if len(h.line) > 0 {
			h.line = h.line[:len(h.line)-1]
			fmt.Print("\b \b")
		}
	default:
		h.line = append(h.line, b)
		fmt.Printf("%c", b)
	}
}

// Stop terminates the stdin reading goroutine and restores stdin to blocking mode.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
