package server

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rentaropy/streamlit-desktop-app/internal/options"
)

// DefaultCommand is the Streamlit executable looked up on PATH when the
// config doesn't name one.
const DefaultCommand = "streamlit"

// stopGrace is how long Stop waits after a graceful signal before escalating
// to a forceful kill.
const stopGrace = 5 * time.Second

// Process is a running Streamlit worker owned by the supervisor that
// started it. Stop blocks until the process is gone and is safe to call
// more than once, or after the process exited on its own.
type Process interface {
	Pid() int
	Stop() error
}

// Supervisor starts Streamlit worker processes. Start returns as soon as the
// process is spawned; readiness is the caller's concern.
type Supervisor interface {
	Start(scriptPath string, opts options.Resolved) (Process, error)
}

// ExecSupervisor runs the worker as a separate OS process via the Streamlit
// command-line entry point.
type ExecSupervisor struct {
	Command string
}

func NewExecSupervisor(command string) *ExecSupervisor {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecSupervisor{Command: command}
}

// Start spawns `<command> run <scriptPath> --key=value...`. The worker
// inherits stdout/stderr so its own logs stay visible. A missing command or
// spawn failure returns an error with no process left behind.
func (s *ExecSupervisor) Start(scriptPath string, opts options.Resolved) (Process, error) {
	path, err := exec.LookPath(s.Command)
	if err != nil {
		return nil, fmt.Errorf("streamlit command %q not found: %w", s.Command, err)
	}

	cmd := exec.Command(path, opts.Args("run", scriptPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start streamlit: %w", err)
	}

	return newHandle(cmd), nil
}

// Handle owns one spawned worker process.
type Handle struct {
	cmd      *exec.Cmd
	done     chan struct{} // closed once the process has been reaped
	stopOnce sync.Once
}

func newHandle(cmd *exec.Cmd) *Handle {
	h := &Handle{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(h.done)
	}()
	return h
}

func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Stop requests graceful termination, escalates to a kill after a grace
// period, and blocks until the process is confirmed gone. Calling Stop on an
// already-exited or already-stopped process is a no-op.
func (h *Handle) Stop() error {
	h.stopOnce.Do(func() {
		select {
		case <-h.done:
			return
		default:
		}

		if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			// No graceful signal available (or the process is already
			// gone), go straight to a kill.
			_ = h.cmd.Process.Kill()
		}

		select {
		case <-h.done:
		case <-time.After(stopGrace):
			_ = h.cmd.Process.Kill()
		}
	})

	<-h.done
	return nil
}
