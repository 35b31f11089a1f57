package launcher

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentaropy/streamlit-desktop-app/internal/options"
	"github.com/rentaropy/streamlit-desktop-app/internal/probe"
	"github.com/rentaropy/streamlit-desktop-app/internal/server"
	"github.com/rentaropy/streamlit-desktop-app/internal/session"
	"github.com/rentaropy/streamlit-desktop-app/internal/shell"
)

// stubProcess stands in for a running Streamlit worker.
type stubProcess struct {
	listener net.Listener
	stops    int
}

func (p *stubProcess) Pid() int { return os.Getpid() }

func (p *stubProcess) Stop() error {
	p.stops++
	if p.listener != nil {
		_ = p.listener.Close()
		p.listener = nil
	}
	return nil
}

// stubSupervisor optionally serves HTTP on the negotiated port, acting as a
// worker that becomes ready immediately.
type stubSupervisor struct {
	startErr error
	listen   bool

	started bool
	gotOpts options.Resolved
	proc    *stubProcess
}

func (s *stubSupervisor) Start(scriptPath string, opts options.Resolved) (server.Process, error) {
	s.started = true
	s.gotOpts = opts
	if s.startErr != nil {
		return nil, s.startErr
	}

	p := &stubProcess{}
	if s.listen {
		port, err := strconv.Atoi(opts[options.KeyPort])
		if err != nil {
			return nil, err
		}
		l, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(port)))
		if err != nil {
			return nil, err
		}
		p.listener = l
		go func() {
			_ = http.Serve(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		}()
	}
	s.proc = p
	return p, nil
}

// stubShell returns immediately, as if the user closed the window at once.
type stubShell struct {
	showErr error
	shown   bool
	got     shell.WindowConfig
}

func (s *stubShell) Show(cfg shell.WindowConfig) error {
	s.shown = true
	s.got = cfg
	return s.showErr
}

func writeScript(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(path, []byte("import streamlit as st\n"), 0644))
	return path
}

func newTestLauncher(t *testing.T, sup *stubSupervisor, sh *stubShell) *Launcher {
	t.Helper()

	store, err := session.NewStoreIn(t.TempDir())
	require.NoError(t, err)
	return New(sup, sh, store, log.New(io.Discard))
}

func TestRunEndToEnd(t *testing.T) {
	sup := &stubSupervisor{listen: true}
	sh := &stubShell{}
	l := newTestLauncher(t, sup, sh)

	sess, err := l.Run(Config{
		ScriptPath:   writeScript(t),
		Title:        "Test App",
		Width:        800,
		Height:       600,
		ProbeTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, session.OutcomeClosedByUser, sess.Outcome)
	assert.Equal(t, "stopped", sess.Status)
	assert.NotNil(t, sess.StoppedAt)

	// The shell saw the negotiated address after readiness
	assert.True(t, sh.shown)
	assert.Equal(t, fmt.Sprintf("http://localhost:%d", sess.Port), sh.got.URL)
	assert.Equal(t, "Test App", sh.got.Title)

	// The worker was torn down and its port released
	require.NotNil(t, sup.proc)
	assert.GreaterOrEqual(t, sup.proc.stops, 1)
	_, err = net.DialTimeout("tcp", fmt.Sprintf("localhost:%d", sess.Port), 200*time.Millisecond)
	assert.Error(t, err)

	// The session record was persisted with the final state
	saved, err := l.Store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeClosedByUser, saved.Outcome)
}

func TestRunAppliesOverridePolicy(t *testing.T) {
	sup := &stubSupervisor{listen: true}
	sh := &stubShell{}
	l := newTestLauncher(t, sup, sh)

	sess, err := l.Run(Config{
		ScriptPath: writeScript(t),
		Options: map[string]string{
			"server.address": "0.0.0.0",
			"theme.base":     "dark",
		},
		ProbeTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost", sup.gotOpts[options.KeyAddress])
	assert.Equal(t, "true", sup.gotOpts[options.KeyHeadless])
	assert.Equal(t, "false", sup.gotOpts[options.KeyDevMode])
	assert.Equal(t, "dark", sup.gotOpts["theme.base"])
	assert.Equal(t, strconv.Itoa(sess.Port), sup.gotOpts[options.KeyPort])
}

func TestRunHonorsFreePreferredPort(t *testing.T) {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	preferred := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	sup := &stubSupervisor{listen: true}
	sh := &stubShell{}
	launcher := newTestLauncher(t, sup, sh)

	sess, err := launcher.Run(Config{
		ScriptPath:   writeScript(t),
		Options:      map[string]string{"server.port": strconv.Itoa(preferred)},
		ProbeTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, preferred, sess.Port)
}

func TestRunInvalidScript(t *testing.T) {
	sup := &stubSupervisor{}
	l := newTestLauncher(t, sup, &stubShell{})

	_, err := l.Run(Config{ScriptPath: "/nonexistent/app.py"})
	assert.Error(t, err)
	assert.False(t, sup.started, "no process may be spawned on invalid input")
}

func TestRunLaunchFailure(t *testing.T) {
	sup := &stubSupervisor{startErr: errors.New("streamlit not found")}
	sh := &stubShell{}
	l := newTestLauncher(t, sup, sh)

	sess, err := l.Run(Config{ScriptPath: writeScript(t)})
	require.Error(t, err)

	assert.Equal(t, session.OutcomeLaunchFailure, sess.Outcome)
	assert.Equal(t, "stopped", sess.Status)
	assert.False(t, sh.shown, "readiness wait and shell are skipped on launch failure")
}

func TestRunReadinessTimeout(t *testing.T) {
	// The worker starts but never binds its port
	sup := &stubSupervisor{listen: false}
	sh := &stubShell{}
	l := newTestLauncher(t, sup, sh)

	sess, err := l.Run(Config{
		ScriptPath:   writeScript(t),
		ProbeTimeout: 300 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, probe.ErrTimeout))

	assert.Equal(t, session.OutcomeReadinessTimeout, sess.Outcome)
	assert.False(t, sh.shown)

	// Teardown still ran
	require.NotNil(t, sup.proc)
	assert.GreaterOrEqual(t, sup.proc.stops, 1)
}

func TestRunShellFailure(t *testing.T) {
	sup := &stubSupervisor{listen: true}
	sh := &stubShell{showErr: errors.New("no display")}
	l := newTestLauncher(t, sup, sh)

	sess, err := l.Run(Config{
		ScriptPath:   writeScript(t),
		ProbeTimeout: 5 * time.Second,
	})
	require.Error(t, err)

	assert.Equal(t, session.OutcomeShellFailure, sess.Outcome)
	require.NotNil(t, sup.proc)
	assert.GreaterOrEqual(t, sup.proc.stops, 1)
}
