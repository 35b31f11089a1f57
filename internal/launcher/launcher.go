package launcher

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/rentaropy/streamlit-desktop-app/internal/netutil"
	"github.com/rentaropy/streamlit-desktop-app/internal/options"
	"github.com/rentaropy/streamlit-desktop-app/internal/probe"
	"github.com/rentaropy/streamlit-desktop-app/internal/server"
	"github.com/rentaropy/streamlit-desktop-app/internal/session"
	"github.com/rentaropy/streamlit-desktop-app/internal/shell"
)

// Config describes one launch request. Built once per session and not
// mutated afterwards.
type Config struct {
	ScriptPath     string
	Title          string
	Width          int
	Height         int
	Icon           string
	Options        map[string]string
	AllowDownloads bool
	ProbeTimeout   time.Duration
}

// Launcher drives a full session: negotiate the port, start the server
// process, wait for it to answer, show the window, and tear everything down
// when the window closes. The launcher itself is strictly sequential; the
// server process and the window each run on their own.
type Launcher struct {
	Supervisor server.Supervisor
	Shell      shell.Shell
	Store      *session.Store
	Log        *log.Logger
}

func New(sup server.Supervisor, sh shell.Shell, store *session.Store, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Launcher{Supervisor: sup, Shell: sh, Store: store, Log: logger}
}

// Run executes one session end to end and returns its record. The returned
// error is non-nil for every outcome other than a normal close; the Streamlit
// process is stopped before Run returns on every path where it was started.
func (l *Launcher) Run(cfg Config) (*session.Session, error) {
	if err := validateScript(cfg.ScriptPath); err != nil {
		return nil, err
	}
	if cfg.Icon != "" {
		if _, err := os.Stat(cfg.Icon); err != nil {
			return nil, fmt.Errorf("icon not found: %s", cfg.Icon)
		}
	}

	port, warnings, err := netutil.Negotiate(cfg.Options[options.KeyPort])
	for _, w := range warnings {
		l.Log.Warn(w)
	}

	sess := &session.Session{
		ID:        uuid.New().String()[:8],
		Script:    cfg.ScriptPath,
		Title:     cfg.Title,
		Port:      port,
		Status:    "running",
		StartedAt: time.Now().UTC(),
	}

	if err != nil {
		l.finalize(sess, session.OutcomePortUnavailable)
		return sess, fmt.Errorf("port negotiation failed: %w", err)
	}

	resolved, warnings := options.Resolve(cfg.Options, port)
	for _, w := range warnings {
		l.Log.Warn(w)
	}

	proc, err := l.Supervisor.Start(cfg.ScriptPath, resolved)
	if err != nil {
		l.finalize(sess, session.OutcomeLaunchFailure)
		return sess, fmt.Errorf("failed to start server: %w", err)
	}
	sess.PID = proc.Pid()
	l.save(sess)

	outcome := session.OutcomeClosedByUser
	var runErr error

	// The server must never outlive the session, whatever path got us here
	defer func() {
		if stopErr := proc.Stop(); stopErr != nil {
			l.Log.Warn("failed to stop server", "err", stopErr)
		}
		l.finalize(sess, outcome)
	}()

	l.Log.Debug("waiting for server", "port", port, "timeout", cfg.ProbeTimeout)
	if err := probe.WaitUntilReady(port, cfg.ProbeTimeout); err != nil {
		outcome = session.OutcomeReadinessTimeout
		runErr = fmt.Errorf("server on port %d: %w", port, err)
		return sess, runErr
	}

	window := shell.WindowConfig{
		Title:          cfg.Title,
		URL:            fmt.Sprintf("http://localhost:%d", port),
		Width:          cfg.Width,
		Height:         cfg.Height,
		Icon:           cfg.Icon,
		AllowDownloads: cfg.AllowDownloads,
	}

	// Blocks until the user closes the window
	if err := l.Shell.Show(window); err != nil {
		outcome = session.OutcomeShellFailure
		runErr = fmt.Errorf("shell: %w", err)
	}

	return sess, runErr
}

func validateScript(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("script not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("script is a directory: %s", path)
	}
	return nil
}

func (l *Launcher) finalize(sess *session.Session, outcome session.Outcome) {
	now := time.Now().UTC()
	sess.Status = "stopped"
	sess.Outcome = outcome
	sess.StoppedAt = &now
	l.save(sess)
}

func (l *Launcher) save(sess *session.Session) {
	if l.Store == nil {
		return
	}
	if err := l.Store.Save(sess); err != nil {
		l.Log.Warn("failed to save session", "id", sess.ID, "err", err)
	}
}
