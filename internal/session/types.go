package session

import "time"

// Outcome is the terminal result of a session, produced once at session end.
type Outcome string

const (
	OutcomeClosedByUser     Outcome = "closed_by_user"
	OutcomeReadinessTimeout Outcome = "readiness_timeout"
	OutcomePortUnavailable  Outcome = "port_unavailable"
	OutcomeLaunchFailure    Outcome = "launch_failure"
	OutcomeShellFailure     Outcome = "shell_failure"
)

// Session records one desktop-app run: the script served, the negotiated
// port, and how the run ended.
type Session struct {
	ID        string     `json:"id"`
	Script    string     `json:"script"`
	Title     string     `json:"title"`
	Port      int        `json:"port"`
	PID       int        `json:"pid,omitempty"`
	Status    string     `json:"status"` // "running", "stopped"
	Outcome   Outcome    `json:"outcome,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
}
