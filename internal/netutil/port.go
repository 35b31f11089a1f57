package netutil

import (
	"fmt"
	"net"
	"strconv"
)

// IsPortFree reports whether a TCP listener can currently be bound to the
// given port on localhost. The listener is released immediately, so this is a
// check, not a reservation: another process can still grab the port between
// the check and the server's own bind.
func IsPortFree(port int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// FreePort asks the operating system for an ephemeral port by binding a
// listener on port 0 and reading back the assigned port.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find a free port: %w", err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// Negotiate picks the port the server will bind to. preferred is the caller's
// raw server.port value ("" when the caller didn't supply one). A valid,
// currently-free preferred port is honored exactly; an invalid or busy one
// produces a warning and falls back to an OS-assigned ephemeral port.
func Negotiate(preferred string) (int, []string, error) {
	var warnings []string

	if preferred != "" {
		p, err := strconv.Atoi(preferred)
		switch {
		case err != nil || p < 1 || p > 65535:
			warnings = append(warnings, fmt.Sprintf("invalid port %q, a random free port will be assigned", preferred))
		case IsPortFree(p):
			return p, warnings, nil
		default:
			warnings = append(warnings, fmt.Sprintf("port %d is already in use, a random free port will be assigned", p))
		}
	}

	port, err := FreePort()
	if err != nil {
		return 0, warnings, err
	}
	return port, warnings, nil
}
