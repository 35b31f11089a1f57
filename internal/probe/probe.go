package probe

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrTimeout is returned when the server never became reachable within the
// configured window.
var ErrTimeout = errors.New("server did not start in time")

// DefaultTimeout bounds the readiness wait when the config doesn't set one.
const DefaultTimeout = 10 * time.Second

// pollInterval is the pause between connection attempts.
const pollInterval = 100 * time.Millisecond

// WaitUntilReady blocks until something answers HTTP on localhost:<port> or
// the timeout elapses. Any HTTP response counts as ready regardless of status
// code; the probe only verifies that the server is accepting connections.
// Connection-level failures are retried.
func WaitUntilReady(port int, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	url := fmt.Sprintf("http://localhost:%d/", port)
	client := &http.Client{Timeout: pollInterval * 5}
	deadline := time.Now().Add(timeout)

	for {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(pollInterval)
	}
}
