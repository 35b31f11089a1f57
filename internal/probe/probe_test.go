package probe

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentaropy/streamlit-desktop-app/internal/netutil"
)

func TestWaitUntilReadyTimesOutAgainstDeadPort(t *testing.T) {
	port, err := netutil.FreePort()
	require.NoError(t, err)

	timeout := 500 * time.Millisecond
	start := time.Now()
	err = WaitUntilReady(port, timeout)
	elapsed := time.Since(start)

	assert.True(t, errors.Is(err, ErrTimeout))
	assert.GreaterOrEqual(t, elapsed, timeout)
	// Never more than one polling interval past the deadline (plus slack for
	// a slow CI scheduler)
	assert.Less(t, elapsed, timeout+500*time.Millisecond)
}

func TestWaitUntilReadySucceedsOnceListenerAppears(t *testing.T) {
	port, err := netutil.FreePort()
	require.NoError(t, err)

	// Start accepting connections 300ms after the probe begins
	go func() {
		time.Sleep(300 * time.Millisecond)
		l, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(port)))
		if err != nil {
			return
		}
		defer l.Close()
		_ = http.Serve(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	}()

	start := time.Now()
	err = WaitUntilReady(port, 10*time.Second)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestWaitUntilReadyAcceptsErrorStatus(t *testing.T) {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	go func() {
		_ = http.Serve(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not ready yet", http.StatusServiceUnavailable)
		}))
	}()

	// A 503 still means something is listening, which is all readiness checks
	assert.NoError(t, WaitUntilReady(port, 5*time.Second))
}
