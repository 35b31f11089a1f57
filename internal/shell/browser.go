package shell

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
)

// BrowserShell opens the app in the system browser. With no window of our
// own to watch, an interrupt stands in for the close signal.
type BrowserShell struct{}

// Show opens the URL and blocks until SIGINT or SIGTERM.
func (s *BrowserShell) Show(cfg WindowConfig) error {
	if err := openBrowser(cfg.URL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	fmt.Printf("Opened %s in your browser. Press Ctrl+C to stop.\n", cfg.URL)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	<-sigs

	return nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
