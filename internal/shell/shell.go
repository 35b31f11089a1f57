package shell

// WindowConfig describes the window the shell should present. URL points at
// the already-ready local server.
type WindowConfig struct {
	Title          string
	URL            string
	Width          int
	Height         int
	Icon           string
	AllowDownloads bool
}

// Shell displays the running app. Show blocks for the lifetime of the
// window; its return is the close signal that ends the session.
type Shell interface {
	Show(cfg WindowConfig) error
}

// New picks the best available shell: a native Chrome app window when a
// Chrome/Chromium binary is installed, otherwise the system browser with a
// signal-driven close.
func New() Shell {
	if chromeAvailable() {
		return &LorcaShell{}
	}
	return &BrowserShell{}
}
