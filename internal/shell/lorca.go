package shell

import (
	"fmt"

	"github.com/zserge/lorca"
)

// LorcaShell renders the app in a Chrome app-mode window via lorca.
//
// Downloads are permitted natively by Chrome, so AllowDownloads needs no
// special handling here; the flag matters for shells that block downloads by
// default.
type LorcaShell struct{}

func chromeAvailable() bool {
	return lorca.LocateChrome() != ""
}

// Show opens the window and blocks until the user closes it.
func (s *LorcaShell) Show(cfg WindowConfig) error {
	ui, err := lorca.New(cfg.URL, "", cfg.Width, cfg.Height)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ui.Close()

	// App-mode windows take their title from the page; pin ours on top
	if cfg.Title != "" {
		ui.Eval(fmt.Sprintf("document.title = %q", cfg.Title))
	}

	<-ui.Done()
	return nil
}
