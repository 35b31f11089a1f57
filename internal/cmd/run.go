package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rentaropy/streamlit-desktop-app/internal/config"
	"github.com/rentaropy/streamlit-desktop-app/internal/launcher"
	"github.com/rentaropy/streamlit-desktop-app/internal/options"
	"github.com/rentaropy/streamlit-desktop-app/internal/server"
	"github.com/rentaropy/streamlit-desktop-app/internal/session"
	"github.com/rentaropy/streamlit-desktop-app/internal/shell"
)

var (
	runTitle          string
	runWidth          int
	runHeight         int
	runIcon           string
	runOptions        []string
	runAllowDownloads bool
	runTimeout        string
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a Streamlit script in a desktop window",
	Long: `Run a Streamlit script in a desktop window.

The app is served by a local Streamlit process bound to a free port on
localhost and displayed in a native window. Closing the window stops the
server.

Examples:
  streamlit-desktop-app run app.py
  streamlit-desktop-app run app.py --title "Sales Dashboard" --width 1280 --height 900
  streamlit-desktop-app run app.py --option server.port=8501 --option theme.base=dark
  streamlit-desktop-app run app.py --allow-downloads`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTitle, "title", "", "window title (default from config)")
	runCmd.Flags().IntVar(&runWidth, "width", 0, "window width in pixels (default from config)")
	runCmd.Flags().IntVar(&runHeight, "height", 0, "window height in pixels (default from config)")
	runCmd.Flags().StringVar(&runIcon, "icon", "", "path to the window icon")
	runCmd.Flags().StringArrayVarP(&runOptions, "option", "O", []string{}, "Streamlit option as key=value (repeatable)")
	runCmd.Flags().BoolVar(&runAllowDownloads, "allow-downloads", false, "allow file downloads in the window")
	runCmd.Flags().StringVarP(&runTimeout, "timeout", "t", "", "how long to wait for the server to become ready (e.g. 30s)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Config-file options first, --option flags on top
	userOpts := make(map[string]string, len(cfg.Options)+len(runOptions))
	for k, v := range cfg.Options {
		userOpts[k] = v
	}
	flagOpts, err := options.ParsePairs(runOptions)
	if err != nil {
		return err
	}
	for k, v := range flagOpts {
		userOpts[k] = v
	}

	title := runTitle
	if title == "" {
		title = cfg.Defaults.Title
	}
	width := runWidth
	if width <= 0 {
		width = cfg.Defaults.Width
	}
	height := runHeight
	if height <= 0 {
		height = cfg.Defaults.Height
	}

	var timeout time.Duration
	if runTimeout != "" {
		timeout, err = time.ParseDuration(runTimeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", runTimeout, err)
		}
	} else {
		timeout, err = cfg.Defaults.ParseProbeTimeout()
		if err != nil {
			return err
		}
	}

	store, err := session.NewStore()
	if err != nil {
		log.Warn("session records disabled", "err", err)
		store = nil
	}

	l := launcher.New(server.NewExecSupervisor(cfg.StreamlitCommand), shell.New(), store, log.Default())

	sess, err := l.Run(launcher.Config{
		ScriptPath:     args[0],
		Title:          title,
		Width:          width,
		Height:         height,
		Icon:           runIcon,
		Options:        userOpts,
		AllowDownloads: runAllowDownloads,
		ProbeTimeout:   timeout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Session %s closed (port %d).\n", sess.ID, sess.Port)
	return nil
}
