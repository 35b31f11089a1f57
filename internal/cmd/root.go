package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "streamlit-desktop-app",
	Short: "Run Streamlit apps as desktop applications",
	Long: `Run a Streamlit app inside a native desktop window.

Launch an app:
  streamlit-desktop-app run app.py
  streamlit-desktop-app run app.py --title "My App" --option theme.base=dark

List past sessions:
  streamlit-desktop-app ps

Clean up stopped session records:
  streamlit-desktop-app prune`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.streamlit-desktop/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}
