package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rentaropy/streamlit-desktop-app/internal/session"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List desktop app sessions",
	Long:  `List recorded desktop app sessions with their status and outcome.`,
	RunE:  runPs,
}

func init() {
	rootCmd.AddCommand(psCmd)
}

func runPs(cmd *cobra.Command, args []string) error {
	store, err := session.NewStore()
	if err != nil {
		return fmt.Errorf("failed to access session store: %w", err)
	}

	sessions, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No recorded sessions.")
		return nil
	}

	// Create tabwriter for aligned output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSCRIPT\tPORT\tSTATUS\tOUTCOME\tSTARTED")
	_, _ = fmt.Fprintln(w, "--\t------\t----\t------\t-------\t-------")

	for _, sess := range sessions {
		started := sess.StartedAt.Format("2006-01-02 15:04:05")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			sess.ID,
			sess.Script,
			sess.Port,
			sess.Status,
			sess.Outcome,
			started,
		)
	}

	_ = w.Flush()
	return nil
}
