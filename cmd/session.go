package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetSettings bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start, ensure or reset the working session",
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Archive the current work and start a new session",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		id := ws.ctrl.StartNewSession(cmd.Context())
		printSuccess(cmd.OutOrStdout(), "Started session %s", id)
		return nil
	}),
}

var sessionEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Print the current session id, starting a session if there is none",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ws.ctrl.EnsureSessionID(cmd.Context()))
		return nil
	}),
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all session data; the archive is kept",
	Long: `Delete every session-scoped key (session, topic, snapshot, chat, article,
podcast, social posts, reference data, webhook routes, locks) and return them
to their defaults. The archive is not touched. Brand profile and content
preferences are kept unless --settings is given.`,
	Args: cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		ws.ctrl.ResetSession(!resetSettings)
		if resetSettings {
			printSuccess(cmd.OutOrStdout(), "Session and settings reset")
		} else {
			printSuccess(cmd.OutOrStdout(), "Session reset")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionNewCmd, sessionEnsureCmd, sessionResetCmd)
	sessionResetCmd.Flags().BoolVar(&resetSettings, "settings", false, "Also clear brand profile and content preferences")
}
