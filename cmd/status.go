package cmd

import (
	"fmt"
	"time"

	"github.com/iksnae/studio-session/internal"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		out := cmd.OutOrStdout()
		ctrl := ws.ctrl

		_, _ = fmt.Fprintln(out, sectionStyle.Render("Session status"))
		printField(out, "Store", fmt.Sprintf("%s (%s)", ws.cfg.Store.Backend, storeLocation(ws)))
		printField(out, "Version", ws.guard.Current)

		session := ctrl.Session()
		if session.Active() {
			printField(out, "Session", idStyle.Render(session.ID))
			printField(out, "Started", formatTime(session.StartedAt))
		} else {
			printField(out, "Session", "none")
		}

		topic := "none"
		if topics := ctrl.Topics(); len(topics) > 0 {
			topic = topics[0].Name
		}
		printField(out, "Topic", topic)
		printField(out, "Snapshot", fmt.Sprintf("%d/%d sections", ctrl.Snapshot().Filled(), len(internal.SectionDefs)))

		locks := ctrl.Locks()
		printField(out, "Locks", fmt.Sprintf("brand=%t topic=%t snapshot=%t", locks.Brand, locks.Topic, locks.Snapshot))

		active := "none"
		if id := ctrl.ActiveEntryID(); id != "" {
			active = id
		}
		printField(out, "Active entry", active)
		printField(out, "Archive", fmt.Sprintf("%d entries", len(ctrl.Archive().List())))
		return nil
	}),
}

func storeLocation(ws *workspace) string {
	switch ws.store.Backend().Name() {
	case "sqlite":
		return ws.cfg.Store.Path
	case "redis":
		return ws.cfg.Store.RedisPrefix
	default:
		return "ephemeral"
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
