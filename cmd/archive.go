package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/iksnae/studio-session/internal"
	"github.com/iksnae/studio-session/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportAll bool
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "List, restore and export archived sessions",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archive entries, newest first",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		out := cmd.OutOrStdout()
		entries := ws.ctrl.Archive().List()
		if len(entries) == 0 {
			_, _ = fmt.Fprintln(out, infoStyle.Render("No archived sessions"))
			return nil
		}

		active := ws.ctrl.ActiveEntryID()
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			marker := ""
			if e.ID == active {
				marker = "*"
			}
			rows = append(rows, []string{
				marker,
				e.ID,
				e.Title,
				e.SessionID,
				strconv.Itoa(e.Data.Snapshot.Filled()),
				formatTime(e.SavedAt),
			})
		}
		_, _ = fmt.Fprintln(out, renderTable(
			[]string{"", "ID", "Title", "Session", "Sections", "Saved"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	}),
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <entry-id>",
	Short: "Print an archive entry as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		entry, ok := ws.ctrl.Archive().Get(args[0])
		if !ok {
			return &internal.ArchiveError{EntryID: args[0], Err: internal.ErrEntryNotFound}
		}
		return (&export.MarkdownExporter{}).Export(entry, cmd.OutOrStdout())
	}),
}

var archiveRestoreCmd = &cobra.Command{
	Use:   "restore <entry-id>",
	Short: "Replace the working session with an archive entry",
	Args:  cobra.ExactArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		if err := ws.ctrl.Restore(cmd.Context(), args[0]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Restored %s (session %s)", args[0], ws.ctrl.Session().ID)
		return nil
	}),
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an archive entry",
	Args:  cobra.ExactArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		if err := ws.ctrl.DeleteArchiveEntry(args[0]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Deleted %s", args[0])
		return nil
	}),
}

var archiveSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push the working session into the archive if it changed",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		out := cmd.OutOrStdout()
		if !ws.ctrl.Session().Active() {
			printWarning(out, "No active session to sync")
			return nil
		}
		entry := ws.ctrl.Sync()
		if entry == nil {
			_, _ = fmt.Fprintln(out, infoStyle.Render("Archive already up to date"))
			return nil
		}
		printSuccess(out, "Synced %s (%s)", entry.ID, entry.Title)
		return nil
	}),
}

var archiveExportCmd = &cobra.Command{
	Use:   "export [entry-id]",
	Short: "Export archive entries to files",
	Long: `Export one archive entry, or all of them with --all, in jsonl (snapshot
chat), md, yaml or json format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var entries []internal.ArchiveEntry
		switch {
		case exportAll:
			entries = ws.ctrl.Archive().List()
		case len(args) == 1:
			entry, ok := ws.ctrl.Archive().Get(args[0])
			if !ok {
				return &internal.ArchiveError{EntryID: args[0], Err: internal.ErrEntryNotFound}
			}
			entries = []internal.ArchiveEntry{*entry}
		default:
			return fmt.Errorf("specify an entry id or --all (use 'studio-session archive list' to see entries)")
		}

		out := cmd.OutOrStdout()
		written := 0
		for i := range entries {
			path, err := export.WriteFile(&entries[i], exporter, outputDir)
			if err != nil {
				internal.LogError("Failed to export %s: %v", entries[i].ID, err)
				continue
			}
			written++
			internal.LogDebug("Exported %s to %s", entries[i].ID, path)
		}

		if written < len(entries) {
			return fmt.Errorf("exported %d of %d entries", written, len(entries))
		}
		printSuccess(out, "Export complete: %d entr%s exported to %s", written, plural(written, "y", "ies"), filepath.Clean(outputDir))
		return nil
	}),
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveRestoreCmd, archiveDeleteCmd, archiveSyncCmd, archiveExportCmd)
	archiveExportCmd.Flags().StringVarP(&format, "format", "f", "md", "Export format (jsonl, md, yaml, json)")
	archiveExportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	archiveExportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every archive entry")
}
