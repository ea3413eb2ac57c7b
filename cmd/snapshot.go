package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iksnae/studio-session/internal"
	"github.com/spf13/cobra"
)

var snapshotHTML bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show and edit the delivery snapshot",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the snapshot sections",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		out := cmd.OutOrStdout()
		snap := ws.ctrl.Snapshot()

		if snapshotHTML {
			_, _ = fmt.Fprintln(out, snap.Text)
			return nil
		}

		for i, section := range snap.Sections {
			title := fmt.Sprintf("%d. %s", i+1, internal.SectionTitle(section.ID))
			_, _ = fmt.Fprintln(out, sectionStyle.Render(title)+" "+idStyle.Render("("+section.ID+")"))
			if strings.TrimSpace(section.Content) == "" {
				_, _ = fmt.Fprintln(out, labelStyle.Render("   (empty)"))
			} else {
				_, _ = fmt.Fprintln(out, section.Content)
			}
			_, _ = fmt.Fprintln(out)
		}
		return nil
	}),
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the snapshot with a JSON document, e.g. an automation response",
	Long: `Read a snapshot JSON document from a file (or stdin with "-") and store it
after normalization: unknown sections are dropped, missing ones are added
empty, and the draft and combined text are rebuilt.`,
	Args: cobra.ExactArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}

		snap := ws.ctrl.ApplySnapshot(data)
		printSuccess(cmd.OutOrStdout(), "Snapshot imported: %d/%d sections filled", snap.Filled(), len(internal.SectionDefs))
		return nil
	}),
}

var snapshotReorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move a section; positions are 1-based as shown by 'snapshot show'",
	Args:  cobra.ExactArgs(2),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		from, err := parsePosition(args[0])
		if err != nil {
			return err
		}
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}

		snap := ws.ctrl.ReorderSnapshot(from-1, to-1)
		ids := make([]string, len(snap.Sections))
		for i, s := range snap.Sections {
			ids[i] = s.ID
		}
		printSuccess(cmd.OutOrStdout(), "Order: %s", strings.Join(ids, ", "))
		return nil
	}),
}

var snapshotSetCmd = &cobra.Command{
	Use:   "set <section> <content>",
	Short: "Set the content of one section",
	Args:  cobra.MinimumNArgs(2),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		if _, err := ws.ctrl.SetSnapshotSection(args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Updated %s", internal.SectionTitle(args[0]))
		return nil
	}),
}

var snapshotChatCmd = &cobra.Command{
	Use:   "chat <role> <message>",
	Short: "Append a turn to the snapshot refinement chat",
	Args:  cobra.MinimumNArgs(2),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		ws.ctrl.AppendChat(args[0], strings.Join(args[1:], " "))
		printSuccess(cmd.OutOrStdout(), "Chat now has %d turns", len(ws.ctrl.Bundle().SnapshotChat))
		return nil
	}),
}

func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotShowCmd, snapshotImportCmd, snapshotReorderCmd, snapshotSetCmd, snapshotChatCmd)
	snapshotShowCmd.Flags().BoolVar(&snapshotHTML, "html", false, "Print the rendered, sanitized HTML instead")
}
