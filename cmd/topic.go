package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/studio-session/internal"
	"github.com/spf13/cobra"
)

var topicContext string

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Set or clear the session topic",
}

var topicSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the topic of the current session",
	Args:  cobra.MinimumNArgs(1),
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return errors.New("topic name must not be empty")
		}

		ws.ctrl.EnsureSessionID(cmd.Context())
		topic, err := ws.ctrl.AddTopic(internal.Topic{Name: name, Context: topicContext})
		if errors.Is(err, internal.ErrTopicLimit) {
			return fmt.Errorf("%w (run 'studio-session topic clear' first)", err)
		}
		if err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Topic set: %s", topic.Name)
		return nil
	}),
}

var topicClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the topic",
	Args:  cobra.NoArgs,
	RunE: withWorkspace(func(cmd *cobra.Command, args []string, ws *workspace) error {
		ws.ctrl.ClearTopics()
		printSuccess(cmd.OutOrStdout(), "Topic cleared")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(topicCmd)
	topicCmd.AddCommand(topicSetCmd, topicClearCmd)
	topicSetCmd.Flags().StringVar(&topicContext, "context", "", "Background the workflow should consider")
}
