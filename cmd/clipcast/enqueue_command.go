package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var title string
	var maxDuration int

	cmd := &cobra.Command{
		Use:   "enqueue SOURCE_KEY",
		Short: "Queue an audio object for rendering",
		Long:  "Queues the audio object stored under SOURCE_KEY (for example audio/1700000000-test.mp3) for clip rendering.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceKey := strings.TrimSpace(args[0])
			if sourceKey == "" {
				return fmt.Errorf("source key is required")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			record, err := client.enqueue(cmd.Context(), enqueueRequest{
				SourceKey:          sourceKey,
				Title:              title,
				MaxDurationSeconds: maxDuration,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Queued %s\n", record.SourceKey)
			fmt.Fprintf(out, "Job ID: %s\n", record.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title card text burned into the opening of the clip")
	cmd.Flags().IntVar(&maxDuration, "max-duration", 0, "Maximum clip length in seconds (0 uses the daemon default)")

	return cmd
}
