package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipcast/internal/queue"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process JOB_ID",
		Short: "Render one pending job immediately",
		Long:  "Runs the job now instead of waiting for its scheduled retry or the next worker tick.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			record, err := client.processJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch record.Status {
			case queue.StatusDone:
				fmt.Fprintf(out, "Done: %s\n", record.Output)
			case queue.StatusRetry:
				fmt.Fprintf(out, "Failed, retry scheduled (attempt %d): %s\n", record.Attempts, record.Error)
			default:
				fmt.Fprintf(out, "Job %s is %s", record.ID, record.Status)
				if record.Error != "" {
					fmt.Fprintf(out, ": %s", record.Error)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
