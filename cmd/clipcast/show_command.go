package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clipcast/internal/queue"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show JOB_ID",
		Short: "Show one render job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			record, err := client.getJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(record)
			}

			fmt.Fprintf(out, "Job:      %s\n", record.ID)
			fmt.Fprintf(out, "Source:   %s\n", record.SourceKey)
			if record.Title != "" {
				fmt.Fprintf(out, "Title:    %s\n", record.Title)
			}
			fmt.Fprintf(out, "Status:   %s\n", record.Status)
			fmt.Fprintf(out, "Attempts: %d\n", record.Attempts)
			fmt.Fprintf(out, "Created:  %s\n", record.CreatedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Updated:  %s\n", record.UpdatedAt.Local().Format(time.RFC3339))
			if record.Status == queue.StatusRetry {
				fmt.Fprintf(out, "Next try: %s\n", record.NextTryAt.Local().Format(time.RFC3339))
			}
			if record.Output != "" {
				fmt.Fprintf(out, "Output:   %s\n", record.Output)
			}
			if record.Error != "" {
				fmt.Fprintf(out, "Error:    %s\n", record.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw job record as JSON")

	return cmd
}
