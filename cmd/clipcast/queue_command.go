package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipcast/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List render jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			records, err := client.listJobs(cmd.Context())
			if err != nil {
				return err
			}

			if statusFilter != "" {
				wanted, ok := queue.ParseStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
				filtered := records[:0]
				for _, record := range records {
					if record.Status == wanted {
						filtered = append(filtered, record)
					}
				}
				records = filtered
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "Queue is empty.")
				return nil
			}

			headers := []string{"ID", "SOURCE", "STATUS", "ATTEMPTS", "NEXT TRY", "OUTPUT"}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					shortID(record.ID),
					record.SourceKey,
					string(record.Status),
					fmt.Sprintf("%d", record.Attempts),
					nextTry(record),
					record.Output,
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Only show jobs with this status (queued, processing, retry, done, error)")

	return cmd
}

func shortID(id string) string {
	if idx := strings.IndexByte(id, '-'); idx > 0 {
		return id[:idx]
	}
	return id
}

func nextTry(record *queue.JobRecord) string {
	switch record.Status {
	case queue.StatusQueued, queue.StatusRetry:
		return record.NextTryAt.Local().Format(time.TimeOnly)
	default:
		return ""
	}
}
