package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			state := "stopped"
			if status.Running {
				state = "running"
			}
			fmt.Fprintf(out, "Daemon:  %s\n", state)
			if status.APIAddress != "" {
				fmt.Fprintf(out, "API:     %s\n", status.APIAddress)
			}
			fmt.Fprintf(out, "Jobs:    %s\n", status.JobsKey)

			names := make([]string, 0, len(status.Jobs))
			for name := range status.Jobs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %-11s %d\n", name, status.Jobs[name])
			}

			if len(status.Dependencies) > 0 {
				fmt.Fprintln(out, "Tools:")
				for _, dep := range status.Dependencies {
					mark := "ok"
					if !dep.Available {
						mark = "missing"
						if dep.Detail != "" {
							mark = dep.Detail
						}
					}
					fmt.Fprintf(out, "  %-11s %s (%s)\n", dep.Name, dep.Command, mark)
				}
			}
			return nil
		},
	}
}
