package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAnalyticsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Print user counts, status breakdown and signup trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := svc.Analytics(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "total users:  %d\n", rep.Stats.TotalUsers)
			fmt.Fprintf(w, "active users: %d\n", rep.Stats.ActiveUsers)
			fmt.Fprintf(w, "growth rate:  %s\n\n", rep.Stats.GrowthRate)

			status := tablewriter.NewWriter(w)
			status.SetHeader([]string{"Status", "Users", "Share"})
			for _, s := range rep.StatusData {
				status.Append([]string{s.Name, strconv.Itoa(s.Value), strconv.Itoa(s.Percent) + "%"})
			}
			status.Render()

			trend := tablewriter.NewWriter(w)
			trend.SetHeader([]string{"Date", "Signups"})
			for _, p := range rep.SignupTrend {
				trend.Append([]string{p.Date, strconv.Itoa(p.Signups)})
			}
			trend.Render()
			return nil
		},
	}
}
