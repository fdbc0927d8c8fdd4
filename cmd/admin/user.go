package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"user-dashboard/internal/domain"
)

func newUserCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show one user with recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			svc, err := e.service(cmd.Context())
			if err != nil {
				return err
			}
			d, err := svc.Detail(cmd.Context(), id)
			if errors.Is(err, domain.ErrUserNotFound) {
				return fmt.Errorf("user %d not found", id)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			u := d.User
			fmt.Fprintf(w, "%s <%s>\n", u.FullName(), u.Email)
			fmt.Fprintf(w, "status:      %s\n", u.Status)
			fmt.Fprintf(w, "joined:      %s\n", u.CreatedAt.Format("January 2, 2006"))
			fmt.Fprintf(w, "last active: %s\n", u.LastActive.Format("January 2, 2006"))
			fmt.Fprintf(w, "avatar:      %s\n", u.Avatar)
			fmt.Fprintf(w, "summary:     %d actions, %d files shared, %d comments, %d reports\n\n",
				d.Summary.TotalActions, d.Summary.FilesShared, d.Summary.Comments, d.Summary.Reports)

			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"When", "Action", "Description"})
			for _, a := range d.Activities {
				table.Append([]string{a.Timestamp.Format("Jan 2, 2006 03:04 PM"), a.Action, a.Description})
			}
			table.Render()
			return nil
		},
	}
}
