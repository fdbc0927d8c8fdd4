package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"user-dashboard/internal/domain"
)

const dateLayout = "Jan 2, 2006"

func newUsersCmd(e *env) *cobra.Command {
	var (
		f           domain.Filter
		status      string
		sortBy      string
		sortOrder   string
		page, limit int
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users with search, status filter, sorting and pagination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := parseFilter(&f, status, sortBy, sortOrder); err != nil {
				return err
			}
			if limit <= 0 {
				limit = e.cfg.List.ItemsPerPage
			}
			svc, err := e.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.List(cmd.Context(), f, page, limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(out.Items) == 0 {
				fmt.Fprintln(w, "No users found.")
				return nil
			}
			renderUsers(w, out.Items)
			fmt.Fprintf(w, "page %d/%d, %d matching users\n", out.Page, out.TotalPages, out.Total)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Search, "search", "q", "", "case-insensitive match on first name, last name or email")
	cmd.Flags().StringVar(&status, "status", "all", "all | active | inactive")
	cmd.Flags().StringVar(&sortBy, "sort-by", "name", "name | createdAt")
	cmd.Flags().StringVar(&sortOrder, "sort-order", "asc", "asc | desc")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "items per page (default from config)")
	return cmd
}

func parseFilter(f *domain.Filter, status, sortBy, sortOrder string) error {
	switch domain.StatusFilter(status) {
	case domain.StatusAll, domain.StatusFilterActive, domain.StatusFilterInactive:
		f.Status = domain.StatusFilter(status)
	default:
		return fmt.Errorf("invalid --status %q", status)
	}
	switch domain.SortKey(sortBy) {
	case domain.SortByName, domain.SortByCreatedAt:
		f.SortBy = domain.SortKey(sortBy)
	default:
		return fmt.Errorf("invalid --sort-by %q", sortBy)
	}
	switch domain.SortOrder(sortOrder) {
	case domain.SortAsc, domain.SortDesc:
		f.SortOrder = domain.SortOrder(sortOrder)
	default:
		return fmt.Errorf("invalid --sort-order %q", sortOrder)
	}
	return nil
}

func renderUsers(w io.Writer, us []domain.User) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Email", "Status", "Created"})
	for _, u := range us {
		table.Append([]string{
			strconv.Itoa(u.ID),
			u.FullName(),
			u.Email,
			string(u.Status),
			u.CreatedAt.Format(dateLayout),
		})
	}
	table.Render()
}

func newDirectoryCmd(e *env) *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Read one page straight from the user directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := e.service(cmd.Context())
			if err != nil {
				return err
			}
			p, err := svc.Directory(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			renderUsers(w, p.Data)
			fmt.Fprintf(w, "page %d/%d, %d users in directory\n", p.Page, p.TotalPages, p.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&perPage, "per-page", 6, "page size")
	return cmd
}
