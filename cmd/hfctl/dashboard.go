package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard summary, upcoming transfers and expiring stock",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := g.client()
			stats, err := c.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			upcoming, err := c.DashboardUpcoming(cmd.Context())
			if err != nil {
				return err
			}
			expiring, err := c.DashboardExpiring(cmd.Context())
			if err != nil {
				return err
			}
			if g.json {
				return printJSON(g.out, map[string]any{"stats": stats, "upcoming": upcoming, "expiring": expiring})
			}

			fmt.Fprintf(g.out, "pending orders:     %d\n", stats.PendingOrders)
			fmt.Fprintf(g.out, "in production:      %d\n", stats.InProduction)
			fmt.Fprintf(g.out, "cells produced:     %d\n", stats.TotalProduced)
			fmt.Fprintf(g.out, "available stock:    %d\n", stats.AvailableStock)
			fmt.Fprintf(g.out, "average acceptance: %s\n", percent(stats.AverageAcceptanceRate))
			fmt.Fprintln(g.out, "\nupcoming transfers:")
			if err := printOrders(g, upcoming); err != nil {
				return err
			}
			fmt.Fprintln(g.out, "\nexpiring stock:")
			return printPackages(g, expiring)
		},
	}
}
