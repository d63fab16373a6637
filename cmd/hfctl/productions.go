package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alanhoffer/hf-dashboard/internal/productions"
	"github.com/alanhoffer/hf-dashboard/pkg/client"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newProductionsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "productions", Short: "Record grafting batches and acceptance"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all production records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := g.client().ListProductions(cmd.Context())
			if err != nil {
				return err
			}
			return printProductions(g, rows)
		},
	}

	var req client.CreateProductionRequest
	var orderID, notes string
	create := &cobra.Command{
		Use:   "create",
		Short: "Record a production batch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if orderID != "" {
				req.OrderID = &orderID
			}
			if notes != "" {
				req.Notes = &notes
			}
			record, err := g.client().CreateProduction(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printProductions(g, []productions.ProductionDTO{*record})
		},
	}
	create.Flags().StringVar(&req.TransferDate, "transfer", "", "transfer date YYYY-MM-DD")
	create.Flags().IntVar(&req.LarvaeTransferred, "larvae", 0, "larvae transferred")
	create.Flags().IntVar(&req.CellsProduced, "cells", 0, "cells produced")
	create.Flags().StringSliceVar(&req.Hives, "hive", nil, "hive identifier (repeatable)")
	create.Flags().StringVar(&orderID, "order", "", "order id to fulfil")
	create.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = create.MarkFlagRequired("transfer")
	_ = create.MarkFlagRequired("larvae")

	accept := &cobra.Command{
		Use:   "accept ID ACCEPTED",
		Short: "Record how many transferred larvae were accepted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid production id %q", args[0])
			}
			accepted, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("accepted cells must be a number: %w", err)
			}
			record, err := g.client().RecordAcceptance(cmd.Context(), id, accepted)
			if err != nil {
				return err
			}
			return printProductions(g, []productions.ProductionDTO{*record})
		},
	}

	cmd.AddCommand(list, create, accept)
	return cmd
}

func printProductions(g *globals, rows []productions.ProductionDTO) error {
	if g.json {
		return printJSON(g.out, rows)
	}
	table := make([][]string, len(rows))
	for i, p := range rows {
		customer := "-"
		if p.Order != nil {
			customer = p.Order.CustomerName
		}
		table[i] = []string{
			p.ID.String(),
			p.TransferDate.String(),
			strconv.Itoa(p.LarvaeTransferred),
			strconv.Itoa(p.CellsProduced),
			percent(p.AcceptanceRate),
			strconv.Itoa(p.ExtraCells),
			customer,
			string(p.Status),
			strings.Join(p.HivesUsed, ","),
		}
	}
	return printTable(g.out, []string{"ID", "TRANSFER", "LARVAE", "CELLS", "ACCEPTANCE", "EXTRA", "ORDER", "STATUS", "HIVES"}, table)
}
