package main

import (
	"fmt"
	"strconv"

	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/pkg/client"
	"github.com/spf13/cobra"
)

func newStockCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Inspect and sell stock packages"}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List sellable packages, or every package with --all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := g.client()
			var (
				rows []stock.PackageDTO
				err  error
			)
			if all {
				rows, err = c.ListAllStock(cmd.Context())
			} else {
				rows, err = c.ListAvailableStock(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printPackages(g, rows)
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include sold out and expired packages")

	var req client.SellRequest
	sell := &cobra.Command{
		Use:   "sell",
		Short: "Sell cells out of a package",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := g.client().SellStock(cmd.Context(), req)
			if err != nil {
				return err
			}
			if g.json {
				return printJSON(g.out, result)
			}
			fmt.Fprintf(g.out, "sold %d cells to %s, %d left in package %s\n",
				result.Sale.CellsSold, result.Sale.CustomerName, result.Package.AvailableCells, result.Package.ID)
			return nil
		},
	}
	sell.Flags().StringVar(&req.PackageID, "package", "", "package id")
	sell.Flags().StringVar(&req.CustomerName, "customer", "", "buyer name")
	sell.Flags().IntVar(&req.CellsToSell, "cells", 0, "cells to sell")
	_ = sell.MarkFlagRequired("package")
	_ = sell.MarkFlagRequired("customer")
	_ = sell.MarkFlagRequired("cells")

	cmd.AddCommand(list, sell)
	return cmd
}

func printPackages(g *globals, rows []stock.PackageDTO) error {
	if g.json {
		return printJSON(g.out, rows)
	}
	table := make([][]string, len(rows))
	for i, p := range rows {
		table[i] = []string{
			p.ID.String(),
			p.ProductionDate.String(),
			p.ExpirationDate.String(),
			strconv.Itoa(p.AvailableCells) + "/" + strconv.Itoa(p.TotalCells),
			strconv.Itoa(p.DaysLeft),
			p.Badge,
		}
	}
	return printTable(g.out, []string{"ID", "PRODUCED", "EXPIRES", "AVAILABLE", "DAYS LEFT", "BADGE"}, table)
}
