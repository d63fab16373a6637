package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/pkg/client"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newOrdersCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "List, book and advance customer orders"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := g.client().ListOrders(cmd.Context())
			if err != nil {
				return err
			}
			return printOrders(g, rows)
		},
	}

	var req client.CreateOrderRequest
	var transfer string
	create := &cobra.Command{
		Use:   "create",
		Short: "Book a new order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if transfer != "" {
				req.LarvaeTransferDate = &transfer
			}
			order, err := g.client().CreateOrder(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printOrders(g, []orders.OrderDTO{*order})
		},
	}
	create.Flags().StringVar(&req.CustomerName, "customer", "", "customer name")
	create.Flags().IntVar(&req.NumberOfCells, "cells", 0, "number of cells")
	create.Flags().StringVar(&req.DeliveryDate, "delivery", "", "delivery date YYYY-MM-DD")
	create.Flags().StringVar(&transfer, "transfer", "", "larvae transfer date YYYY-MM-DD (defaults to delivery)")
	_ = create.MarkFlagRequired("customer")
	_ = create.MarkFlagRequired("cells")
	_ = create.MarkFlagRequired("delivery")

	var target string
	advance := &cobra.Command{
		Use:   "advance ID",
		Short: "Move an order to its next status, or to --to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid order id %q", args[0])
			}
			c := g.client()
			status := enums.OrderStatus(strings.ToLower(target))
			if status == "" {
				order, err := c.GetOrder(cmd.Context(), id)
				if err != nil {
					return err
				}
				if order == nil {
					return fmt.Errorf("order %s not found", id)
				}
				if order.NextStatus == nil {
					return fmt.Errorf("order %s is %s and cannot advance", id, order.Status)
				}
				status = *order.NextStatus
			}
			updated, err := c.UpdateOrderStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			return printOrders(g, []orders.OrderDTO{*updated})
		},
	}
	advance.Flags().StringVar(&target, "to", "", "explicit target status")

	cmd.AddCommand(list, create, advance)
	return cmd
}

func printOrders(g *globals, rows []orders.OrderDTO) error {
	if g.json {
		return printJSON(g.out, rows)
	}
	table := make([][]string, len(rows))
	for i, o := range rows {
		next := "-"
		if o.NextStatus != nil {
			next = string(*o.NextStatus)
		}
		table[i] = []string{
			o.ID.String(),
			o.CustomerName,
			strconv.Itoa(o.NumberOfCells),
			o.LarvaeTransferDate.String(),
			o.DeliveryDate.String(),
			string(o.Status),
			next,
		}
	}
	return printTable(g.out, []string{"ID", "CUSTOMER", "CELLS", "TRANSFER", "DELIVERY", "STATUS", "NEXT"}, table)
}
