package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alanhoffer/hf-dashboard/pkg/client"
	"github.com/spf13/cobra"
)

func newExportCmd(g *globals) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:       "export orders|productions",
		Short:     "Download an export as csv or pdf",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"orders", "productions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			var (
				file *client.File
				err  error
			)
			if args[0] == "orders" {
				file, err = c.ExportOrders(cmd.Context(), format)
			} else {
				file, err = c.ExportProductions(cmd.Context(), format)
			}
			if err != nil {
				return err
			}

			target := out
			if target == "" {
				target = file.Filename
			}
			if target == "" {
				target = args[0] + "." + format
			}
			if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
				target = filepath.Join(target, file.Filename)
			}
			if err := os.WriteFile(target, file.Body, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(g.out, "wrote %d bytes to %s\n", len(file.Body), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or pdf")
	cmd.Flags().StringVar(&out, "out", "", "output file or directory (default: server filename)")
	return cmd
}
