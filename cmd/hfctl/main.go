package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alanhoffer/hf-dashboard/pkg/client"
	"github.com/alanhoffer/hf-dashboard/pkg/env"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:8080/api"

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "hfctl:", err)
		os.Exit(1)
	}
}

type globals struct {
	apiURL  string
	token   string
	timeout time.Duration
	json    bool
	out     io.Writer
}

func (g *globals) client() *client.Client {
	return client.New(client.Config{BaseURL: g.apiURL, Token: g.token, Timeout: g.timeout})
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{out: out}

	root := &cobra.Command{
		Use:           "hfctl",
		Short:         "Operate the queen cell console from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&g.apiURL, "api", env.Get("HF_API_URL", defaultAPIURL), "API base URL including /api")
	root.PersistentFlags().StringVar(&g.token, "token", env.Get("HF_API_TOKEN", ""), "bearer access token")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 15*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVar(&g.json, "json", false, "print raw JSON instead of tables")

	root.AddCommand(
		newLoginCmd(g),
		newOrdersCmd(g),
		newProductionsCmd(g),
		newStockCmd(g),
		newDashboardCmd(g),
		newExportCmd(g),
		newUsersCmd(g),
	)
	return root
}

func newLoginCmd(g *globals) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token for HF_API_TOKEN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("HF_API_PASSWORD")
			}
			resp, err := g.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if g.json {
				return printJSON(g.out, resp)
			}
			fmt.Fprintf(g.out, "logged in as %s (%s)\n", resp.User.Email, resp.User.Role)
			fmt.Fprintf(g.out, "export HF_API_TOKEN=%s\n", resp.AccessToken)
			fmt.Fprintf(g.out, "refresh token: %s\n", resp.RefreshToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or HF_API_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
