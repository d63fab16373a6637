package main

import (
	"fmt"
	"os"

	"github.com/alanhoffer/hf-dashboard/internal/users"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/security"
	"github.com/spf13/cobra"
)

// users create talks to the database directly so the first admin can be
// provisioned before anyone can log in.
func newUsersCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Provision console accounts"}

	var input users.CreateUserInput
	var role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account directly in the database (uses HF_DB_* settings)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Password == "" {
				input.Password = os.Getenv("HF_USER_PASSWORD")
			}
			generated := input.Password == ""
			if generated {
				temp, err := security.GenerateTempPassword(16)
				if err != nil {
					return err
				}
				input.Password = temp
			}
			input.Role = enums.UserRole(role)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logg := logger.New(logger.Options{
				ServiceName: "hfctl",
				Level:       logger.ParseLevel(cfg.App.LogLevel),
				Output:      cmd.ErrOrStderr(),
			})
			ctx := cmd.Context()

			dbClient, err := db.New(ctx, cfg.DB, logg)
			if err != nil {
				return err
			}
			defer dbClient.Close()

			svc, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
			if err != nil {
				return err
			}
			user, err := svc.Create(ctx, input)
			if err != nil {
				return err
			}
			if g.json {
				out := map[string]any{"user": user}
				if generated {
					out["temporary_password"] = input.Password
				}
				return printJSON(g.out, out)
			}
			fmt.Fprintf(g.out, "created %s %s (%s)\n", user.Role, user.Email, user.ID)
			if generated {
				fmt.Fprintf(g.out, "temporary password: %s\n", input.Password)
			}
			return nil
		},
	}
	create.Flags().StringVar(&input.Email, "email", "", "account email")
	create.Flags().StringVar(&input.Name, "name", "", "display name")
	create.Flags().StringVar(&input.Password, "password", "", "initial password (or HF_USER_PASSWORD; generated when both are empty)")
	create.Flags().StringVar(&role, "role", string(enums.UserRoleOperator), "admin or operator")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}
