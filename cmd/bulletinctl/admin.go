package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/noah-isme/bulletin-api/internal/models"
	"github.com/noah-isme/bulletin-api/internal/repository"
	"github.com/noah-isme/bulletin-api/internal/service"
)

func newCreateAdminCommand() *cobra.Command {
	var req service.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			req.Role = models.RoleAdmin
			users := service.NewUserService(repository.NewUserRepository(rt.db), validator.New(), rt.log)
			user, err := users.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.FullName, "name", "Administrateur", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
