package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Createadmin flags
	adminUsername string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "createadmin",
	Short: "Create or promote an administrator",
	Long: `Create a user with the admin role, or promote the existing user with the
same username and email, then send it a confirmation code for /v1/auth/token.

Examples:
  yamdb createadmin --username root --email root@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		repos := repository.NewRepository(e.db, e.logger)

		user, err := ensureAdmin(ctx, repos.User, adminUsername, adminEmail, time.Now())
		if err != nil {
			return err
		}

		auth := usecase.NewAuthService(repos, e.config, mailer.New(e.config.Email, e.logger), e.logger)
		if _, err := auth.Signup(ctx, &request.SignupRequest{Username: user.Username, Email: user.Email}); err != nil {
			return err
		}

		e.logger.Info("Administrator ready", zap.String("username", user.Username))
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s ready, confirmation code sent to %s\n", user.Username, user.Email)
		return nil
	},
}

// ensureAdmin validates the credentials, then creates the admin or promotes the
// user already holding them. Nothing is written when validation fails.
func ensureAdmin(ctx context.Context, users repository.UserRepository, username, email string, now time.Time) (*entity.User, error) {
	if errs := utils.ValidateStruct(request.SignupRequest{Username: username, Email: email}); len(errs) > 0 {
		return nil, fmt.Errorf("invalid admin credentials: %s", utils.FormatValidationErrors(errs))
	}

	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	switch {
	case user == nil:
		user = &entity.User{
			Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Username: username,
			Email:    email,
			Role:     entity.RoleAdmin,
		}
		if err := users.Create(ctx, user); err != nil {
			return nil, err
		}
	case !strings.EqualFold(user.Email, email):
		return nil, fmt.Errorf("user %s exists with a different email", username)
	default:
		user.Role = entity.RoleAdmin
		user.UpdatedAt = now
		if err := users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
}
