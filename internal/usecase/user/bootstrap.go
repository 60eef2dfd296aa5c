package user

import (
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// EnsureManager makes sure the configured manager account exists. A
// non-manager account with that email is promoted; a missing one is created
// with a random password that is written to the credentials file. Calling it
// again once the manager exists changes nothing.
func (s *Service) EnsureManager(ctx context.Context) (*BootstrapResult, error) {
	email := utils.SanitizeEmail(s.config.Bootstrap.ManagerEmail)
	if !utils.IsValidEmail(email) {
		return nil, appErrors.Validation("email", fmt.Sprintf("bootstrap manager email %q is invalid", email))
	}

	result := &BootstrapResult{Email: email}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domainUser.RoleManager {
			return result, nil
		}
		if err := s.userRepo.UpdateRole(ctx, existing.ID, domainUser.RoleManager); err != nil {
			return nil, err
		}
		result.Promoted = true

		logger.Info("Bootstrap account promoted to manager",
			zap.Uint("user_id", existing.ID),
			zap.String("email", email),
			zap.String("event", "manager_promoted"),
		)
		return result, nil
	case !errors.Is(err, appErrors.ErrNotFound):
		return nil, err
	}

	password, err := utils.GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate manager password: %w", err)
	}

	account, err := newAccount(email, password, domainUser.RoleManager)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	result.Created = true

	path := s.config.Bootstrap.CredentialsFile
	if path != "" {
		if err := writeCredentials(path, email, password); err != nil {
			return nil, err
		}
		result.CredentialsFile = path
	}

	logger.Info("Bootstrap manager created",
		zap.Uint("user_id", account.ID),
		zap.String("email", email),
		zap.String("credentials_file", path),
		zap.String("event", "manager_created"),
	)

	return result, nil
}

func writeCredentials(path, email, password string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create credentials directory: %w", err)
		}
	}

	content := fmt.Sprintf("email: %s\npassword: %s\n", email, password)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write manager credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o600)
}
