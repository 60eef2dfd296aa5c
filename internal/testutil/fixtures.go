package testutil

import (
	"company-data-manager/internal/config"
	"company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/pkg/utils"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Config returns settings suitable for service tests.
func Config(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{Environment: "test"},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
		Storage: config.StorageConfig{
			UploadDir:      t.TempDir(),
			DocumentDir:    t.TempDir(),
			MaxUploadBytes: 1 << 20,
		},
		Bootstrap: config.BootstrapConfig{
			ManagerEmail:    "boss@manager.com",
			CredentialsFile: t.TempDir() + "/manager_credentials.txt",
		},
		Records: config.RecordsConfig{
			EmployeeDomain: "employee.com",
			ManagerDomain:  "manager.com",
			ClientDomain:   "client.com",
		},
		CargoRequests: config.CargoRequestsConfig{
			ModifyApprovalMode: config.ModifyApprovalAdvisory,
		},
		RateLimit: config.RateLimitConfig{
			GeneralRPS:   1000,
			GeneralBurst: 1000,
		},
	}
}

// CreateUser inserts an account with the given password and returns it as an actor.
func CreateUser(t *testing.T, db *sqlstore.DB, email, password string, role user.Role) user.Actor {
	t.Helper()

	salt, err := utils.GenerateSalt()
	require.NoError(t, err)
	hash, err := utils.HashPassword(password, salt)
	require.NoError(t, err)

	u := &user.User{Email: email, PasswordHash: hash, Salt: salt, Role: role}
	require.NoError(t, sqlstore.NewUserRepository(db).Create(context.Background(), u))

	return user.Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}
