package user

import (
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/testutil"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *sqlstore.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	svc := NewService(
		sqlstore.NewUserRepository(db),
		sqlstore.NewRecordRepository(db),
		testutil.Config(t),
	)
	return svc, db
}

func TestCreateUserThenVerifyLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		email    string
		password string
		role     domainUser.Role
	}{
		{"ana@employee.com", "s3cretpass", domainUser.RoleEmployee},
		{"Client.One@Client.com", "another-pass-1", domainUser.RoleClient},
		{"boss@manager.com", "x", domainUser.RoleManager},
	}

	for _, tc := range cases {
		created, err := svc.CreateUser(ctx, &CreateUserRequest{Email: tc.email, Password: tc.password, Role: string(tc.role)})
		require.NoError(t, err)

		actor, err := svc.VerifyLogin(ctx, tc.email, tc.password)
		require.NoError(t, err)
		assert.Equal(t, created.ID, actor.UserID)
		assert.Equal(t, tc.role, actor.Role)
		assert.Equal(t, strings.ToLower(tc.email), actor.Email)
	}
}

func TestVerifyLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "ana@employee.com", Password: "right-pass-1", Role: "employee"})
	require.NoError(t, err)

	_, err = svc.VerifyLogin(ctx, "ana@employee.com", "wrong-pass-1")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.VerifyLogin(ctx, "ana@employee.com", "right-pass-1 ")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.VerifyLogin(ctx, "nobody@employee.com", "right-pass-1")
	assert.ErrorIs(t, err, appErrors.ErrNoSuchAccount)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &CreateUserRequest{Email: "ana@employee.com", Password: "pass-1234", Role: "employee"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, &CreateUserRequest{Email: "ANA@employee.com", Password: "pass-5678", Role: "client"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), &CreateUserRequest{Email: "x@employee.com", Password: "pass-1234", Role: "admin"})
	require.ErrorIs(t, err, appErrors.ErrValidationFailed)

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "role", appErr.Field)
}

func TestVerifyLoginUpgradesLegacyHash(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	repo := sqlstore.NewUserRepository(db)

	salt := "00112233445566778899aabbccddeeff"
	sum := sha256.Sum256([]byte("legacy-pass-1" + salt))
	legacy := &domainUser.User{
		Email:        "old@employee.com",
		PasswordHash: hex.EncodeToString(sum[:]),
		Salt:         salt,
		Role:         domainUser.RoleEmployee,
	}
	require.NoError(t, repo.Create(ctx, legacy))

	_, err := svc.VerifyLogin(ctx, "old@employee.com", "legacy-pass-1")
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.False(t, utils.IsLegacyHash(stored.PasswordHash))
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))

	_, err = svc.VerifyLogin(ctx, "old@employee.com", "legacy-pass-1")
	assert.NoError(t, err)
}

func TestRegister(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		Email:           "new@client.com",
		Password:        "welcome123",
		ConfirmPassword: "welcome123",
		FullName:        "New Client",
		Role:            "client",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "client", resp.User.Role)

	claims, err := utils.ValidateToken(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	records, err := sqlstore.NewRecordRepository(db).List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new@client.com", records[0].Email)
	require.NotNil(t, records[0].UserID)
	assert.Equal(t, resp.User.ID, *records[0].UserID)
	assert.Equal(t, domainUser.RoleClient, records[0].Role)
}

func TestRegisterRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := RegisterRequest{Password: "welcome123", ConfirmPassword: "welcome123", FullName: "Someone"}

	manager := base
	manager.Email, manager.Role = "me@manager.com", "manager"
	_, err := svc.Register(ctx, &manager)
	assert.ErrorIs(t, err, domainUser.ErrManagerSignup)

	wrongDomain := base
	wrongDomain.Email, wrongDomain.Role = "me@gmail.com", "employee"
	_, err = svc.Register(ctx, &wrongDomain)
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	weak := base
	weak.Email, weak.Role = "me@employee.com", "employee"
	weak.Password, weak.ConfirmPassword = "onlyletters", "onlyletters"
	_, err = svc.Register(ctx, &weak)
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
}

func TestUpdateUserRoleRequiresManager(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleManager)
	employee := testutil.CreateUser(t, db, "ana@employee.com", "pass-1234", domainUser.RoleEmployee)

	_, err := svc.UpdateUserRole(ctx, employee, employee.UserID, &UpdateRoleRequest{Role: "manager"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	updated, err := svc.UpdateUserRole(ctx, manager, employee.UserID, &UpdateRoleRequest{Role: "client"})
	require.NoError(t, err)
	assert.Equal(t, "client", updated.Role)

	_, err = svc.UpdateUserRole(ctx, manager, 9999, &UpdateRoleRequest{Role: "client"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestListUsersNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	manager := testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleManager)
	testutil.CreateUser(t, db, "a@employee.com", "pass-1234", domainUser.RoleEmployee)
	last := testutil.CreateUser(t, db, "b@client.com", "pass-1234", domainUser.RoleClient)

	users, err := svc.ListUsers(ctx, manager)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, last.UserID, users[0].ID)

	_, err = svc.ListUsers(ctx, last)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestEnsureManagerIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureManager(ctx)
	require.NoError(t, err)
	assert.True(t, first.Created)

	info, err := os.Stat(first.CredentialsFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(first.CredentialsFile)
	require.NoError(t, err)
	var email, password string
	for _, line := range strings.Split(string(raw), "\n") {
		if v, ok := strings.CutPrefix(line, "email: "); ok {
			email = v
		}
		if v, ok := strings.CutPrefix(line, "password: "); ok {
			password = v
		}
	}
	actor, err := svc.VerifyLogin(ctx, email, password)
	require.NoError(t, err)
	assert.Equal(t, domainUser.RoleManager, actor.Role)

	second, err := svc.EnsureManager(ctx)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.Promoted)

	managers, err := sqlstore.NewUserRepository(db).ListByRoles(ctx, domainUser.RoleManager)
	require.NoError(t, err)
	assert.Len(t, managers, 1)
}

func TestEnsureManagerPromotesExistingAccount(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	existing := testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleEmployee)

	result, err := svc.EnsureManager(ctx)
	require.NoError(t, err)
	assert.True(t, result.Promoted)
	assert.False(t, result.Created)

	actor, err := svc.VerifyLogin(ctx, "boss@manager.com", "pass-1234")
	require.NoError(t, err)
	assert.Equal(t, existing.UserID, actor.UserID)
	assert.Equal(t, domainUser.RoleManager, actor.Role)
}
