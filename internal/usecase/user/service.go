package user

import (
	"company-data-manager/internal/config"
	"company-data-manager/internal/domain/record"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service implements the credential store use cases
type Service struct {
	userRepo   domainUser.Repository
	recordRepo record.Repository
	config     *config.Config
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	recordRepo record.Repository,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo:   userRepo,
		recordRepo: recordRepo,
		config:     cfg,
	}
}

// CreateUser stores a new account with a fresh salt. It fails with
// DUPLICATE_EMAIL when the email is taken.
func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	u, err := newAccount(req.Email, req.Password, domainUser.Role(req.Role))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, appErrors.ErrDuplicateEmail) {
			logger.Warn("User creation with existing email",
				zap.String("email", u.Email),
				zap.String("event", "user_create_failed_duplicate_email"),
			)
		}
		return nil, err
	}

	logger.Info("User created",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
		zap.String("role", string(u.Role)),
		zap.String("event", "user_created"),
	)

	return ToUserResponse(u), nil
}

// VerifyLogin checks the password against the stored salted digest and
// returns the caller identity. Legacy digests are upgraded on success.
func (s *Service) VerifyLogin(ctx context.Context, email, password string) (*domainUser.Actor, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrNoSuchAccount
		}
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHash, password, u.Salt) {
		logger.Warn("Login attempt with invalid password",
			zap.Uint("user_id", u.ID),
			zap.String("email", u.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if utils.IsLegacyHash(u.PasswordHash) {
		s.upgradeLegacyHash(ctx, u, password)
	}

	return &domainUser.Actor{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *Service) upgradeLegacyHash(ctx context.Context, u *domainUser.User, password string) {
	hash, err := utils.HashPassword(password, u.Salt)
	if err == nil {
		err = s.userRepo.UpdatePassword(ctx, u.ID, hash, u.Salt)
	}
	if err != nil {
		logger.Error("Failed to upgrade legacy password hash",
			zap.Uint("user_id", u.ID),
			zap.Error(err),
		)
		return
	}

	logger.Info("Legacy password hash upgraded",
		zap.Uint("user_id", u.ID),
		zap.String("event", "password_hash_upgraded"),
	)
}

// Register creates an employee or client account together with its company
// record. The email must use the role's domain.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	role := domainUser.Role(req.Role)
	if role == domainUser.RoleManager {
		return nil, domainUser.ErrManagerSignup
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.Validation("password", err.Error())
	}

	email := utils.SanitizeEmail(req.Email)
	domain := s.config.Records.DomainFor(string(role))
	if !strings.HasSuffix(email, "@"+domain) {
		return nil, record.ErrEmailDomain(domain)
	}

	inUse, err := s.recordRepo.EmailInUse(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, appErrors.DuplicateEmail(email)
	}

	account, err := newAccount(email, req.Password, role)
	if err != nil {
		return nil, err
	}

	rec := &record.EmployeeRecord{
		EmployeeName: utils.SanitizeString(req.FullName),
		Email:        email,
		Status:       record.StatusActive,
	}
	if err := s.recordRepo.CreateWithAccount(ctx, rec, account); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully",
		zap.Uint("user_id", account.ID),
		zap.Uint("record_id", rec.ID),
		zap.String("email", account.Email),
		zap.String("role", string(account.Role)),
		zap.String("event", "user_registered"),
	)

	return s.issueToken(account)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	actor, err := s.VerifyLogin(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
		zap.String("role", string(u.Role)),
		zap.String("event", "login_success"),
	)

	return s.issueToken(u)
}

func (s *Service) issueToken(u *domainUser.User) (*AuthResponse, error) {
	token, expiresAt, err := utils.GenerateToken(
		u.ID,
		u.Email,
		string(u.Role),
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		User:        ToUserResponse(u),
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (s *Service) UpdateUserRole(ctx context.Context, actor domainUser.Actor, userID uint, req *UpdateRoleRequest) (*UserResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	role := domainUser.Role(req.Role)
	if !role.Valid() {
		return nil, domainUser.ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User role updated",
		zap.Uint("user_id", userID),
		zap.Uint("updated_by", actor.UserID),
		zap.String("role", string(role)),
		zap.String("event", "user_role_updated"),
	)

	return ToUserResponse(u), nil
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context, actor domainUser.Actor) ([]*UserResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses, nil
}

func (s *Service) GetProfile(ctx context.Context, actor domainUser.Actor) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func newAccount(email, password string, role domainUser.Role) (*domainUser.User, error) {
	if !role.Valid() {
		return nil, domainUser.ErrInvalidRole
	}

	salt, err := utils.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := utils.HashPassword(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &domainUser.User{
		Email:        utils.SanitizeEmail(email),
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
	}, nil
}
