package sqlstore

import (
	"company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore/models"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return createUser(r.db.DB.WithContext(ctx), u)
}

// createUser is shared with record creation, which inserts the account inside
// its own transaction.
func createUser(tx *gorm.DB, u *user.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	dbModel := toUserModel(u)
	if err := tx.Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErrors.DuplicateEmail(u.Email)
		}
		return appErrors.Storage("create user", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", userID).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.NotFound("user", userID)
	}
	if err != nil {
		return nil, appErrors.Storage("get user", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.NotFound("user", email)
	}
	if err != nil {
		return nil, appErrors.Storage("get user by email", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	return r.ListByRoles(ctx)
}

// ListByRoles returns users newest first, restricted to roles when any are given.
func (r *UserRepository) ListByRoles(ctx context.Context, roles ...user.Role) ([]*user.User, error) {
	var dbModels []models.UserModel

	db := r.db.DB.WithContext(ctx).Model(&models.UserModel{})
	if len(roles) > 0 {
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		db = db.Where("role IN ?", names)
	}

	if err := db.Order("created_at DESC, id DESC").Find(&dbModels).Error; err != nil {
		return nil, appErrors.Storage("list users", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID uint, role user.Role) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("role", string(role))

	if result.Error != nil {
		return appErrors.Storage("update user role", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("user", userID)
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash, salt string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"salt":          salt,
		})

	if result.Error != nil {
		return appErrors.Storage("update password", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("user", userID)
	}

	return nil
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Salt:         m.Salt,
		Role:         user.Role(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

var _ user.Repository = (*UserRepository)(nil)
