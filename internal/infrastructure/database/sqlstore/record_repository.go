package sqlstore

import (
	"company-data-manager/internal/domain/record"
	"company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore/models"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// recordRow is a company_records row with the linked user's role.
type recordRow struct {
	ID           uint
	UserID       *uint
	EmployeeName string
	Department   *string
	Position     *string
	Salary       decimal.NullDecimal
	HireDate     *time.Time
	Email        string
	Phone        string
	Status       string
	CreatedAt    time.Time
	UserRole     *string
}

const recordSelect = "r.id, r.user_id, r.employee_name, r.department, r.position, r.salary, " +
	"r.hire_date, r.email, r.phone, r.status, r.created_at, u.role AS user_role"

func (r *RecordRepository) Create(ctx context.Context, rec *record.EmployeeRecord) error {
	dbModel := toRecordModel(rec)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return appErrors.Storage("create record", err)
	}

	rec.ID = dbModel.ID
	rec.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *RecordRepository) CreateWithAccount(ctx context.Context, rec *record.EmployeeRecord, account *user.User) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createUser(tx, account); err != nil {
			return err
		}

		rec.UserID = &account.ID
		dbModel := toRecordModel(rec)
		if err := tx.Create(dbModel).Error; err != nil {
			return appErrors.Storage("create record", err)
		}

		rec.ID = dbModel.ID
		rec.CreatedAt = dbModel.CreatedAt
		rec.Role = account.Role

		return nil
	})
}

func (r *RecordRepository) GetByID(ctx context.Context, recordID uint) (*record.EmployeeRecord, error) {
	var row recordRow
	result := r.baseQuery(ctx).Where("r.id = ?", recordID).Limit(1).Scan(&row)

	if result.Error != nil {
		return nil, appErrors.Storage("get record", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, appErrors.NotFound("record", recordID)
	}

	return toRecordEntity(&row), nil
}

func (r *RecordRepository) EmailInUse(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.RecordModel{}).
		Where("LOWER(email) = LOWER(?) AND id <> ?", strings.TrimSpace(email), excludeID).
		Count(&count).Error
	if err != nil {
		return false, appErrors.Storage("check record email", err)
	}

	return count > 0, nil
}

func (r *RecordRepository) Update(ctx context.Context, rec *record.EmployeeRecord) error {
	dbModel := toRecordModel(rec)

	result := r.db.DB.WithContext(ctx).
		Model(&models.RecordModel{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"user_id":       dbModel.UserID,
			"employee_name": dbModel.EmployeeName,
			"department":    dbModel.Department,
			"position":      dbModel.Position,
			"salary":        dbModel.Salary,
			"hire_date":     dbModel.HireDate,
			"email":         dbModel.Email,
			"phone":         dbModel.Phone,
			"status":        dbModel.Status,
		})

	if result.Error != nil {
		return appErrors.Storage("update record", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("record", rec.ID)
	}

	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, recordID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", recordID).
		Delete(&models.RecordModel{})

	if result.Error != nil {
		return appErrors.Storage("delete record", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("record", recordID)
	}

	return nil
}

func (r *RecordRepository) List(ctx context.Context, filter *record.Filter) ([]*record.EmployeeRecord, error) {
	db := r.baseQuery(ctx)

	if filter != nil {
		if filter.Department != "" {
			db = db.Where("LOWER(r.department) = LOWER(?)", filter.Department)
		}
		if filter.Status != "" {
			db = db.Where("r.status = ?", string(filter.Status))
		}
		if filter.Role != "" {
			db = db.Where("u.role = ?", string(filter.Role))
		}
		if term := strings.TrimSpace(filter.Search); term != "" {
			search := "%" + term + "%"
			db = db.Where(
				"LOWER(r.employee_name) LIKE LOWER(?) OR LOWER(r.department) LIKE LOWER(?) "+
					"OR LOWER(r.position) LIKE LOWER(?) OR LOWER(r.email) LIKE LOWER(?)",
				search, search, search, search,
			)
		}
	}

	var rows []recordRow
	if err := db.Order("r.id DESC").Scan(&rows).Error; err != nil {
		return nil, appErrors.Storage("list records", err)
	}

	records := make([]*record.EmployeeRecord, len(rows))
	for i := range rows {
		records[i] = toRecordEntity(&rows[i])
	}

	return records, nil
}

func (r *RecordRepository) GetStatistics(ctx context.Context) (*record.Statistics, error) {
	var row struct {
		TotalRecords  int64
		Departments   int64
		AverageSalary decimal.NullDecimal
		ActiveRecords int64
	}

	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_records,
		       COUNT(DISTINCT department) AS departments,
		       AVG(salary) AS average_salary,
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active_records
		FROM company_records
	`, string(record.StatusActive)).Scan(&row).Error
	if err != nil {
		return nil, appErrors.Storage("get record statistics", err)
	}

	stats := &record.Statistics{
		TotalRecords:  row.TotalRecords,
		Departments:   row.Departments,
		ActiveRecords: row.ActiveRecords,
	}
	if row.AverageSalary.Valid {
		stats.AverageSalary = row.AverageSalary.Decimal.Round(2)
	}

	return stats, nil
}

func (r *RecordRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Table("company_records AS r").
		Select(recordSelect).
		Joins("LEFT JOIN users u ON u.id = r.user_id")
}

func toRecordModel(rec *record.EmployeeRecord) *models.RecordModel {
	m := &models.RecordModel{
		ID:           rec.ID,
		UserID:       rec.UserID,
		EmployeeName: rec.EmployeeName,
		Department:   rec.Department,
		Position:     rec.Position,
		HireDate:     rec.HireDate,
		Email:        strings.ToLower(strings.TrimSpace(rec.Email)),
		Phone:        rec.Phone,
		Status:       string(rec.Status),
		CreatedAt:    rec.CreatedAt,
	}
	if rec.Salary != nil {
		m.Salary = decimal.NewNullDecimal(*rec.Salary)
	}
	return m
}

func toRecordEntity(row *recordRow) *record.EmployeeRecord {
	rec := &record.EmployeeRecord{
		ID:           row.ID,
		UserID:       row.UserID,
		EmployeeName: row.EmployeeName,
		Department:   row.Department,
		Position:     row.Position,
		HireDate:     row.HireDate,
		Email:        row.Email,
		Phone:        row.Phone,
		Status:       record.Status(row.Status),
		CreatedAt:    row.CreatedAt,
	}
	if row.Salary.Valid {
		salary := row.Salary.Decimal
		rec.Salary = &salary
	}
	if row.UserRole != nil {
		rec.Role = user.Role(*row.UserRole)
	}
	return rec
}

var _ record.Repository = (*RecordRepository)(nil)
