package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordModel represents the database model for EmployeeRecord.
// Email is not unique at the database level; the record service enforces it.
type RecordModel struct {
	ID           uint                `gorm:"primaryKey;autoIncrement"`
	UserID       *uint               `gorm:"index"`
	EmployeeName string              `gorm:"type:varchar(255);not null"`
	Department   *string             `gorm:"type:varchar(100);index"`
	Position     *string             `gorm:"type:varchar(100)"`
	Salary       decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	HireDate     *time.Time          `gorm:"type:date"`
	Email        string              `gorm:"type:varchar(255);not null;index"`
	Phone        string              `gorm:"type:varchar(30)"`
	Status       string              `gorm:"type:varchar(20);not null;default:'Active';index"`
	CreatedAt    time.Time           `gorm:"not null;index"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

func (RecordModel) TableName() string {
	return "company_records"
}
