package models

import "time"

// CargoRequestModel rows are removed with their cargo item.
type CargoRequestModel struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	CargoItemID      uint      `gorm:"not null;index"`
	ClientID         uint      `gorm:"not null;index"`
	RequestType      string    `gorm:"type:varchar(10);not null"`
	Reason           string    `gorm:"type:text"`
	Status           string    `gorm:"type:varchar(20);not null;default:'Pending';index"`
	EmployeeResponse string    `gorm:"type:text"`
	ProposedChange   *string   `gorm:"type:text"` // JSON encoded
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	CargoItem *CargoItemModel `gorm:"foreignKey:CargoItemID;constraint:OnDelete:CASCADE"`
	Client    *UserModel      `gorm:"foreignKey:ClientID"`
}

func (CargoRequestModel) TableName() string {
	return "cargo_requests"
}
