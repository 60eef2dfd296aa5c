package models

import "time"

// LeaveRequestModel represents the database model for LeaveRequest
type LeaveRequestModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	UserID        uint      `gorm:"not null;index"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	Reason        string    `gorm:"type:text"`
	LeaveType     string    `gorm:"type:varchar(20);not null;default:'Other'"`
	Attachment    string    `gorm:"type:varchar(255);not null;default:''"`
	Status        string    `gorm:"type:varchar(20);not null;default:'Pending';index"`
	AdminResponse string    `gorm:"type:text;not null;default:''"`
	CreatedAt     time.Time `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}
