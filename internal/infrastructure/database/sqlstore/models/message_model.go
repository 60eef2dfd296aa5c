package models

import "time"

type MessageModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	FromUserID uint      `gorm:"not null;index"`
	ToUserID   uint      `gorm:"not null;index:idx_messages_to_read,priority:1"`
	Subject    string    `gorm:"type:varchar(255);not null"`
	Content    string    `gorm:"type:text;not null"`
	ShipmentID *uint     `gorm:"index"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_messages_to_read,priority:2"`
	CreatedAt  time.Time `gorm:"not null;index"`

	From     *UserModel     `gorm:"foreignKey:FromUserID"`
	To       *UserModel     `gorm:"foreignKey:ToUserID"`
	Shipment *ShipmentModel `gorm:"foreignKey:ShipmentID;constraint:OnDelete:SET NULL"`
}

func (MessageModel) TableName() string {
	return "messages"
}
