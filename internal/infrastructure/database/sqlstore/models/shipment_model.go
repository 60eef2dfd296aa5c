package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentModel represents the database model for Shipments
type ShipmentModel struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement"`
	ShipmentNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID           uint            `gorm:"not null;index"`
	Type               string          `gorm:"type:varchar(10);not null;index"`
	OriginCountry      string          `gorm:"type:varchar(100)"`
	DestinationCountry string          `gorm:"type:varchar(100)"`
	DepartureDate      *time.Time      `gorm:"type:date"`
	ExpectedArrival    *time.Time      `gorm:"type:date"`
	ActualArrival      *time.Time      `gorm:"type:date"`
	Status             string          `gorm:"type:varchar(20);not null;default:'Pending';index"`
	TotalWeight        float64         `gorm:"type:decimal(12,2);not null;default:0"`
	TotalValue         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'USD'"`
	CustomsCleared     bool            `gorm:"not null;default:false"`
	Notes              string          `gorm:"type:text"`
	CreatedAt          time.Time       `gorm:"not null;index"`
	UpdatedAt          time.Time       `gorm:"not null"`

	// Relations
	Client *UserModel `gorm:"foreignKey:ClientID"`
}

func (ShipmentModel) TableName() string {
	return "shipments"
}

// CargoItemModel rows are removed with their shipment.
type CargoItemModel struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	ShipmentID  uint            `gorm:"not null;index"`
	ItemName    string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Quantity    int             `gorm:"not null"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Weight      float64         `gorm:"type:decimal(12,2);not null;default:0"`
	Value       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	HSCode      string          `gorm:"column:hs_code;type:varchar(20)"`
	CreatedAt   time.Time       `gorm:"not null"`

	Shipment *ShipmentModel `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (CargoItemModel) TableName() string {
	return "cargo_items"
}

type TrackingUpdateModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ShipmentID uint      `gorm:"not null;index"`
	Location   string    `gorm:"type:varchar(255);not null"`
	Status     string    `gorm:"type:varchar(50);not null"`
	Notes      string    `gorm:"type:text"`
	UpdateDate time.Time `gorm:"type:date;not null"`
	CreatedBy  *uint     `gorm:"index"`
	CreatedAt  time.Time `gorm:"not null"`

	Shipment *ShipmentModel `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Creator  *UserModel     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

func (TrackingUpdateModel) TableName() string {
	return "tracking_updates"
}

type ShipmentDocumentModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	ShipmentID   uint      `gorm:"not null;index"`
	DocumentType string    `gorm:"type:varchar(100);not null"`
	FilePath     string    `gorm:"type:varchar(500);not null"`
	UploadedBy   *uint     `gorm:"index"`
	Notes        string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`

	Shipment *ShipmentModel `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	Uploader *UserModel     `gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL"`
}

func (ShipmentDocumentModel) TableName() string {
	return "shipment_documents"
}
