package shipment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeImport Type = "Import"
	TypeExport Type = "Export"
)

// Status represents the status of a shipment
type Status string

const (
	StatusPending   Status = "Pending"
	StatusInTransit Status = "In Transit"
	StatusCustoms   Status = "Customs"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Shipment represents an import or export consignment of a client.
type Shipment struct {
	ID                 uint
	ShipmentNumber     string
	ClientID           uint
	ClientEmail        string
	Type               Type
	OriginCountry      string
	DestinationCountry string
	DepartureDate      *time.Time
	ExpectedArrival    *time.Time
	ActualArrival      *time.Time
	Status             Status
	TotalWeight        float64
	TotalValue         decimal.Decimal
	Currency           string
	CustomsCleared     bool
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CargoItem is a line item of goods owned by a shipment.
type CargoItem struct {
	ID          uint
	ShipmentID  uint
	ItemName    string
	Description string
	Quantity    int
	Unit        string
	Weight      float64
	Value       decimal.Decimal
	HSCode      string
	CreatedAt   time.Time
}

// TrackingUpdate is an append-only entry of a shipment's audit trail.
type TrackingUpdate struct {
	ID             uint
	ShipmentID     uint
	Location       string
	Status         string
	Notes          string
	UpdateDate     time.Time
	CreatedBy      *uint
	CreatedByEmail string
	CreatedAt      time.Time
}

type Document struct {
	ID              uint
	ShipmentID      uint
	DocumentType    string
	FilePath        string
	UploadedBy      *uint
	UploadedByEmail string
	Notes           string
	CreatedAt       time.Time
}

// Statistics summarises all shipments.
type Statistics struct {
	TotalShipments int64           `json:"total_shipments"`
	Imports        int64           `json:"imports"`
	Exports        int64           `json:"exports"`
	InTransit      int64           `json:"in_transit"`
	TotalValue     decimal.Decimal `json:"total_value"`
}
