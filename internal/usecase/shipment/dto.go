package shipment

import (
	domainShipment "company-data-manager/internal/domain/shipment"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs
type CreateShipmentRequest struct {
	ShipmentNumber     string          `json:"shipment_number" validate:"required,max=50"`
	ClientID           uint            `json:"client_id" validate:"required"`
	Type               string          `json:"type" validate:"required,oneof=Import Export"`
	OriginCountry      string          `json:"origin_country" validate:"required,max=100"`
	DestinationCountry string          `json:"destination_country" validate:"required,max=100"`
	DepartureDate      string          `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	ExpectedArrival    string          `json:"expected_arrival" validate:"omitempty,datetime=2006-01-02"`
	TotalWeight        float64         `json:"total_weight" validate:"gte=0"`
	TotalValue         decimal.Decimal `json:"total_value"`
	Currency           string          `json:"currency" validate:"omitempty,len=3"`
	Notes              string          `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateShipmentRequest edits descriptive fields. Status has its own operation.
type UpdateShipmentRequest struct {
	Type               *string          `json:"type" validate:"omitempty,oneof=Import Export"`
	OriginCountry      *string          `json:"origin_country" validate:"omitempty,max=100"`
	DestinationCountry *string          `json:"destination_country" validate:"omitempty,max=100"`
	DepartureDate      *string          `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	ExpectedArrival    *string          `json:"expected_arrival" validate:"omitempty,datetime=2006-01-02"`
	TotalWeight        *float64         `json:"total_weight" validate:"omitempty,gte=0"`
	TotalValue         *decimal.Decimal `json:"total_value"`
	Currency           *string          `json:"currency" validate:"omitempty,len=3"`
	Notes              *string          `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status        string `json:"status" validate:"required,oneof=Pending 'In Transit' Customs Delivered Cancelled"`
	ActualArrival string `json:"actual_arrival" validate:"omitempty,datetime=2006-01-02"`
}

type CustomsRequest struct {
	Cleared bool `json:"cleared"`
}

type ShipmentFilterRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=Pending 'In Transit' Customs Delivered Cancelled"`
	Type     string `form:"type" validate:"omitempty,oneof=Import Export"`
	ClientID *uint  `form:"client_id"`
	Search   string `form:"search"`
}

type CargoItemRequest struct {
	ItemName    string          `json:"item_name" validate:"required,max=255"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	Unit        string          `json:"unit" validate:"omitempty,max=20"`
	Weight      float64         `json:"weight" validate:"gte=0"`
	Value       decimal.Decimal `json:"value"`
	HSCode      string          `json:"hs_code" validate:"omitempty,max=20"`
}

type TrackingUpdateRequest struct {
	Location   string `json:"location" validate:"required,max=255"`
	Status     string `json:"status" validate:"required,max=50"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
	UpdateDate string `json:"update_date" validate:"required,datetime=2006-01-02"`
}

type DocumentRequest struct {
	DocumentType string `json:"document_type" form:"document_type" validate:"required,max=100"`
	Notes        string `json:"notes" form:"notes" validate:"omitempty,max=2000"`
}

// Upload carries the bytes of a shipment document.
type Upload struct {
	Name   string
	Reader io.Reader
}

// Response DTOs
type ShipmentResponse struct {
	ID                 uint            `json:"id"`
	ShipmentNumber     string          `json:"shipment_number"`
	ClientID           uint            `json:"client_id"`
	ClientEmail        string          `json:"client_email,omitempty"`
	Type               string          `json:"type"`
	OriginCountry      string          `json:"origin_country"`
	DestinationCountry string          `json:"destination_country"`
	DepartureDate      *string         `json:"departure_date"`
	ExpectedArrival    *string         `json:"expected_arrival"`
	ActualArrival      *string         `json:"actual_arrival"`
	Status             string          `json:"status"`
	TotalWeight        float64         `json:"total_weight"`
	TotalValue         decimal.Decimal `json:"total_value"`
	Currency           string          `json:"currency"`
	CustomsCleared     bool            `json:"customs_cleared"`
	Notes              string          `json:"notes"`
	AllowedTransitions []string        `json:"allowed_transitions"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type ShipmentDetailResponse struct {
	*ShipmentResponse
	CargoItems      []*CargoItemResponse      `json:"cargo_items"`
	TrackingUpdates []*TrackingUpdateResponse `json:"tracking_updates"`
	Documents       []*DocumentResponse       `json:"documents"`
}

type CargoItemResponse struct {
	ID          uint            `json:"id"`
	ShipmentID  uint            `json:"shipment_id"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Unit        string          `json:"unit"`
	Weight      float64         `json:"weight"`
	Value       decimal.Decimal `json:"value"`
	HSCode      string          `json:"hs_code"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TrackingUpdateResponse struct {
	ID             uint      `json:"id"`
	ShipmentID     uint      `json:"shipment_id"`
	Location       string    `json:"location"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	UpdateDate     string    `json:"update_date"`
	UpdatedByEmail string    `json:"updated_by_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type DocumentResponse struct {
	ID              uint      `json:"id"`
	ShipmentID      uint      `json:"shipment_id"`
	DocumentType    string    `json:"document_type"`
	FileName        string    `json:"file_name"`
	ContentType     string    `json:"content_type,omitempty"`
	UploadedByEmail string    `json:"uploaded_by_email,omitempty"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Conversion functions
func ToShipmentResponse(s *domainShipment.Shipment) *ShipmentResponse {
	if s == nil {
		return nil
	}

	allowed := GetAllowedTransitions(s.Status)
	transitions := make([]string, len(allowed))
	for i, st := range allowed {
		transitions[i] = string(st)
	}

	return &ShipmentResponse{
		ID:                 s.ID,
		ShipmentNumber:     s.ShipmentNumber,
		ClientID:           s.ClientID,
		ClientEmail:        s.ClientEmail,
		Type:               string(s.Type),
		OriginCountry:      s.OriginCountry,
		DestinationCountry: s.DestinationCountry,
		DepartureDate:      formatDate(s.DepartureDate),
		ExpectedArrival:    formatDate(s.ExpectedArrival),
		ActualArrival:      formatDate(s.ActualArrival),
		Status:             string(s.Status),
		TotalWeight:        s.TotalWeight,
		TotalValue:         s.TotalValue,
		Currency:           s.Currency,
		CustomsCleared:     s.CustomsCleared,
		Notes:              s.Notes,
		AllowedTransitions: transitions,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func ToCargoItemResponse(item *domainShipment.CargoItem) *CargoItemResponse {
	return &CargoItemResponse{
		ID:          item.ID,
		ShipmentID:  item.ShipmentID,
		ItemName:    item.ItemName,
		Description: item.Description,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		Weight:      item.Weight,
		Value:       item.Value,
		HSCode:      item.HSCode,
		CreatedAt:   item.CreatedAt,
	}
}

func ToTrackingUpdateResponse(u *domainShipment.TrackingUpdate) *TrackingUpdateResponse {
	return &TrackingUpdateResponse{
		ID:             u.ID,
		ShipmentID:     u.ShipmentID,
		Location:       u.Location,
		Status:         u.Status,
		Notes:          u.Notes,
		UpdateDate:     u.UpdateDate.Format(dateLayout),
		UpdatedByEmail: u.CreatedByEmail,
		CreatedAt:      u.CreatedAt,
	}
}

func ToDocumentResponse(d *domainShipment.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:              d.ID,
		ShipmentID:      d.ShipmentID,
		DocumentType:    d.DocumentType,
		FileName:        d.FilePath,
		UploadedByEmail: d.UploadedByEmail,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
	}
}

func ToDomainFilter(req *ShipmentFilterRequest) *domainShipment.Filter {
	filter := &domainShipment.Filter{}
	if req == nil {
		return filter
	}
	if req.Status != "" {
		status := domainShipment.Status(req.Status)
		filter.Status = &status
	}
	if req.Type != "" {
		t := domainShipment.Type(req.Type)
		filter.Type = &t
	}
	filter.ClientID = req.ClientID
	filter.Search = req.Search
	return filter
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
