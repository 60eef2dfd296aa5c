package cargorequest

import (
	domainCargo "company-data-manager/internal/domain/cargorequest"
	"time"

	"github.com/shopspring/decimal"
)

type SubmitRequest struct {
	CargoItemID    uint                   `json:"cargo_item_id" validate:"required"`
	RequestType    string                 `json:"request_type" validate:"required,oneof=Modify Remove"`
	Reason         string                 `json:"reason" validate:"required,max=2000"`
	ProposedChange *ProposedChangeRequest `json:"proposed_change"`
}

type ProposedChangeRequest struct {
	Quantity    *int             `json:"quantity" validate:"omitempty,min=1"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	Weight      *float64         `json:"weight" validate:"omitempty,gte=0"`
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
}

type ResolveRequest struct {
	Status   string `json:"status" validate:"required,oneof=Approved Rejected"`
	Response string `json:"response" validate:"omitempty,max=2000"`
}

type CargoRequestResponse struct {
	ID               uint                        `json:"id"`
	CargoItemID      uint                        `json:"cargo_item_id"`
	ItemName         string                      `json:"item_name"`
	ShipmentID       uint                        `json:"shipment_id"`
	ShipmentNumber   string                      `json:"shipment_number"`
	ClientID         uint                        `json:"client_id"`
	ClientEmail      string                      `json:"client_email,omitempty"`
	RequestType      string                      `json:"request_type"`
	Reason           string                      `json:"reason"`
	Status           string                      `json:"status"`
	EmployeeResponse string                      `json:"employee_response"`
	ProposedChange   *domainCargo.ProposedChange `json:"proposed_change,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func ToCargoRequestResponse(req *domainCargo.CargoRequest) *CargoRequestResponse {
	return &CargoRequestResponse{
		ID:               req.ID,
		CargoItemID:      req.CargoItemID,
		ItemName:         req.ItemName,
		ShipmentID:       req.ShipmentID,
		ShipmentNumber:   req.ShipmentNumber,
		ClientID:         req.ClientID,
		ClientEmail:      req.ClientEmail,
		RequestType:      string(req.RequestType),
		Reason:           req.Reason,
		Status:           string(req.Status),
		EmployeeResponse: req.EmployeeResponse,
		ProposedChange:   req.ProposedChange,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

func ToCargoRequestResponses(requests []*domainCargo.CargoRequest) []*CargoRequestResponse {
	responses := make([]*CargoRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = ToCargoRequestResponse(req)
	}
	return responses
}

func (p *ProposedChangeRequest) toDomain() *domainCargo.ProposedChange {
	if p == nil {
		return nil
	}
	return &domainCargo.ProposedChange{
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		Weight:      p.Weight,
		Value:       p.Value,
		Description: p.Description,
	}
}
