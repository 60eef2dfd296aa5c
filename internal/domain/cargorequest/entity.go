package cargorequest

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeModify Type = "Modify"
	TypeRemove Type = "Remove"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ProposedChange carries the cargo item fields a Modify request wants changed.
type ProposedChange struct {
	Quantity    *int             `json:"quantity,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Weight      *float64         `json:"weight,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (p *ProposedChange) IsEmpty() bool {
	return p == nil || (p.Quantity == nil && p.Unit == nil && p.Weight == nil && p.Value == nil && p.Description == nil)
}

type CargoRequest struct {
	ID               uint
	CargoItemID      uint
	ClientID         uint
	RequestType      Type
	Reason           string
	Status           Status
	EmployeeResponse string
	ProposedChange   *ProposedChange
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined for listings.
	ItemName       string
	ShipmentID     uint
	ShipmentNumber string
	ClientEmail    string
}

// Resolution is a staff decision on a pending request. Notice is stored in
// the client's inbox in the same transaction.
type Resolution struct {
	RequestID   uint
	Status      Status
	Response    string
	ResolvedBy  uint
	ApplyModify bool
	Notice      NoticeFunc
}

// NoticeFunc renders the inbox subject and body for a resolved request.
type NoticeFunc func(req *CargoRequest) (subject, content string)
