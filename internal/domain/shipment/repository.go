package shipment

import (
	"context"
	"time"
)

// Repository defines the interface for shipment repository operations
type Repository interface {
	Create(ctx context.Context, shipment *Shipment) error
	GetByID(ctx context.Context, shipmentID uint) (*Shipment, error)
	Update(ctx context.Context, shipment *Shipment) error
	Delete(ctx context.Context, shipmentID uint) error
	// UpdateStatus applies the transition only if the stored status still equals from.
	UpdateStatus(ctx context.Context, shipmentID uint, from, to Status, actualArrival *time.Time) error
	SetCustomsCleared(ctx context.Context, shipmentID uint, cleared bool) error
	List(ctx context.Context, filter *Filter) ([]*Shipment, error)
	GetStatistics(ctx context.Context) (*Statistics, error)

	AddCargoItem(ctx context.Context, item *CargoItem) error
	GetCargoItem(ctx context.Context, itemID uint) (*CargoItem, error)
	UpdateCargoItem(ctx context.Context, item *CargoItem) error
	DeleteCargoItem(ctx context.Context, itemID uint) error
	ListCargoItems(ctx context.Context, shipmentID uint) ([]*CargoItem, error)

	AddTrackingUpdate(ctx context.Context, update *TrackingUpdate) error
	ListTrackingUpdates(ctx context.Context, shipmentID uint) ([]*TrackingUpdate, error)

	AddDocument(ctx context.Context, doc *Document) error
	ListDocuments(ctx context.Context, shipmentID uint) ([]*Document, error)
	ListDocumentPaths(ctx context.Context) ([]string, error)
}

// Filter represents filtering options for listing shipments
type Filter struct {
	Status   *Status
	Type     *Type
	ClientID *uint
	Search   string
}
