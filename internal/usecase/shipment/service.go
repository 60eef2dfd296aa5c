package shipment

import (
	domainShipment "company-data-manager/internal/domain/shipment"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/events"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

var errNotShipmentOwner = appErrors.Unauthorized("shipment does not belong to you")

// FileStore is where shipment documents are kept.
type FileStore interface {
	Save(ctx context.Context, prefix, originalName string, r io.Reader) (*storage.StoredFile, error)
	Open(name string) (*os.File, string, error)
	Remove(name string) error
}

// Service implements shipment use cases
type Service struct {
	shipmentRepo domainShipment.Repository
	userRepo     domainUser.Repository
	publisher    events.Publisher
	documents    FileStore
}

// NewService creates a new shipment service
func NewService(
	shipmentRepo domainShipment.Repository,
	userRepo domainUser.Repository,
	publisher events.Publisher,
	documents FileStore,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		shipmentRepo: shipmentRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		documents:    documents,
	}
}

func (s *Service) CreateShipment(ctx context.Context, actor domainUser.Actor, req *CreateShipmentRequest) (*ShipmentResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}
	if err := validateMoney("total_value", req.TotalValue); err != nil {
		return nil, err
	}

	client, err := s.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, domainShipment.ErrClientRequired
		}
		return nil, err
	}
	if client.Role != domainUser.RoleClient {
		return nil, domainShipment.ErrClientRequired
	}

	departure, err := parseDate("departure_date", req.DepartureDate)
	if err != nil {
		return nil, err
	}
	expected, err := parseDate("expected_arrival", req.ExpectedArrival)
	if err != nil {
		return nil, err
	}
	if err := ValidateTimeRange(departure, expected); err != nil {
		return nil, err
	}

	shipment := &domainShipment.Shipment{
		ShipmentNumber:     strings.TrimSpace(req.ShipmentNumber),
		ClientID:           client.ID,
		ClientEmail:        client.Email,
		Type:               domainShipment.Type(req.Type),
		OriginCountry:      utils.SanitizeString(req.OriginCountry),
		DestinationCountry: utils.SanitizeString(req.DestinationCountry),
		DepartureDate:      departure,
		ExpectedArrival:    expected,
		Status:             domainShipment.StatusPending,
		TotalWeight:        req.TotalWeight,
		TotalValue:         req.TotalValue,
		Currency:           strings.ToUpper(req.Currency),
		Notes:              utils.SanitizeText(req.Notes),
	}

	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		if errors.Is(err, appErrors.ErrValidationFailed) {
			logger.Warn("Shipment creation rejected",
				zap.String("shipment_number", shipment.ShipmentNumber),
				zap.Error(err),
				zap.String("event", "shipment_create_rejected"),
			)
		}
		return nil, err
	}

	logger.Info("Shipment created",
		zap.Uint("shipment_id", shipment.ID),
		zap.String("shipment_number", shipment.ShipmentNumber),
		zap.Uint("client_id", shipment.ClientID),
		zap.Uint("created_by", actor.UserID),
		zap.String("event", "shipment_created"),
	)

	return ToShipmentResponse(shipment), nil
}

// GetShipment returns the shipment with its cargo, tracking trail and
// documents. Clients only see their own shipments.
func (s *Service) GetShipment(ctx context.Context, actor domainUser.Actor, shipmentID uint) (*ShipmentDetailResponse, error) {
	shipment, err := s.visibleShipment(ctx, actor, shipmentID)
	if err != nil {
		return nil, err
	}

	items, err := s.shipmentRepo.ListCargoItems(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	updates, err := s.shipmentRepo.ListTrackingUpdates(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	docs, err := s.shipmentRepo.ListDocuments(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	detail := &ShipmentDetailResponse{
		ShipmentResponse: ToShipmentResponse(shipment),
		CargoItems:       make([]*CargoItemResponse, len(items)),
		TrackingUpdates:  make([]*TrackingUpdateResponse, len(updates)),
		Documents:        make([]*DocumentResponse, len(docs)),
	}
	for i, item := range items {
		detail.CargoItems[i] = ToCargoItemResponse(item)
	}
	for i, u := range updates {
		detail.TrackingUpdates[i] = ToTrackingUpdateResponse(u)
	}
	for i, d := range docs {
		detail.Documents[i] = ToDocumentResponse(d)
	}

	return detail, nil
}

// ListShipments returns shipments newest first. A client's listing is always
// restricted to their own shipments.
func (s *Service) ListShipments(ctx context.Context, actor domainUser.Actor, req *ShipmentFilterRequest) ([]*ShipmentResponse, error) {
	if req != nil {
		if err := utils.ValidateStruct(req); err != nil {
			return nil, utils.ValidationError(err)
		}
	}

	filter := ToDomainFilter(req)
	if !actor.IsStaff() {
		clientID := actor.UserID
		filter.ClientID = &clientID
	}

	shipments, err := s.shipmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*ShipmentResponse, len(shipments))
	for i, shipment := range shipments {
		resp := ToShipmentResponse(shipment)
		if !actor.IsStaff() {
			resp.ClientEmail = ""
		}
		responses[i] = resp
	}
	return responses, nil
}

func (s *Service) UpdateShipment(ctx context.Context, actor domainUser.Actor, shipmentID uint, req *UpdateShipmentRequest) (*ShipmentResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		shipment.Type = domainShipment.Type(*req.Type)
	}
	if req.OriginCountry != nil {
		shipment.OriginCountry = utils.SanitizeString(*req.OriginCountry)
	}
	if req.DestinationCountry != nil {
		shipment.DestinationCountry = utils.SanitizeString(*req.DestinationCountry)
	}
	if req.DepartureDate != nil {
		if shipment.DepartureDate, err = parseDate("departure_date", *req.DepartureDate); err != nil {
			return nil, err
		}
	}
	if req.ExpectedArrival != nil {
		if shipment.ExpectedArrival, err = parseDate("expected_arrival", *req.ExpectedArrival); err != nil {
			return nil, err
		}
	}
	if err := ValidateTimeRange(shipment.DepartureDate, shipment.ExpectedArrival); err != nil {
		return nil, err
	}
	if req.TotalWeight != nil {
		shipment.TotalWeight = *req.TotalWeight
	}
	if req.TotalValue != nil {
		if err := validateMoney("total_value", *req.TotalValue); err != nil {
			return nil, err
		}
		shipment.TotalValue = *req.TotalValue
	}
	if req.Currency != nil {
		shipment.Currency = strings.ToUpper(*req.Currency)
	}
	if req.Notes != nil {
		shipment.Notes = utils.SanitizeText(*req.Notes)
	}

	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, err
	}

	logger.Info("Shipment updated",
		zap.Uint("shipment_id", shipmentID),
		zap.Uint("updated_by", actor.UserID),
		zap.String("event", "shipment_updated"),
	)

	return ToShipmentResponse(shipment), nil
}

// DeleteShipment removes the shipment together with its cargo items,
// tracking updates and documents.
func (s *Service) DeleteShipment(ctx context.Context, actor domainUser.Actor, shipmentID uint) error {
	if !actor.IsStaff() {
		return domainUser.ErrStaffOnly
	}

	if err := s.shipmentRepo.Delete(ctx, shipmentID); err != nil {
		return err
	}

	logger.Info("Shipment deleted",
		zap.Uint("shipment_id", shipmentID),
		zap.Uint("deleted_by", actor.UserID),
		zap.String("event", "shipment_deleted"),
	)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor domainUser.Actor, shipmentID uint, req *UpdateStatusRequest) (*ShipmentResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	target := domainShipment.Status(req.Status)
	actualArrival, err := parseDate("actual_arrival", req.ActualArrival)
	if err != nil {
		return nil, err
	}
	if err := ValidateArrival(target, actualArrival); err != nil {
		return nil, err
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	if err := ValidateStatusTransition(shipment.Status, target); err != nil {
		logger.Warn("Rejected shipment status change",
			zap.Uint("shipment_id", shipmentID),
			zap.String("from", string(shipment.Status)),
			zap.String("to", string(target)),
			zap.String("event", "shipment_transition_rejected"),
		)
		return nil, err
	}

	if err := s.shipmentRepo.UpdateStatus(ctx, shipmentID, shipment.Status, target, actualArrival); err != nil {
		return nil, err
	}

	from := shipment.Status
	shipment.Status = target
	if actualArrival != nil {
		shipment.ActualArrival = actualArrival
	}
	shipment.UpdatedAt = time.Now()

	logger.Info("Shipment status changed",
		zap.Uint("shipment_id", shipmentID),
		zap.String("shipment_number", shipment.ShipmentNumber),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.Uint("changed_by", actor.UserID),
		zap.String("event", "shipment_status_changed"),
	)

	s.publish(ctx, events.Event{
		Type:           events.TypeStatusChanged,
		ShipmentID:     shipment.ID,
		ShipmentNumber: shipment.ShipmentNumber,
		Status:         string(target),
		ActorID:        actor.UserID,
		OccurredAt:     shipment.UpdatedAt,
	})

	return ToShipmentResponse(shipment), nil
}

// SetCustomsCleared toggles clearance independently of the status.
func (s *Service) SetCustomsCleared(ctx context.Context, actor domainUser.Actor, shipmentID uint, req *CustomsRequest) (*ShipmentResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}

	if err := s.shipmentRepo.SetCustomsCleared(ctx, shipmentID, req.Cleared); err != nil {
		return nil, err
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	logger.Info("Shipment customs clearance changed",
		zap.Uint("shipment_id", shipmentID),
		zap.Bool("cleared", req.Cleared),
		zap.Uint("changed_by", actor.UserID),
		zap.String("event", "shipment_customs_changed"),
	)

	return ToShipmentResponse(shipment), nil
}

func (s *Service) GetStatistics(ctx context.Context, actor domainUser.Actor) (*domainShipment.Statistics, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	return s.shipmentRepo.GetStatistics(ctx)
}

func (s *Service) AddCargoItem(ctx context.Context, actor domainUser.Actor, shipmentID uint, req *CargoItemRequest) (*CargoItemResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}
	if err := validateMoney("value", req.Value); err != nil {
		return nil, err
	}

	if _, err := s.shipmentRepo.GetByID(ctx, shipmentID); err != nil {
		return nil, err
	}

	item := &domainShipment.CargoItem{ShipmentID: shipmentID}
	applyCargoRequest(item, req)

	if err := s.shipmentRepo.AddCargoItem(ctx, item); err != nil {
		return nil, err
	}

	logger.Info("Cargo item added",
		zap.Uint("shipment_id", shipmentID),
		zap.Uint("cargo_item_id", item.ID),
		zap.Uint("added_by", actor.UserID),
		zap.String("event", "cargo_item_added"),
	)

	return ToCargoItemResponse(item), nil
}

func (s *Service) UpdateCargoItem(ctx context.Context, actor domainUser.Actor, itemID uint, req *CargoItemRequest) (*CargoItemResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}
	if err := validateMoney("value", req.Value); err != nil {
		return nil, err
	}

	item, err := s.shipmentRepo.GetCargoItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	applyCargoRequest(item, req)

	if err := s.shipmentRepo.UpdateCargoItem(ctx, item); err != nil {
		return nil, err
	}

	logger.Info("Cargo item updated",
		zap.Uint("cargo_item_id", itemID),
		zap.Uint("updated_by", actor.UserID),
		zap.String("event", "cargo_item_updated"),
	)

	return ToCargoItemResponse(item), nil
}

func (s *Service) DeleteCargoItem(ctx context.Context, actor domainUser.Actor, itemID uint) error {
	if !actor.IsStaff() {
		return domainUser.ErrStaffOnly
	}

	if err := s.shipmentRepo.DeleteCargoItem(ctx, itemID); err != nil {
		return err
	}

	logger.Info("Cargo item deleted",
		zap.Uint("cargo_item_id", itemID),
		zap.Uint("deleted_by", actor.UserID),
		zap.String("event", "cargo_item_deleted"),
	)
	return nil
}

func (s *Service) ListCargoItems(ctx context.Context, actor domainUser.Actor, shipmentID uint) ([]*CargoItemResponse, error) {
	if _, err := s.visibleShipment(ctx, actor, shipmentID); err != nil {
		return nil, err
	}

	items, err := s.shipmentRepo.ListCargoItems(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	responses := make([]*CargoItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToCargoItemResponse(item)
	}
	return responses, nil
}

func (s *Service) AddTrackingUpdate(ctx context.Context, actor domainUser.Actor, shipmentID uint, req *TrackingUpdateRequest) (*TrackingUpdateResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	updateDate, err := parseDate("update_date", req.UpdateDate)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	createdBy := actor.UserID
	update := &domainShipment.TrackingUpdate{
		ShipmentID:     shipmentID,
		Location:       utils.SanitizeString(req.Location),
		Status:         utils.SanitizeString(req.Status),
		Notes:          utils.SanitizeText(req.Notes),
		UpdateDate:     *updateDate,
		CreatedBy:      &createdBy,
		CreatedByEmail: actor.Email,
	}
	if err := s.shipmentRepo.AddTrackingUpdate(ctx, update); err != nil {
		return nil, err
	}

	logger.Info("Tracking update added",
		zap.Uint("shipment_id", shipmentID),
		zap.Uint("tracking_update_id", update.ID),
		zap.String("location", update.Location),
		zap.String("event", "tracking_update_added"),
	)

	s.publish(ctx, events.Event{
		Type:           events.TypeTrackingUpdate,
		ShipmentID:     shipmentID,
		ShipmentNumber: shipment.ShipmentNumber,
		Status:         update.Status,
		Location:       update.Location,
		ActorID:        actor.UserID,
		OccurredAt:     update.CreatedAt,
	})

	return ToTrackingUpdateResponse(update), nil
}

// ListTrackingUpdates returns the audit trail newest first.
func (s *Service) ListTrackingUpdates(ctx context.Context, actor domainUser.Actor, shipmentID uint) ([]*TrackingUpdateResponse, error) {
	if _, err := s.visibleShipment(ctx, actor, shipmentID); err != nil {
		return nil, err
	}

	updates, err := s.shipmentRepo.ListTrackingUpdates(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	responses := make([]*TrackingUpdateResponse, len(updates))
	for i, u := range updates {
		responses[i] = ToTrackingUpdateResponse(u)
	}
	return responses, nil
}

// UploadDocument stores the caller-supplied bytes and records a reference
// to them. The file is named shipment<id>_<unix time>_<original name>.
func (s *Service) UploadDocument(ctx context.Context, actor domainUser.Actor, shipmentID uint, req *DocumentRequest, upload *Upload) (*DocumentResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}
	if upload == nil || upload.Reader == nil {
		return nil, appErrors.Validation("file", "file is required")
	}

	if _, err := s.shipmentRepo.GetByID(ctx, shipmentID); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("shipment%d_%d", shipmentID, time.Now().Unix())
	stored, err := s.documents.Save(ctx, prefix, upload.Name, upload.Reader)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, appErrors.Validation("file", err.Error())
		}
		return nil, appErrors.Storage("store shipment document", err)
	}

	uploadedBy := actor.UserID
	doc := &domainShipment.Document{
		ShipmentID:      shipmentID,
		DocumentType:    utils.SanitizeString(req.DocumentType),
		FilePath:        stored.Name,
		UploadedBy:      &uploadedBy,
		UploadedByEmail: actor.Email,
		Notes:           utils.SanitizeText(req.Notes),
	}
	if err := s.shipmentRepo.AddDocument(ctx, doc); err != nil {
		if rmErr := s.documents.Remove(stored.Name); rmErr != nil {
			logger.Warn("Failed to remove orphaned shipment document",
				zap.String("file", stored.Name),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}

	logger.Info("Shipment document uploaded",
		zap.Uint("shipment_id", shipmentID),
		zap.Uint("document_id", doc.ID),
		zap.String("file", stored.Name),
		zap.String("content_type", stored.ContentType),
		zap.Int64("size", stored.Size),
		zap.String("event", "shipment_document_uploaded"),
	)

	resp := ToDocumentResponse(doc)
	resp.ContentType = stored.ContentType
	return resp, nil
}

func (s *Service) ListDocuments(ctx context.Context, actor domainUser.Actor, shipmentID uint) ([]*DocumentResponse, error) {
	if _, err := s.visibleShipment(ctx, actor, shipmentID); err != nil {
		return nil, err
	}

	docs, err := s.shipmentRepo.ListDocuments(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	responses := make([]*DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = ToDocumentResponse(d)
	}
	return responses, nil
}

// OpenDocument returns the stored file of a document; the caller closes it.
func (s *Service) OpenDocument(ctx context.Context, actor domainUser.Actor, shipmentID, documentID uint) (*os.File, string, string, error) {
	if _, err := s.visibleShipment(ctx, actor, shipmentID); err != nil {
		return nil, "", "", err
	}

	docs, err := s.shipmentRepo.ListDocuments(ctx, shipmentID)
	if err != nil {
		return nil, "", "", err
	}
	for _, d := range docs {
		if d.ID != documentID {
			continue
		}
		f, contentType, err := s.documents.Open(d.FilePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, "", "", appErrors.NotFound("document file", d.FilePath)
			}
			return nil, "", "", appErrors.Storage("open shipment document", err)
		}
		return f, contentType, d.FilePath, nil
	}

	return nil, "", "", appErrors.NotFound("document", documentID)
}

// visibleShipment loads a shipment the actor may read.
func (s *Service) visibleShipment(ctx context.Context, actor domainUser.Actor, shipmentID uint) (*domainShipment.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && shipment.ClientID != actor.UserID {
		return nil, errNotShipmentOwner
	}
	return shipment, nil
}

// publish sends an event after commit. A failed publish is logged only.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish shipment event",
			zap.Uint("shipment_id", event.ShipmentID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

func applyCargoRequest(item *domainShipment.CargoItem, req *CargoItemRequest) {
	item.ItemName = utils.SanitizeString(req.ItemName)
	item.Description = utils.SanitizeText(req.Description)
	item.Quantity = req.Quantity
	item.Unit = strings.TrimSpace(req.Unit)
	if item.Unit == "" {
		item.Unit = "pcs"
	}
	item.Weight = req.Weight
	item.Value = req.Value
	item.HSCode = strings.TrimSpace(req.HSCode)
}
