package sqlstore

import (
	"company-data-manager/internal/domain/shipment"
	"company-data-manager/internal/infrastructure/database/sqlstore/models"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShipmentRepository struct {
	db *DB
}

func NewShipmentRepository(db *DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// shipmentRow is a shipments row with the client's email.
type shipmentRow struct {
	ID                 uint
	ShipmentNumber     string
	ClientID           uint
	Type               string
	OriginCountry      string
	DestinationCountry string
	DepartureDate      *time.Time
	ExpectedArrival    *time.Time
	ActualArrival      *time.Time
	Status             string
	TotalWeight        float64
	TotalValue         decimal.Decimal
	Currency           string
	CustomsCleared     bool
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ClientEmail        *string
}

const shipmentSelect = "s.id, s.shipment_number, s.client_id, s.type, s.origin_country, s.destination_country, " +
	"s.departure_date, s.expected_arrival, s.actual_arrival, s.status, s.total_weight, s.total_value, " +
	"s.currency, s.customs_cleared, s.notes, s.created_at, s.updated_at, u.email AS client_email"

func (r *ShipmentRepository) Create(ctx context.Context, s *shipment.Shipment) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = shipment.StatusPending
	}
	if s.Currency == "" {
		s.Currency = "USD"
	}

	dbModel := toShipmentModel(s)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shipment.ErrShipmentNumberTaken
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return shipment.ErrClientRequired
		}
		return appErrors.Storage("create shipment", err)
	}

	s.ID = dbModel.ID

	return nil
}

func (r *ShipmentRepository) GetByID(ctx context.Context, shipmentID uint) (*shipment.Shipment, error) {
	var row shipmentRow
	result := r.baseQuery(ctx).Where("s.id = ?", shipmentID).Limit(1).Scan(&row)

	if result.Error != nil {
		return nil, appErrors.Storage("get shipment", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, appErrors.NotFound("shipment", shipmentID)
	}

	return toShipmentEntity(&row), nil
}

// Update edits descriptive fields. Status and customs clearance have their own methods.
func (r *ShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	s.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"type":                string(s.Type),
			"origin_country":      s.OriginCountry,
			"destination_country": s.DestinationCountry,
			"departure_date":      s.DepartureDate,
			"expected_arrival":    s.ExpectedArrival,
			"total_weight":        s.TotalWeight,
			"total_value":         s.TotalValue,
			"currency":            s.Currency,
			"notes":               s.Notes,
			"updated_at":          s.UpdatedAt,
		})

	if result.Error != nil {
		return appErrors.Storage("update shipment", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("shipment", s.ID)
	}

	return nil
}

// Delete removes the shipment. Cargo items, tracking updates and documents go
// with it through ON DELETE CASCADE.
func (r *ShipmentRepository) Delete(ctx context.Context, shipmentID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", shipmentID).
		Delete(&models.ShipmentModel{})

	if result.Error != nil {
		return appErrors.Storage("delete shipment", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("shipment", shipmentID)
	}

	return nil
}

func (r *ShipmentRepository) UpdateStatus(ctx context.Context, shipmentID uint, from, to shipment.Status, actualArrival *time.Time) error {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	if actualArrival != nil {
		updates["actual_arrival"] = *actualArrival
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("id = ? AND status = ?", shipmentID, string(from)).
		Updates(updates)

	if result.Error != nil {
		return appErrors.Storage("update shipment status", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	current, err := r.GetByID(ctx, shipmentID)
	if err != nil {
		return err
	}

	return appErrors.Validation("status",
		fmt.Sprintf("shipment %d is now %s, expected %s", shipmentID, current.Status, from))
}

func (r *ShipmentRepository) SetCustomsCleared(ctx context.Context, shipmentID uint, cleared bool) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("id = ?", shipmentID).
		Updates(map[string]interface{}{
			"customs_cleared": cleared,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return appErrors.Storage("update customs clearance", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("shipment", shipmentID)
	}

	return nil
}

func (r *ShipmentRepository) List(ctx context.Context, filter *shipment.Filter) ([]*shipment.Shipment, error) {
	db := r.baseQuery(ctx)

	// Apply filters
	if filter != nil {
		if filter.Status != nil {
			db = db.Where("s.status = ?", string(*filter.Status))
		}
		if filter.Type != nil {
			db = db.Where("s.type = ?", string(*filter.Type))
		}
		if filter.ClientID != nil {
			db = db.Where("s.client_id = ?", *filter.ClientID)
		}
		if term := strings.TrimSpace(filter.Search); term != "" {
			search := "%" + term + "%"
			db = db.Where(
				"LOWER(s.shipment_number) LIKE LOWER(?) OR LOWER(s.origin_country) LIKE LOWER(?) "+
					"OR LOWER(s.destination_country) LIKE LOWER(?)",
				search, search, search,
			)
		}
	}

	var rows []shipmentRow
	if err := db.Order("s.id DESC").Scan(&rows).Error; err != nil {
		return nil, appErrors.Storage("list shipments", err)
	}

	shipments := make([]*shipment.Shipment, len(rows))
	for i := range rows {
		shipments[i] = toShipmentEntity(&rows[i])
	}

	return shipments, nil
}

func (r *ShipmentRepository) GetStatistics(ctx context.Context) (*shipment.Statistics, error) {
	stats := &shipment.Statistics{}

	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_shipments,
		       COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS imports,
		       COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS exports,
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_transit,
		       COALESCE(SUM(total_value), 0) AS total_value
		FROM shipments
	`,
		string(shipment.TypeImport),
		string(shipment.TypeExport),
		string(shipment.StatusInTransit),
	).Scan(stats).Error
	if err != nil {
		return nil, appErrors.Storage("get shipment statistics", err)
	}

	return stats, nil
}

func (r *ShipmentRepository) AddCargoItem(ctx context.Context, item *shipment.CargoItem) error {
	if item.Unit == "" {
		item.Unit = "pcs"
	}

	dbModel := toCargoItemModel(item)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return appErrors.NotFound("shipment", item.ShipmentID)
		}
		return appErrors.Storage("add cargo item", err)
	}

	item.ID = dbModel.ID
	item.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *ShipmentRepository) GetCargoItem(ctx context.Context, itemID uint) (*shipment.CargoItem, error) {
	var dbModel models.CargoItemModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", itemID).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.NotFound("cargo item", itemID)
	}
	if err != nil {
		return nil, appErrors.Storage("get cargo item", err)
	}

	return toCargoItemEntity(&dbModel), nil
}

func (r *ShipmentRepository) UpdateCargoItem(ctx context.Context, item *shipment.CargoItem) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.CargoItemModel{}).
		Where("id = ?", item.ID).
		Updates(cargoItemUpdates(item))

	if result.Error != nil {
		return appErrors.Storage("update cargo item", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("cargo item", item.ID)
	}

	return nil
}

func (r *ShipmentRepository) DeleteCargoItem(ctx context.Context, itemID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CargoItemModel{})

	if result.Error != nil {
		return appErrors.Storage("delete cargo item", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("cargo item", itemID)
	}

	return nil
}

func (r *ShipmentRepository) ListCargoItems(ctx context.Context, shipmentID uint) ([]*shipment.CargoItem, error) {
	var dbModels []models.CargoItemModel
	err := r.db.DB.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("id ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, appErrors.Storage("list cargo items", err)
	}

	items := make([]*shipment.CargoItem, len(dbModels))
	for i := range dbModels {
		items[i] = toCargoItemEntity(&dbModels[i])
	}

	return items, nil
}

func (r *ShipmentRepository) AddTrackingUpdate(ctx context.Context, update *shipment.TrackingUpdate) error {
	dbModel := &models.TrackingUpdateModel{
		ShipmentID: update.ShipmentID,
		Location:   update.Location,
		Status:     update.Status,
		Notes:      update.Notes,
		UpdateDate: update.UpdateDate,
		CreatedBy:  update.CreatedBy,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return appErrors.NotFound("shipment", update.ShipmentID)
		}
		return appErrors.Storage("add tracking update", err)
	}

	update.ID = dbModel.ID
	update.CreatedAt = dbModel.CreatedAt

	return nil
}

// ListTrackingUpdates returns the shipment's trail, newest first.
func (r *ShipmentRepository) ListTrackingUpdates(ctx context.Context, shipmentID uint) ([]*shipment.TrackingUpdate, error) {
	var rows []struct {
		ID             uint
		ShipmentID     uint
		Location       string
		Status         string
		Notes          string
		UpdateDate     time.Time
		CreatedBy      *uint
		CreatedAt      time.Time
		CreatedByEmail *string
	}

	err := r.db.DB.WithContext(ctx).
		Table("tracking_updates AS t").
		Select("t.id, t.shipment_id, t.location, t.status, t.notes, t.update_date, t.created_by, t.created_at, "+
			"u.email AS created_by_email").
		Joins("LEFT JOIN users u ON u.id = t.created_by").
		Where("t.shipment_id = ?", shipmentID).
		Order("t.update_date DESC, t.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, appErrors.Storage("list tracking updates", err)
	}

	updates := make([]*shipment.TrackingUpdate, len(rows))
	for i, row := range rows {
		updates[i] = &shipment.TrackingUpdate{
			ID:             row.ID,
			ShipmentID:     row.ShipmentID,
			Location:       row.Location,
			Status:         row.Status,
			Notes:          row.Notes,
			UpdateDate:     dateOnly(row.UpdateDate),
			CreatedBy:      row.CreatedBy,
			CreatedByEmail: deref(row.CreatedByEmail),
			CreatedAt:      row.CreatedAt,
		}
	}

	return updates, nil
}

func (r *ShipmentRepository) AddDocument(ctx context.Context, doc *shipment.Document) error {
	dbModel := &models.ShipmentDocumentModel{
		ShipmentID:   doc.ShipmentID,
		DocumentType: doc.DocumentType,
		FilePath:     doc.FilePath,
		UploadedBy:   doc.UploadedBy,
		Notes:        doc.Notes,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return appErrors.NotFound("shipment", doc.ShipmentID)
		}
		return appErrors.Storage("add shipment document", err)
	}

	doc.ID = dbModel.ID
	doc.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *ShipmentRepository) ListDocuments(ctx context.Context, shipmentID uint) ([]*shipment.Document, error) {
	var rows []struct {
		ID              uint
		ShipmentID      uint
		DocumentType    string
		FilePath        string
		UploadedBy      *uint
		Notes           string
		CreatedAt       time.Time
		UploadedByEmail *string
	}

	err := r.db.DB.WithContext(ctx).
		Table("shipment_documents AS d").
		Select("d.id, d.shipment_id, d.document_type, d.file_path, d.uploaded_by, d.notes, d.created_at, "+
			"u.email AS uploaded_by_email").
		Joins("LEFT JOIN users u ON u.id = d.uploaded_by").
		Where("d.shipment_id = ?", shipmentID).
		Order("d.created_at DESC, d.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, appErrors.Storage("list shipment documents", err)
	}

	docs := make([]*shipment.Document, len(rows))
	for i, row := range rows {
		docs[i] = &shipment.Document{
			ID:              row.ID,
			ShipmentID:      row.ShipmentID,
			DocumentType:    row.DocumentType,
			FilePath:        row.FilePath,
			UploadedBy:      row.UploadedBy,
			UploadedByEmail: deref(row.UploadedByEmail),
			Notes:           row.Notes,
			CreatedAt:       row.CreatedAt,
		}
	}

	return docs, nil
}

func (r *ShipmentRepository) ListDocumentPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.DB.WithContext(ctx).
		Model(&models.ShipmentDocumentModel{}).
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, appErrors.Storage("list document paths", err)
	}

	return paths, nil
}

func (r *ShipmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Table("shipments AS s").
		Select(shipmentSelect).
		Joins("LEFT JOIN users u ON u.id = s.client_id")
}

// Helper functions to convert between domain entities and database models
func toShipmentModel(s *shipment.Shipment) *models.ShipmentModel {
	return &models.ShipmentModel{
		ID:                 s.ID,
		ShipmentNumber:     s.ShipmentNumber,
		ClientID:           s.ClientID,
		Type:               string(s.Type),
		OriginCountry:      s.OriginCountry,
		DestinationCountry: s.DestinationCountry,
		DepartureDate:      s.DepartureDate,
		ExpectedArrival:    s.ExpectedArrival,
		ActualArrival:      s.ActualArrival,
		Status:             string(s.Status),
		TotalWeight:        s.TotalWeight,
		TotalValue:         s.TotalValue,
		Currency:           s.Currency,
		CustomsCleared:     s.CustomsCleared,
		Notes:              s.Notes,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func toShipmentEntity(row *shipmentRow) *shipment.Shipment {
	return &shipment.Shipment{
		ID:                 row.ID,
		ShipmentNumber:     row.ShipmentNumber,
		ClientID:           row.ClientID,
		ClientEmail:        deref(row.ClientEmail),
		Type:               shipment.Type(row.Type),
		OriginCountry:      row.OriginCountry,
		DestinationCountry: row.DestinationCountry,
		DepartureDate:      dateOnlyPtr(row.DepartureDate),
		ExpectedArrival:    dateOnlyPtr(row.ExpectedArrival),
		ActualArrival:      dateOnlyPtr(row.ActualArrival),
		Status:             shipment.Status(row.Status),
		TotalWeight:        row.TotalWeight,
		TotalValue:         row.TotalValue,
		Currency:           row.Currency,
		CustomsCleared:     row.CustomsCleared,
		Notes:              row.Notes,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toCargoItemModel(item *shipment.CargoItem) *models.CargoItemModel {
	return &models.CargoItemModel{
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

func toCargoItemEntity(m *models.CargoItemModel) *shipment.CargoItem {
	return &shipment.CargoItem{
		ID:          m.ID,
		ShipmentID:  m.ShipmentID,
		ItemName:    m.ItemName,
		Description: m.Description,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Weight:      m.Weight,
		Value:       m.Value,
		HSCode:      m.HSCode,
		CreatedAt:   m.CreatedAt,
	}
}

func cargoItemUpdates(item *shipment.CargoItem) map[string]interface{} {
	return map[string]interface{}{
		"item_name":   item.ItemName,
		"description": item.Description,
		"quantity":    item.Quantity,
		"unit":        item.Unit,
		"weight":      item.Weight,
		"value":       item.Value,
		"hs_code":     item.HSCode,
	}
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ shipment.Repository = (*ShipmentRepository)(nil)
