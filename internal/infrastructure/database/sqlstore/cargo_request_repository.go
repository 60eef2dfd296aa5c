package sqlstore

import (
	"company-data-manager/internal/domain/cargorequest"
	"company-data-manager/internal/infrastructure/database/sqlstore/models"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CargoRequestRepository struct {
	db *DB
}

func NewCargoRequestRepository(db *DB) *CargoRequestRepository {
	return &CargoRequestRepository{db: db}
}

// cargoRequestRow is a cargo_requests row with its item, shipment and client.
type cargoRequestRow struct {
	ID               uint
	CargoItemID      uint
	ClientID         uint
	RequestType      string
	Reason           string
	Status           string
	EmployeeResponse string
	ProposedChange   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ItemName         *string
	ShipmentID       *uint
	ShipmentNumber   *string
	ClientEmail      *string
}

const cargoRequestSelect = "cr.id, cr.cargo_item_id, cr.client_id, cr.request_type, cr.reason, cr.status, " +
	"cr.employee_response, cr.proposed_change, cr.created_at, cr.updated_at, ci.item_name, " +
	"ci.shipment_id, s.shipment_number, u.email AS client_email"

func (r *CargoRequestRepository) Create(ctx context.Context, req *cargorequest.CargoRequest) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = cargorequest.StatusPending
	}

	change, err := encodeChange(req.ProposedChange)
	if err != nil {
		return appErrors.Validation("proposed_change", "proposed change could not be encoded")
	}

	dbModel := &models.CargoRequestModel{
		CargoItemID:      req.CargoItemID,
		ClientID:         req.ClientID,
		RequestType:      string(req.RequestType),
		Reason:           req.Reason,
		Status:           string(req.Status),
		EmployeeResponse: req.EmployeeResponse,
		ProposedChange:   change,
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return appErrors.NotFound("cargo item", req.CargoItemID)
		}
		return appErrors.Storage("create cargo request", err)
	}

	req.ID = dbModel.ID

	return nil
}

func (r *CargoRequestRepository) GetByID(ctx context.Context, requestID uint) (*cargorequest.CargoRequest, error) {
	return getCargoRequest(r.baseQuery(r.db.DB.WithContext(ctx)), requestID)
}

func (r *CargoRequestRepository) ListByClient(ctx context.Context, clientID uint) ([]*cargorequest.CargoRequest, error) {
	return r.list(r.baseQuery(r.db.DB.WithContext(ctx)).Where("cr.client_id = ?", clientID))
}

func (r *CargoRequestRepository) ListAll(ctx context.Context) ([]*cargorequest.CargoRequest, error) {
	return r.list(r.baseQuery(r.db.DB.WithContext(ctx)))
}

func (r *CargoRequestRepository) list(db *gorm.DB) ([]*cargorequest.CargoRequest, error) {
	var rows []cargoRequestRow
	if err := db.Order("cr.created_at DESC, cr.id DESC").Scan(&rows).Error; err != nil {
		return nil, appErrors.Storage("list cargo requests", err)
	}

	requests := make([]*cargorequest.CargoRequest, len(rows))
	for i := range rows {
		requests[i] = toCargoRequestEntity(&rows[i])
	}

	return requests, nil
}

// Resolve applies a staff decision. The status change, the inbox notice and
// the cargo item follow-up commit together or not at all.
func (r *CargoRequestRepository) Resolve(ctx context.Context, res *cargorequest.Resolution) (*cargorequest.CargoRequest, error) {
	var resolved *cargorequest.CargoRequest

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := getCargoRequest(r.baseQuery(tx), res.RequestID)
		if err != nil {
			return err
		}
		if req.Status != cargorequest.StatusPending {
			return cargorequest.ErrAlreadyResolved(req.ID, req.Status)
		}

		now := time.Now()
		result := tx.Model(&models.CargoRequestModel{}).
			Where("id = ? AND status = ?", req.ID, string(cargorequest.StatusPending)).
			Updates(map[string]interface{}{
				"status":            string(res.Status),
				"employee_response": res.Response,
				"updated_at":        now,
			})
		if result.Error != nil {
			return appErrors.Storage("resolve cargo request", result.Error)
		}
		if result.RowsAffected == 0 {
			return cargorequest.ErrAlreadyResolved(req.ID, cargorequest.StatusPending)
		}

		req.Status = res.Status
		req.EmployeeResponse = res.Response
		req.UpdatedAt = now

		if res.Notice != nil {
			subject, content := res.Notice(req)
			notice := &models.MessageModel{
				FromUserID: res.ResolvedBy,
				ToUserID:   req.ClientID,
				Subject:    subject,
				Content:    content,
				CreatedAt:  now,
			}
			if req.ShipmentID != 0 {
				shipmentID := req.ShipmentID
				notice.ShipmentID = &shipmentID
			}
			if err := tx.Create(notice).Error; err != nil {
				return appErrors.Storage("store cargo request notice", err)
			}
		}

		if req.Status == cargorequest.StatusApproved {
			switch req.RequestType {
			case cargorequest.TypeRemove:
				// Cascades to this request row.
				result := tx.Where("id = ?", req.CargoItemID).Delete(&models.CargoItemModel{})
				if result.Error != nil {
					return appErrors.Storage("delete cargo item", result.Error)
				}
				if result.RowsAffected == 0 {
					return appErrors.NotFound("cargo item", req.CargoItemID)
				}
			case cargorequest.TypeModify:
				if res.ApplyModify && !req.ProposedChange.IsEmpty() {
					if err := applyChange(tx, req.CargoItemID, req.ProposedChange); err != nil {
						return err
					}
				}
			}
		}

		resolved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

func applyChange(tx *gorm.DB, itemID uint, change *cargorequest.ProposedChange) error {
	updates := map[string]interface{}{}
	if change.Quantity != nil {
		updates["quantity"] = *change.Quantity
	}
	if change.Unit != nil {
		updates["unit"] = *change.Unit
	}
	if change.Weight != nil {
		updates["weight"] = *change.Weight
	}
	if change.Value != nil {
		updates["value"] = *change.Value
	}
	if change.Description != nil {
		updates["description"] = *change.Description
	}

	result := tx.Model(&models.CargoItemModel{}).Where("id = ?", itemID).Updates(updates)
	if result.Error != nil {
		return appErrors.Storage("apply cargo change", result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.NotFound("cargo item", itemID)
	}

	return nil
}

func getCargoRequest(db *gorm.DB, requestID uint) (*cargorequest.CargoRequest, error) {
	var row cargoRequestRow
	result := db.Where("cr.id = ?", requestID).Limit(1).Scan(&row)

	if result.Error != nil {
		return nil, appErrors.Storage("get cargo request", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, appErrors.NotFound("cargo request", requestID)
	}

	return toCargoRequestEntity(&row), nil
}

func (r *CargoRequestRepository) baseQuery(db *gorm.DB) *gorm.DB {
	return db.
		Table("cargo_requests AS cr").
		Select(cargoRequestSelect).
		Joins("LEFT JOIN cargo_items ci ON ci.id = cr.cargo_item_id").
		Joins("LEFT JOIN shipments s ON s.id = ci.shipment_id").
		Joins("LEFT JOIN users u ON u.id = cr.client_id")
}

func encodeChange(change *cargorequest.ProposedChange) (*string, error) {
	if change.IsEmpty() {
		return nil, nil
	}
	raw, err := json.Marshal(change)
	if err != nil {
		return nil, err
	}
	encoded := string(raw)
	return &encoded, nil
}

func toCargoRequestEntity(row *cargoRequestRow) *cargorequest.CargoRequest {
	req := &cargorequest.CargoRequest{
		ID:               row.ID,
		CargoItemID:      row.CargoItemID,
		ClientID:         row.ClientID,
		RequestType:      cargorequest.Type(row.RequestType),
		Reason:           row.Reason,
		Status:           cargorequest.Status(row.Status),
		EmployeeResponse: row.EmployeeResponse,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		ItemName:         deref(row.ItemName),
		ShipmentNumber:   deref(row.ShipmentNumber),
		ClientEmail:      deref(row.ClientEmail),
	}
	if row.ShipmentID != nil {
		req.ShipmentID = *row.ShipmentID
	}
	if row.ProposedChange != nil && *row.ProposedChange != "" {
		var change cargorequest.ProposedChange
		// A malformed column leaves the change unset rather than failing the read.
		if err := json.Unmarshal([]byte(*row.ProposedChange), &change); err == nil {
			req.ProposedChange = &change
		}
	}
	return req
}

var _ cargorequest.Repository = (*CargoRequestRepository)(nil)
