package cargorequest

import (
	"company-data-manager/internal/config"
	domainCargo "company-data-manager/internal/domain/cargorequest"
	domainShipment "company-data-manager/internal/domain/shipment"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Service struct {
	requestRepo  domainCargo.Repository
	shipmentRepo domainShipment.Repository
	applyModify  bool
}

func NewService(requestRepo domainCargo.Repository, shipmentRepo domainShipment.Repository, cfg *config.Config) *Service {
	return &Service{
		requestRepo:  requestRepo,
		shipmentRepo: shipmentRepo,
		applyModify:  cfg.CargoRequests.ModifyApprovalMode == config.ModifyApprovalApply,
	}
}

// Submit files a pending request against a cargo item of one of the
// caller's shipments.
func (s *Service) Submit(ctx context.Context, actor domainUser.Actor, req *SubmitRequest) (*CargoRequestResponse, error) {
	if !actor.IsClient() {
		return nil, appErrors.Unauthorized("only clients can submit cargo requests")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	requestType := domainCargo.Type(req.RequestType)
	change := req.ProposedChange.toDomain()
	if requestType == domainCargo.TypeRemove && !change.IsEmpty() {
		return nil, domainCargo.ErrChangeOnRemove
	}
	if change != nil && change.Value != nil && change.Value.IsNegative() {
		return nil, appErrors.Validation("value", "value must not be negative")
	}

	item, err := s.shipmentRepo.GetCargoItem(ctx, req.CargoItemID)
	if err != nil {
		return nil, err
	}
	shipment, err := s.shipmentRepo.GetByID(ctx, item.ShipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.ClientID != actor.UserID {
		return nil, domainCargo.ErrNotItemOwner
	}

	cargoReq := &domainCargo.CargoRequest{
		CargoItemID:    item.ID,
		ClientID:       actor.UserID,
		RequestType:    requestType,
		Reason:         utils.SanitizeText(req.Reason),
		Status:         domainCargo.StatusPending,
		ProposedChange: change,
		ItemName:       item.ItemName,
		ShipmentID:     shipment.ID,
		ShipmentNumber: shipment.ShipmentNumber,
		ClientEmail:    actor.Email,
	}
	if change.IsEmpty() {
		cargoReq.ProposedChange = nil
	}

	if err := s.requestRepo.Create(ctx, cargoReq); err != nil {
		return nil, err
	}

	logger.Info("Cargo request submitted",
		zap.Uint("cargo_request_id", cargoReq.ID),
		zap.Uint("cargo_item_id", item.ID),
		zap.Uint("client_id", actor.UserID),
		zap.String("request_type", string(requestType)),
		zap.String("event", "cargo_request_submitted"),
	)

	resp := ToCargoRequestResponse(cargoReq)
	resp.ClientEmail = ""
	return resp, nil
}

func (s *Service) ListMine(ctx context.Context, actor domainUser.Actor) ([]*CargoRequestResponse, error) {
	requests, err := s.requestRepo.ListByClient(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	responses := ToCargoRequestResponses(requests)
	for _, resp := range responses {
		resp.ClientEmail = ""
	}
	return responses, nil
}

// ListAll is the staff view with the client's email joined.
func (s *Service) ListAll(ctx context.Context, actor domainUser.Actor) ([]*CargoRequestResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}

	requests, err := s.requestRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCargoRequestResponses(requests), nil
}

// Resolve approves or rejects a pending request. An approved Remove deletes
// the cargo item; an approved Modify changes it only in apply mode. The
// client is notified through the inbox in the same transaction.
func (s *Service) Resolve(ctx context.Context, actor domainUser.Actor, requestID uint, req *ResolveRequest) (*CargoRequestResponse, error) {
	if !actor.IsStaff() {
		return nil, domainUser.ErrStaffOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	status := domainCargo.Status(req.Status)
	if !status.IsTerminal() {
		return nil, domainCargo.ErrInvalidOutcome
	}

	resolved, err := s.requestRepo.Resolve(ctx, &domainCargo.Resolution{
		RequestID:   requestID,
		Status:      status,
		Response:    utils.SanitizeText(req.Response),
		ResolvedBy:  actor.UserID,
		ApplyModify: s.applyModify,
		Notice:      s.notice,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cargo request resolved",
		zap.Uint("cargo_request_id", requestID),
		zap.Uint("cargo_item_id", resolved.CargoItemID),
		zap.String("request_type", string(resolved.RequestType)),
		zap.String("status", string(status)),
		zap.Uint("resolved_by", actor.UserID),
		zap.Bool("modify_applied", s.applyModify && resolved.RequestType == domainCargo.TypeModify && status == domainCargo.StatusApproved),
		zap.String("event", "cargo_request_resolved"),
	)

	return ToCargoRequestResponse(resolved), nil
}

func (s *Service) notice(req *domainCargo.CargoRequest) (string, string) {
	subject := fmt.Sprintf("Cargo request #%d %s", req.ID, req.Status)

	content := fmt.Sprintf("Your %s request for %q on shipment %s was %s.",
		req.RequestType, req.ItemName, req.ShipmentNumber, req.Status)
	if req.Status == domainCargo.StatusApproved {
		switch {
		case req.RequestType == domainCargo.TypeRemove:
			content += " The item has been removed from the shipment."
		case s.applyModify && !req.ProposedChange.IsEmpty():
			content += " The proposed changes have been applied."
		default:
			content += " Staff will update the item."
		}
	}
	if req.EmployeeResponse != "" {
		content += "\n\nResponse: " + req.EmployeeResponse
	}

	return subject, content
}
