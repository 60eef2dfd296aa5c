package message

import (
	domainMessage "company-data-manager/internal/domain/message"
	domainShipment "company-data-manager/internal/domain/shipment"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

var errRecipientNotAllowed = appErrors.Unauthorized("clients can only message managers and employees")

type Service struct {
	messageRepo  domainMessage.Repository
	userRepo     domainUser.Repository
	shipmentRepo domainShipment.Repository
}

func NewService(messageRepo domainMessage.Repository, userRepo domainUser.Repository, shipmentRepo domainShipment.Repository) *Service {
	return &Service{
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		shipmentRepo: shipmentRepo,
	}
}

// Send stores a message from the caller. Clients may only write to staff
// and only reference their own shipments.
func (s *Service) Send(ctx context.Context, actor domainUser.Actor, req *SendMessageRequest) (*MessageResponse, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Content = strings.TrimSpace(req.Content)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	recipient, err := s.userRepo.GetByID(ctx, req.ToUserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Validation("to_user_id", "recipient does not exist")
		}
		return nil, err
	}
	if actor.IsClient() && recipient.Role == domainUser.RoleClient {
		return nil, errRecipientNotAllowed
	}

	if req.ShipmentID != nil {
		shipment, err := s.shipmentRepo.GetByID(ctx, *req.ShipmentID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				return nil, appErrors.Validation("shipment_id", "shipment does not exist")
			}
			return nil, err
		}
		if actor.IsClient() && shipment.ClientID != actor.UserID {
			return nil, appErrors.Unauthorized("shipment does not belong to you")
		}
	}

	msg := &domainMessage.Message{
		FromUserID: actor.UserID,
		FromEmail:  actor.Email,
		ToUserID:   recipient.ID,
		ToEmail:    recipient.Email,
		Subject:    utils.SanitizeString(req.Subject),
		Content:    utils.SanitizeText(req.Content),
		ShipmentID: req.ShipmentID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	logger.Info("Message sent",
		zap.Uint("message_id", msg.ID),
		zap.Uint("from_user_id", actor.UserID),
		zap.Uint("to_user_id", recipient.ID),
		zap.String("event", "message_sent"),
	)

	return ToMessageResponse(msg, actor.UserID), nil
}

// List returns everything the caller sent or received, newest first.
func (s *Service) List(ctx context.Context, actor domainUser.Actor) ([]*MessageResponse, error) {
	messages, err := s.messageRepo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	responses := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = ToMessageResponse(m, actor.UserID)
	}
	return responses, nil
}

// MarkRead can be repeated; only the recipient may call it.
func (s *Service) MarkRead(ctx context.Context, actor domainUser.Actor, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.ToUserID != actor.UserID {
		return appErrors.Unauthorized("only the recipient can mark a message as read")
	}
	if msg.IsRead {
		return nil
	}

	return s.messageRepo.MarkRead(ctx, messageID)
}

func (s *Service) UnreadCount(ctx context.Context, actor domainUser.Actor) (*UnreadResponse, error) {
	count, err := s.messageRepo.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadResponse{Unread: count}, nil
}

// ListRecipients returns who the caller may write to.
func (s *Service) ListRecipients(ctx context.Context, actor domainUser.Actor) ([]*RecipientResponse, error) {
	var roles []domainUser.Role
	if actor.IsClient() {
		roles = []domainUser.Role{domainUser.RoleManager, domainUser.RoleEmployee}
	}

	users, err := s.userRepo.ListByRoles(ctx, roles...)
	if err != nil {
		return nil, err
	}

	recipients := make([]*RecipientResponse, 0, len(users))
	for _, u := range users {
		if u.ID == actor.UserID {
			continue
		}
		recipients = append(recipients, ToRecipientResponse(u))
	}
	return recipients, nil
}
