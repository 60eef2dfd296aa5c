package message

import (
	domainShipment "company-data-manager/internal/domain/shipment"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/testutil"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        *Service
	manager    domainUser.Actor
	employee   domainUser.Actor
	client     domainUser.Actor
	other      domainUser.Actor
	shipmentID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	shipmentRepo := sqlstore.NewShipmentRepository(db)

	f := &fixture{
		svc:      NewService(sqlstore.NewMessageRepository(db), sqlstore.NewUserRepository(db), shipmentRepo),
		manager:  testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleManager),
		employee: testutil.CreateUser(t, db, "clerk@employee.com", "pass-1234", domainUser.RoleEmployee),
		client:   testutil.CreateUser(t, db, "buyer@client.com", "pass-1234", domainUser.RoleClient),
		other:    testutil.CreateUser(t, db, "rival@client.com", "pass-1234", domainUser.RoleClient),
	}

	shipment := &domainShipment.Shipment{
		ShipmentNumber:     "SH-2025-001",
		ClientID:           f.client.UserID,
		Type:               domainShipment.TypeExport,
		OriginCountry:      "Vietnam",
		DestinationCountry: "Japan",
	}
	require.NoError(t, shipmentRepo.Create(context.Background(), shipment))
	f.shipmentID = shipment.ID

	return f
}

func TestSendAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.svc.Send(ctx, f.client, &SendMessageRequest{
		ToUserID:   f.employee.UserID,
		Subject:    "Delivery window",
		Content:    "Can the goods arrive before Friday?",
		ShipmentID: &f.shipmentID,
	})
	require.NoError(t, err)
	assert.False(t, sent.IsRead)
	assert.False(t, sent.Received)

	_, err = f.svc.Send(ctx, f.employee, &SendMessageRequest{
		ToUserID: f.client.UserID,
		Subject:  "Re: Delivery window",
		Content:  "Yes, Thursday.",
	})
	require.NoError(t, err)

	unread, err := f.svc.UnreadCount(ctx, f.employee)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread.Unread)

	inbox, err := f.svc.List(ctx, f.employee)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "Re: Delivery window", inbox[0].Subject)
	assert.False(t, inbox[0].Received)
	assert.True(t, inbox[1].Received)
	assert.Equal(t, "buyer@client.com", inbox[1].FromEmail)

	assert.ErrorIs(t, f.svc.MarkRead(ctx, f.client, sent.ID), appErrors.ErrUnauthorized)

	require.NoError(t, f.svc.MarkRead(ctx, f.employee, sent.ID))
	require.NoError(t, f.svc.MarkRead(ctx, f.employee, sent.ID))

	unread, err = f.svc.UnreadCount(ctx, f.employee)
	require.NoError(t, err)
	assert.Zero(t, unread.Unread)

	assert.ErrorIs(t, f.svc.MarkRead(ctx, f.employee, 999), appErrors.ErrNotFound)
}

func TestSend_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, f.client, &SendMessageRequest{ToUserID: f.employee.UserID, Subject: "  ", Content: "hi"})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	_, err = f.svc.Send(ctx, f.client, &SendMessageRequest{ToUserID: f.employee.UserID, Subject: "hi"})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	_, err = f.svc.Send(ctx, f.client, &SendMessageRequest{ToUserID: 999, Subject: "hi", Content: "hi"})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	_, err = f.svc.Send(ctx, f.client, &SendMessageRequest{ToUserID: f.other.UserID, Subject: "hi", Content: "hi"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.Send(ctx, f.other, &SendMessageRequest{
		ToUserID:   f.manager.UserID,
		Subject:    "hi",
		Content:    "about their cargo",
		ShipmentID: &f.shipmentID,
	})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.Send(ctx, f.manager, &SendMessageRequest{ToUserID: f.other.UserID, Subject: "hi", Content: "hello"})
	assert.NoError(t, err)
}

func TestListRecipients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	forClient, err := f.svc.ListRecipients(ctx, f.client)
	require.NoError(t, err)
	emails := make([]string, len(forClient))
	for i, r := range forClient {
		emails[i] = r.Email
	}
	assert.ElementsMatch(t, []string{"boss@manager.com", "clerk@employee.com"}, emails)

	forStaff, err := f.svc.ListRecipients(ctx, f.employee)
	require.NoError(t, err)
	assert.Len(t, forStaff, 3)
	for _, r := range forStaff {
		assert.NotEqual(t, f.employee.UserID, r.ID)
	}
}
