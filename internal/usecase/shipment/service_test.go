package shipment

import (
	domainShipment "company-data-manager/internal/domain/shipment"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/infrastructure/events"
	"company-data-manager/internal/infrastructure/events/mocks"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/testutil"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fixture struct {
	svc       *Service
	db        *sqlstore.DB
	repo      *sqlstore.ShipmentRepository
	docs      *storage.FileStore
	publisher *mocks.MockPublisher
	manager   domainUser.Actor
	employee  domainUser.Actor
	client    domainUser.Actor
	other     domainUser.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	docs, err := storage.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	publisher := mocks.NewMockPublisher(gomock.NewController(t))
	repo := sqlstore.NewShipmentRepository(db)

	return &fixture{
		svc:       NewService(repo, sqlstore.NewUserRepository(db), publisher, docs),
		db:        db,
		repo:      repo,
		docs:      docs,
		publisher: publisher,
		manager:   testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleManager),
		employee:  testutil.CreateUser(t, db, "clerk@employee.com", "pass-1234", domainUser.RoleEmployee),
		client:    testutil.CreateUser(t, db, "buyer@client.com", "pass-1234", domainUser.RoleClient),
		other:     testutil.CreateUser(t, db, "rival@client.com", "pass-1234", domainUser.RoleClient),
	}
}

func (f *fixture) createShipment(t *testing.T, number string) *ShipmentResponse {
	t.Helper()

	created, err := f.svc.CreateShipment(context.Background(), f.employee, &CreateShipmentRequest{
		ShipmentNumber:     number,
		ClientID:           f.client.UserID,
		Type:               "Import",
		OriginCountry:      "China",
		DestinationCountry: "Vietnam",
		DepartureDate:      "2025-01-10",
		ExpectedArrival:    "2025-01-25",
		TotalWeight:        1200.5,
		TotalValue:         decimal.RequireFromString("15000.00"),
	})
	require.NoError(t, err)
	return created
}

func TestShipmentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.createShipment(t, "SH-2025-001")
	assert.Equal(t, "Pending", created.Status)
	assert.Equal(t, "USD", created.Currency)
	assert.False(t, created.CustomsCleared)
	assert.Equal(t, []string{"In Transit", "Cancelled"}, created.AllowedTransitions)

	var published []events.Event
	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e events.Event) error {
			published = append(published, e)
			return nil
		}).
		Times(4)

	_, err := f.svc.AddTrackingUpdate(ctx, f.employee, created.ID, &TrackingUpdateRequest{
		Location:   "Shanghai port",
		Status:     "Loaded",
		UpdateDate: "2025-01-10",
	})
	require.NoError(t, err)

	for _, status := range []string{"In Transit", "Customs"} {
		_, err := f.svc.UpdateStatus(ctx, f.employee, created.ID, &UpdateStatusRequest{Status: status})
		require.NoError(t, err, status)
	}

	delivered, err := f.svc.UpdateStatus(ctx, f.manager, created.ID, &UpdateStatusRequest{
		Status:        "Delivered",
		ActualArrival: "2025-01-24",
	})
	require.NoError(t, err)
	assert.Equal(t, "Delivered", delivered.Status)
	require.NotNil(t, delivered.ActualArrival)
	assert.Equal(t, "2025-01-24", *delivered.ActualArrival)
	assert.Empty(t, delivered.AllowedTransitions)

	require.Len(t, published, 4)
	assert.Equal(t, events.TypeTrackingUpdate, published[0].Type)
	assert.Equal(t, "Shanghai port", published[0].Location)
	assert.Equal(t, events.TypeStatusChanged, published[3].Type)
	assert.Equal(t, "Delivered", published[3].Status)
	assert.Equal(t, "SH-2025-001", published[3].ShipmentNumber)

	detail, err := f.svc.GetShipment(ctx, f.client, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delivered", detail.Status)
	require.Len(t, detail.TrackingUpdates, 1)
	assert.Equal(t, "clerk@employee.com", detail.TrackingUpdates[0].UpdatedByEmail)

	_, err = f.svc.UpdateStatus(ctx, f.manager, created.ID, &UpdateStatusRequest{Status: "Cancelled"})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
}

func TestValidateStatusTransition(t *testing.T) {
	statuses := []domainShipment.Status{
		domainShipment.StatusPending,
		domainShipment.StatusInTransit,
		domainShipment.StatusCustoms,
		domainShipment.StatusDelivered,
		domainShipment.StatusCancelled,
	}
	allowed := map[string]bool{
		"Pending>In Transit":   true,
		"Pending>Cancelled":    true,
		"In Transit>Customs":   true,
		"In Transit>Cancelled": true,
		"Customs>Delivered":    true,
		"Customs>Cancelled":    true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			key := fmt.Sprintf("%s>%s", from, to)
			t.Run(key, func(t *testing.T) {
				err := ValidateStatusTransition(from, to)
				if allowed[key] {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
				}
			})
		}
	}
}

func TestUpdateStatus_ArrivalOnlyOnDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-002")

	_, err := f.svc.UpdateStatus(ctx, f.employee, created.ID, &UpdateStatusRequest{
		Status:        "In Transit",
		ActualArrival: "2025-01-20",
	})
	require.ErrorIs(t, err, domainShipment.ErrArrivalDateMisused)

	detail, err := f.svc.GetShipment(ctx, f.employee, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", detail.Status)
	assert.Nil(t, detail.ActualArrival)
}

func TestUpdateStatus_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	created := f.createShipment(t, "SH-2025-003")

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker offline"))

	updated, err := f.svc.UpdateStatus(context.Background(), f.employee, created.ID, &UpdateStatusRequest{Status: "Cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", updated.Status)
}

func TestCreateShipment_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createShipment(t, "SH-2025-001")

	base := func() *CreateShipmentRequest {
		return &CreateShipmentRequest{
			ShipmentNumber:     "SH-2025-010",
			ClientID:           f.client.UserID,
			Type:               "Export",
			OriginCountry:      "Vietnam",
			DestinationCountry: "Japan",
		}
	}

	dup := base()
	dup.ShipmentNumber = "SH-2025-001"
	_, err := f.svc.CreateShipment(ctx, f.employee, dup)
	assert.ErrorIs(t, err, domainShipment.ErrShipmentNumberTaken)

	notClient := base()
	notClient.ClientID = f.employee.UserID
	_, err = f.svc.CreateShipment(ctx, f.employee, notClient)
	assert.ErrorIs(t, err, domainShipment.ErrClientRequired)

	missing := base()
	missing.ClientID = 9999
	_, err = f.svc.CreateShipment(ctx, f.employee, missing)
	assert.ErrorIs(t, err, domainShipment.ErrClientRequired)

	backwards := base()
	backwards.DepartureDate = "2025-02-10"
	backwards.ExpectedArrival = "2025-02-01"
	_, err = f.svc.CreateShipment(ctx, f.employee, backwards)
	assert.ErrorIs(t, err, domainShipment.ErrArrivalBeforeDepart)

	negative := base()
	negative.TotalValue = decimal.NewFromInt(-5)
	_, err = f.svc.CreateShipment(ctx, f.employee, negative)
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	_, err = f.svc.CreateShipment(ctx, f.client, base())
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestClientVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mine := f.createShipment(t, "SH-2025-001")

	_, err := f.svc.CreateShipment(ctx, f.employee, &CreateShipmentRequest{
		ShipmentNumber:     "SH-2025-002",
		ClientID:           f.other.UserID,
		Type:               "Export",
		OriginCountry:      "Vietnam",
		DestinationCountry: "Korea",
	})
	require.NoError(t, err)

	listed, err := f.svc.ListShipments(ctx, f.client, &ShipmentFilterRequest{ClientID: &f.other.UserID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "SH-2025-001", listed[0].ShipmentNumber)

	all, err := f.svc.ListShipments(ctx, f.employee, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "SH-2025-002", all[0].ShipmentNumber)

	_, err = f.svc.GetShipment(ctx, f.other, mine.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.ListCargoItems(ctx, f.other, mine.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	search, err := f.svc.ListShipments(ctx, f.manager, &ShipmentFilterRequest{Search: "korea"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "SH-2025-002", search[0].ShipmentNumber)
}

func TestDeleteShipment_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-001")

	item, err := f.svc.AddCargoItem(ctx, f.employee, created.ID, &CargoItemRequest{
		ItemName: "Laptops",
		Quantity: 50,
		Weight:   150,
		Value:    decimal.RequireFromString("25000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pcs", item.Unit)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	_, err = f.svc.AddTrackingUpdate(ctx, f.employee, created.ID, &TrackingUpdateRequest{
		Location: "Hai Phong", Status: "Arrived", UpdateDate: "2025-01-20",
	})
	require.NoError(t, err)

	_, err = f.svc.UploadDocument(ctx, f.employee, created.ID,
		&DocumentRequest{DocumentType: "Invoice"},
		&Upload{Name: "invoice.txt", Reader: strings.NewReader("total 15000")},
	)
	require.NoError(t, err)

	err = f.svc.DeleteShipment(ctx, f.client, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	require.NoError(t, f.svc.DeleteShipment(ctx, f.employee, created.ID))

	_, err = f.repo.GetCargoItem(ctx, item.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	updates, err := f.repo.ListTrackingUpdates(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, updates)

	paths, err := f.repo.ListDocumentPaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = f.svc.GetShipment(ctx, f.manager, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUploadDocument_FailedInsertRemovesFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-001")

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_document_create", func(tx *gorm.DB) {
		if tx.Statement.Table == "shipment_documents" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = f.svc.UploadDocument(ctx, f.employee, created.ID,
		&DocumentRequest{DocumentType: "Invoice"},
		&Upload{Name: "invoice.txt", Reader: strings.NewReader("total 15000")},
	)
	require.ErrorIs(t, err, appErrors.ErrStorage)

	names, err := f.docs.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	paths, err := f.repo.ListDocumentPaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestCargoItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-001")

	item, err := f.svc.AddCargoItem(ctx, f.employee, created.ID, &CargoItemRequest{
		ItemName: "Monitors", Quantity: 10, Unit: "box", Value: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateCargoItem(ctx, f.employee, item.ID, &CargoItemRequest{
		ItemName: "Monitors", Quantity: 12, Unit: "box", Value: decimal.NewFromInt(3600),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)

	items, err := f.svc.ListCargoItems(ctx, f.client, created.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(3600).Equal(items[0].Value))

	_, err = f.svc.AddCargoItem(ctx, f.client, created.ID, &CargoItemRequest{ItemName: "x", Quantity: 1})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.AddCargoItem(ctx, f.employee, 4242, &CargoItemRequest{ItemName: "x", Quantity: 1})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, f.svc.DeleteCargoItem(ctx, f.employee, item.ID))
	assert.ErrorIs(t, f.svc.DeleteCargoItem(ctx, f.employee, item.ID), appErrors.ErrNotFound)
}

func TestDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-001")

	doc, err := f.svc.UploadDocument(ctx, f.employee, created.ID,
		&DocumentRequest{DocumentType: "Bill of Lading"},
		&Upload{Name: "bol.txt", Reader: strings.NewReader("container MSKU1234567")},
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc.FileName, fmt.Sprintf("shipment%d_", created.ID)))
	assert.Equal(t, "clerk@employee.com", doc.UploadedByEmail)

	file, contentType, name, err := f.svc.OpenDocument(ctx, f.client, created.ID, doc.ID)
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "container MSKU1234567", string(body))
	assert.Equal(t, doc.FileName, name)
	assert.True(t, strings.HasPrefix(contentType, "text/plain"))

	_, _, _, err = f.svc.OpenDocument(ctx, f.other, created.ID, doc.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, _, _, err = f.svc.OpenDocument(ctx, f.client, created.ID, doc.ID+100)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = f.svc.UploadDocument(ctx, f.employee, created.ID, &DocumentRequest{DocumentType: "Invoice"}, nil)
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
}

func TestCustomsAndStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-001")

	_, err := f.svc.CreateShipment(ctx, f.employee, &CreateShipmentRequest{
		ShipmentNumber:     "SH-2025-002",
		ClientID:           f.client.UserID,
		Type:               "Export",
		OriginCountry:      "Vietnam",
		DestinationCountry: "Japan",
		TotalValue:         decimal.RequireFromString("500.50"),
	})
	require.NoError(t, err)

	cleared, err := f.svc.SetCustomsCleared(ctx, f.employee, created.ID, &CustomsRequest{Cleared: true})
	require.NoError(t, err)
	assert.True(t, cleared.CustomsCleared)
	assert.Equal(t, "Pending", cleared.Status)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	_, err = f.svc.UpdateStatus(ctx, f.employee, created.ID, &UpdateStatusRequest{Status: "In Transit"})
	require.NoError(t, err)

	_, err = f.svc.GetStatistics(ctx, f.employee)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	stats, err := f.svc.GetStatistics(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalShipments)
	assert.Equal(t, int64(1), stats.Imports)
	assert.Equal(t, int64(1), stats.Exports)
	assert.Equal(t, int64(1), stats.InTransit)
	assert.True(t, decimal.RequireFromString("15500.50").Equal(stats.TotalValue), stats.TotalValue.String())
}

func TestUpdateShipment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.createShipment(t, "SH-2025-001")

	notes := "fragile"
	arrival := "2025-01-05"
	_, err := f.svc.UpdateShipment(ctx, f.employee, created.ID, &UpdateShipmentRequest{ExpectedArrival: &arrival})
	assert.ErrorIs(t, err, domainShipment.ErrArrivalBeforeDepart)

	updated, err := f.svc.UpdateShipment(ctx, f.employee, created.ID, &UpdateShipmentRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "fragile", updated.Notes)
	assert.Equal(t, "Pending", updated.Status)
}

func TestTrackingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateShipment(ctx, f.employee, &CreateShipmentRequest{
		ShipmentNumber:     "SH-2025-001",
		ClientID:           f.client.UserID,
		Type:               "Import",
		OriginCountry:      "China",
		DestinationCountry: "UAE",
		TotalWeight:        100,
		TotalValue:         decimal.NewFromInt(5000),
		Currency:           "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)

	_, err = f.svc.AddCargoItem(ctx, f.employee, created.ID, &CargoItemRequest{
		ItemName: "Widgets",
		Quantity: 50,
		Unit:     "pcs",
		Weight:   100,
		Value:    decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	_, err = f.svc.AddTrackingUpdate(ctx, f.employee, created.ID, &TrackingUpdateRequest{
		Location:   "Port of Dubai",
		Status:     "In Transit",
		UpdateDate: "2025-01-10",
	})
	require.NoError(t, err)

	updates, err := f.svc.ListTrackingUpdates(ctx, f.client, created.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "Port of Dubai", updates[0].Location)
	assert.Equal(t, "In Transit", updates[0].Status)
	assert.Equal(t, "2025-01-10", updates[0].UpdateDate)

	// The tracking entry does not move the shipment itself.
	detail, err := f.svc.GetShipment(ctx, f.client, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", detail.Status)
	require.Len(t, detail.CargoItems, 1)
	assert.Equal(t, "Widgets", detail.CargoItems[0].ItemName)
}
