package jobs

import (
	"company-data-manager/internal/domain/leave"
	domainShipment "company-data-manager/internal/domain/shipment"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/testutil"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenance_FindOrphans(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	client := testutil.CreateUser(t, db, "buyer@client.com", "pass-1234", domainUser.RoleClient)

	attachments, err := storage.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	documents, err := storage.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	kept, err := attachments.Save(ctx, "user1_1", "note.txt", strings.NewReader("kept"))
	require.NoError(t, err)
	stray, err := attachments.Save(ctx, "user1_2", "note.txt", strings.NewReader("stray"))
	require.NoError(t, err)
	doc, err := documents.Save(ctx, "shipment1_1", "invoice.txt", strings.NewReader("invoice"))
	require.NoError(t, err)

	leaveRepo := sqlstore.NewLeaveRepository(db)
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, leaveRepo.Create(ctx, &leave.LeaveRequest{
		UserID:     client.UserID,
		StartDate:  day,
		EndDate:    day,
		LeaveType:  leave.TypeSick,
		Status:     leave.StatusPending,
		Attachment: kept.Name,
	}))

	shipmentRepo := sqlstore.NewShipmentRepository(db)
	shipment := &domainShipment.Shipment{
		ShipmentNumber:     "SH-2025-001",
		ClientID:           client.UserID,
		Type:               domainShipment.TypeImport,
		OriginCountry:      "China",
		DestinationCountry: "UAE",
	}
	require.NoError(t, shipmentRepo.Create(ctx, shipment))

	m := NewMaintenance(db, "@hourly", leaveRepo, attachments, shipmentRepo, documents)

	report, err := m.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{stray.Name}, report.Attachments)
	assert.Equal(t, []string{doc.Name}, report.Documents)

	require.NoError(t, shipmentRepo.AddDocument(ctx, &domainShipment.Document{
		ShipmentID:   shipment.ID,
		DocumentType: "Invoice",
		FilePath:     doc.Name,
	}))

	report, err = m.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Documents)
	assert.False(t, report.Empty())

	require.NoError(t, m.Execute(ctx))
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	db := testutil.NewTestDB(t)
	files, err := storage.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	m := NewMaintenance(db, "not a schedule", sqlstore.NewLeaveRepository(db), files, sqlstore.NewShipmentRepository(db), files)

	s := NewScheduler(m)
	assert.Error(t, s.Start(context.Background()))
}
