package leave

import (
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/testutil"
	appErrors "company-data-manager/pkg/errors"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc      *Service
	db       *sqlstore.DB
	files    *storage.FileStore
	manager  domainUser.Actor
	employee domainUser.Actor
	client   domainUser.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	files, err := storage.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	return &fixture{
		svc:      NewService(sqlstore.NewLeaveRepository(db), files),
		db:       db,
		files:    files,
		manager:  testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleManager),
		employee: testutil.CreateUser(t, db, "staff@employee.com", "pass-1234", domainUser.RoleEmployee),
		client:   testutil.CreateUser(t, db, "buyer@client.com", "pass-1234", domainUser.RoleClient),
	}
}

func TestSubmitLeave_DateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitLeave(ctx, f.employee, &SubmitLeaveRequest{StartDate: "2025-02-03", EndDate: "2025-02-01"}, nil)
	require.ErrorIs(t, err, appErrors.ErrValidationFailed)

	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "end_date", appErr.Field)

	sameDay, err := f.svc.SubmitLeave(ctx, f.employee, &SubmitLeaveRequest{StartDate: "2025-02-03", EndDate: "2025-02-03"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pending", sameDay.Status)
	assert.Equal(t, "Other", sameDay.LeaveType)

	_, err = f.svc.SubmitLeave(ctx, f.employee, &SubmitLeaveRequest{StartDate: "2025-13-01", EndDate: "2025-02-03"}, nil)
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
}

func TestLeaveApprovalFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.SubmitLeave(ctx, f.client, &SubmitLeaveRequest{
		StartDate: "2025-02-01",
		EndDate:   "2025-02-03",
		LeaveType: "Sick",
	}, nil)
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, f.manager)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, submitted.ID, all[0].ID)
	assert.Equal(t, "Pending", all[0].Status)
	assert.Equal(t, "buyer@client.com", all[0].UserEmail)

	resolved, err := f.svc.ResolveLeave(ctx, f.manager, submitted.ID, &ResolveLeaveRequest{Status: "Approved", Response: "Enjoy"})
	require.NoError(t, err)
	assert.Equal(t, "Approved", resolved.Status)

	mine, err := f.svc.ListMine(ctx, f.client)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Approved", mine[0].Status)
	assert.Equal(t, "Enjoy", mine[0].AdminResponse)
	assert.Equal(t, "Sick", mine[0].LeaveType)
	assert.Equal(t, "2025-02-01", mine[0].StartDate)
	assert.Equal(t, "2025-02-03", mine[0].EndDate)
}

func TestResolveLeave_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.SubmitLeave(ctx, f.employee, &SubmitLeaveRequest{StartDate: "2025-03-01", EndDate: "2025-03-02"}, nil)
	require.NoError(t, err)

	_, err = f.svc.ResolveLeave(ctx, f.manager, submitted.ID, &ResolveLeaveRequest{Status: "Rejected", Response: "Busy week"})
	require.NoError(t, err)

	for _, status := range []string{"Approved", "Rejected"} {
		_, err = f.svc.ResolveLeave(ctx, f.manager, submitted.ID, &ResolveLeaveRequest{Status: status})
		assert.ErrorIs(t, err, appErrors.ErrValidationFailed, status)
	}

	_, err = f.svc.ResolveLeave(ctx, f.manager, submitted.ID, &ResolveLeaveRequest{Status: "Pending"})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	mine, err := f.svc.ListMine(ctx, f.employee)
	require.NoError(t, err)
	assert.Equal(t, "Rejected", mine[0].Status)
	assert.Equal(t, "Busy week", mine[0].AdminResponse)
}

func TestResolveLeave_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.SubmitLeave(ctx, f.client, &SubmitLeaveRequest{StartDate: "2025-03-01", EndDate: "2025-03-02"}, nil)
	require.NoError(t, err)

	_, err = f.svc.ResolveLeave(ctx, f.employee, submitted.ID, &ResolveLeaveRequest{Status: "Approved"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.ListAll(ctx, f.employee)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.ResolveLeave(ctx, f.manager, 777, &ResolveLeaveRequest{Status: "Approved"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSubmitLeave_FailedInsertRemovesAttachment(t *testing.T) {
	f := newFixture(t)

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_leave_create", func(tx *gorm.DB) {
		if tx.Statement.Table == "leave_requests" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitLeave(context.Background(), f.employee,
		&SubmitLeaveRequest{StartDate: "2025-04-01", EndDate: "2025-04-02"},
		&Attachment{Name: "note.txt", Reader: strings.NewReader("back on friday")},
	)
	require.ErrorIs(t, err, appErrors.ErrStorage)

	names, err := f.files.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSubmitLeave_Attachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submitted, err := f.svc.SubmitLeave(ctx, f.employee,
		&SubmitLeaveRequest{StartDate: "2025-04-01", EndDate: "2025-04-02", LeaveType: "Sick"},
		&Attachment{Name: "doctor note.txt", Reader: strings.NewReader("rest for two days")},
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(submitted.Attachment, fmt.Sprintf("user%d_", f.employee.UserID)))
	assert.True(t, strings.HasSuffix(submitted.Attachment, "_doctor_note.txt"))

	file, contentType, name, err := f.svc.OpenAttachment(ctx, f.employee, submitted.ID)
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "rest for two days", string(body))
	assert.Equal(t, submitted.Attachment, name)
	assert.True(t, strings.HasPrefix(contentType, "text/plain"))

	managerFile, _, _, err := f.svc.OpenAttachment(ctx, f.manager, submitted.ID)
	require.NoError(t, err)
	managerFile.Close()

	_, _, _, err = f.svc.OpenAttachment(ctx, f.client, submitted.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
