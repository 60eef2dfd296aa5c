package record

import (
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/testutil"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *Service
	db       *sqlstore.DB
	manager  domainUser.Actor
	employee domainUser.Actor
	client   domainUser.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	return &fixture{
		svc:      NewService(sqlstore.NewRecordRepository(db), testutil.Config(t)),
		db:       db,
		manager:  testutil.CreateUser(t, db, "boss@manager.com", "pass-1234", domainUser.RoleManager),
		employee: testutil.CreateUser(t, db, "staff@employee.com", "pass-1234", domainUser.RoleEmployee),
		client:   testutil.CreateUser(t, db, "buyer@client.com", "pass-1234", domainUser.RoleClient),
	}
}

func strPtr(s string) *string { return &s }

func salary(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func employeeRequest(name, email string) *AddRecordRequest {
	return &AddRecordRequest{
		Role:         "employee",
		EmployeeName: name,
		Department:   strPtr("Operations"),
		Position:     strPtr("Clerk"),
		Salary:       salary(3200),
		HireDate:     "2024-03-01",
		Email:        email,
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Field
}

func TestAddRecord_EmployeePath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana Lima", "ana@employee.com"))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Active", resp.Status)
	require.NotNil(t, resp.HireDate)
	assert.Equal(t, "2024-03-01", *resp.HireDate)
	assert.True(t, resp.Salary.Equal(decimal.NewFromInt(3200)))
}

func TestAddRecord_EmployeeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	noSalary := employeeRequest("Ana", "ana@employee.com")
	noSalary.Salary = nil
	_, err := f.svc.AddRecord(ctx, f.manager, noSalary)
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
	assert.Equal(t, "salary", fieldOf(t, err))

	zeroSalary := employeeRequest("Ana", "ana@employee.com")
	zeroSalary.Salary = salary(0)
	_, err = f.svc.AddRecord(ctx, f.manager, zeroSalary)
	assert.Equal(t, "salary", fieldOf(t, err))

	noDepartment := employeeRequest("Ana", "ana@employee.com")
	noDepartment.Department = strPtr("  ")
	_, err = f.svc.AddRecord(ctx, f.manager, noDepartment)
	assert.Equal(t, "department", fieldOf(t, err))

	wrongDomain := employeeRequest("Ana", "ana@client.com")
	_, err = f.svc.AddRecord(ctx, f.manager, wrongDomain)
	assert.Equal(t, "email", fieldOf(t, err))

	badEmail := employeeRequest("Ana", "not-an-email")
	_, err = f.svc.AddRecord(ctx, f.manager, badEmail)
	assert.Equal(t, "email", fieldOf(t, err))
}

func TestAddRecord_ClientPathNeedsOnlyNameAndEmail(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.AddRecord(context.Background(), f.manager, &AddRecordRequest{
		Role:         "client",
		EmployeeName: "Acme Imports",
		Email:        "acme@client.com",
		Department:   strPtr("ignored"),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Department)
	assert.Nil(t, resp.Salary)
}

func TestAddRecord_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddRecord(ctx, f.client, employeeRequest("Ana", "ana@employee.com"))
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	managerRecord := employeeRequest("Second Boss", "second@manager.com")
	managerRecord.Role = "manager"
	_, err = f.svc.AddRecord(ctx, f.employee, managerRecord)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.AddRecord(ctx, f.manager, managerRecord)
	assert.NoError(t, err)
}

func TestRecords_EmployeesAreDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana", "ana@employee.com"))
	require.NoError(t, err)

	withAccount := employeeRequest("Bruno", "bruno@employee.com")
	withAccount.CreateAccount = true
	_, err = f.svc.AddRecord(ctx, f.employee, withAccount)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.GetRecord(ctx, f.employee, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.ListRecords(ctx, f.employee, nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.SearchRecords(ctx, f.manager, "ana")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.UpdateRecord(ctx, f.employee, created.ID, &UpdateRecordRequest{Salary: salary(9900)})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.svc.GetStatistics(ctx, f.employee)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = sqlstore.NewUserRepository(f.db).GetByEmail(ctx, "bruno@employee.com")
	assert.ErrorIs(t, err, appErrors.ErrNotFound, "denied request must not create an account")

	fetched, err := f.svc.GetRecord(ctx, f.manager, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Salary.Equal(decimal.NewFromInt(3200)))
}

func TestAddRecord_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana", "ana@employee.com"))
	require.NoError(t, err)

	_, err = f.svc.AddRecord(ctx, f.manager, employeeRequest("Other Ana", "ANA@employee.com"))
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)
}

func TestAddRecord_CreateAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := employeeRequest("Ana", "ana@employee.com")
	req.CreateAccount = true

	resp, err := f.svc.AddRecord(ctx, f.manager, req)
	require.NoError(t, err)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, "employee", resp.Role)
	require.NotEmpty(t, resp.GeneratedPassword)

	account, err := sqlstore.NewUserRepository(f.db).GetByEmail(ctx, "ana@employee.com")
	require.NoError(t, err)
	assert.Equal(t, *resp.UserID, account.ID)
	assert.True(t, utils.CheckPassword(account.PasswordHash, resp.GeneratedPassword, account.Salt))

	// The account email is taken even though no other record uses it.
	taken := employeeRequest("Staff", "staff@employee.com")
	taken.CreateAccount = true
	taken.Password = "chosen-pass-1"
	_, err = f.svc.AddRecord(ctx, f.manager, taken)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)

	records, err := f.svc.ListRecords(ctx, f.manager, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1, "failed account creation must not leave a record")
}

func TestSearchRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana Lima", "ana@employee.com"))
	require.NoError(t, err)

	warehouse := employeeRequest("Bruno Costa", "bruno@employee.com")
	warehouse.Department = strPtr("Warehouse")
	_, err = f.svc.AddRecord(ctx, f.manager, warehouse)
	require.NoError(t, err)

	_, err = f.svc.AddRecord(ctx, f.manager, &AddRecordRequest{Role: "client", EmployeeName: "Lima Traders", Email: "traders@client.com"})
	require.NoError(t, err)

	results, err := f.svc.SearchRecords(ctx, f.manager, "LIMA")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Lima Traders", results[0].EmployeeName, "newest first")
	assert.Equal(t, "Ana Lima", results[1].EmployeeName)

	results, err = f.svc.SearchRecords(ctx, f.manager, "wareHOUSE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bruno Costa", results[0].EmployeeName)

	results, err = f.svc.SearchRecords(ctx, f.manager, "nothing matches")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = f.svc.SearchRecords(ctx, f.client, "lima")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestListRecords_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withAccount := employeeRequest("Ana", "ana@employee.com")
	withAccount.CreateAccount = true
	_, err := f.svc.AddRecord(ctx, f.manager, withAccount)
	require.NoError(t, err)

	inactive := employeeRequest("Bruno", "bruno@employee.com")
	inactive.Status = "Inactive"
	_, err = f.svc.AddRecord(ctx, f.manager, inactive)
	require.NoError(t, err)

	results, err := f.svc.ListRecords(ctx, f.manager, &RecordFilterRequest{Status: "Inactive"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bruno", results[0].EmployeeName)

	results, err = f.svc.ListRecords(ctx, f.manager, &RecordFilterRequest{Role: "employee"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ana", results[0].EmployeeName)

	results, err = f.svc.ListRecords(ctx, f.manager, &RecordFilterRequest{Department: "operations"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestUpdateRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana", "ana@employee.com"))
	require.NoError(t, err)
	_, err = f.svc.AddRecord(ctx, f.manager, employeeRequest("Bruno", "bruno@employee.com"))
	require.NoError(t, err)

	updated, err := f.svc.UpdateRecord(ctx, f.manager, created.ID, &UpdateRecordRequest{
		Position: strPtr("Supervisor"),
		Salary:   salary(4100),
		Status:   strPtr("On Leave"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Supervisor", *updated.Position)
	assert.Equal(t, "On Leave", updated.Status)

	fetched, err := f.svc.GetRecord(ctx, f.manager, created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Salary.Equal(decimal.NewFromInt(4100)))

	_, err = f.svc.UpdateRecord(ctx, f.manager, created.ID, &UpdateRecordRequest{Email: strPtr("bruno@employee.com")})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEmail)

	_, err = f.svc.UpdateRecord(ctx, f.manager, created.ID, &UpdateRecordRequest{Salary: salary(-5)})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)

	_, err = f.svc.UpdateRecord(ctx, f.manager, 4242, &UpdateRecordRequest{Position: strPtr("x")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUpdateRecord_EmployeeFieldsStayRequired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana", "ana@employee.com"))
	require.NoError(t, err)

	_, err = f.svc.UpdateRecord(ctx, f.manager, created.ID, &UpdateRecordRequest{Department: strPtr("")})
	assert.ErrorIs(t, err, appErrors.ErrValidationFailed)
	assert.Equal(t, "department", fieldOf(t, err))

	_, err = f.svc.UpdateRecord(ctx, f.manager, created.ID, &UpdateRecordRequest{Position: strPtr("  ")})
	assert.Equal(t, "position", fieldOf(t, err))

	fetched, err := f.svc.GetRecord(ctx, f.manager, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Department)
	require.NotNil(t, fetched.Position)
	assert.Equal(t, "Operations", *fetched.Department)
	assert.Equal(t, "Clerk", *fetched.Position)

	client, err := f.svc.AddRecord(ctx, f.manager, &AddRecordRequest{Role: "client", EmployeeName: "Acme", Email: "acme@client.com"})
	require.NoError(t, err)
	updated, err := f.svc.UpdateRecord(ctx, f.manager, client.ID, &UpdateRecordRequest{Department: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Department)
}

func TestDeleteRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana", "ana@employee.com"))
	require.NoError(t, err)

	err = f.svc.DeleteRecord(ctx, f.employee, created.ID)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	require.NoError(t, f.svc.DeleteRecord(ctx, f.manager, created.ID))

	err = f.svc.DeleteRecord(ctx, f.manager, created.ID)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Contains(t, err.Error(), "record")
}

func TestGetStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddRecord(ctx, f.manager, employeeRequest("Ana", "ana@employee.com"))
	require.NoError(t, err)

	other := employeeRequest("Bruno", "bruno@employee.com")
	other.Department = strPtr("Warehouse")
	other.Salary = salary(4000)
	other.Status = "Inactive"
	_, err = f.svc.AddRecord(ctx, f.manager, other)
	require.NoError(t, err)

	_, err = f.svc.AddRecord(ctx, f.manager, &AddRecordRequest{Role: "client", EmployeeName: "Acme", Email: "acme@client.com"})
	require.NoError(t, err)

	stats, err := f.svc.GetStatistics(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRecords)
	assert.Equal(t, int64(2), stats.Departments)
	assert.Equal(t, int64(2), stats.ActiveRecords)
	assert.True(t, stats.AverageSalary.Equal(decimal.NewFromInt(3600)), stats.AverageSalary.String())
}
