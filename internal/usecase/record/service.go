package record

import (
	"company-data-manager/internal/config"
	domainRecord "company-data-manager/internal/domain/record"
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/logger"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service implements company record use cases. Records carry salaries and
// can create login accounts, so every operation needs a manager.
type Service struct {
	recordRepo domainRecord.Repository
	config     *config.Config
}

func NewService(recordRepo domainRecord.Repository, cfg *config.Config) *Service {
	return &Service{
		recordRepo: recordRepo,
		config:     cfg,
	}
}

func (s *Service) AddRecord(ctx context.Context, actor domainUser.Actor, req *AddRecordRequest) (*RecordResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	role := domainUser.Role(req.Role)

	email := utils.SanitizeEmail(req.Email)
	if err := ValidateEmailDomain(&s.config.Records, role, email); err != nil {
		return nil, err
	}

	rec := &domainRecord.EmployeeRecord{
		EmployeeName: utils.SanitizeString(req.EmployeeName),
		Email:        email,
		Phone:        utils.SanitizePhone(req.Phone),
		Status:       domainRecord.StatusActive,
	}
	if rec.EmployeeName == "" {
		return nil, appErrors.Validation("employee_name", "employee_name is required")
	}
	if req.Status != "" {
		rec.Status = domainRecord.Status(req.Status)
	}

	hireDate, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return nil, err
	}
	rec.HireDate = hireDate

	if role != domainUser.RoleClient {
		department, position := optionalText(req.Department), optionalText(req.Position)
		if err := ValidateEmployeeFields(department, position, req.Salary); err != nil {
			return nil, err
		}
		rec.Department = department
		rec.Position = position
		rec.Salary = req.Salary
	}

	inUse, err := s.recordRepo.EmailInUse(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if inUse {
		logger.Warn("Record creation with existing email",
			zap.String("email", email),
			zap.String("event", "record_create_failed_duplicate_email"),
		)
		return nil, appErrors.DuplicateEmail(email)
	}

	if !req.CreateAccount {
		if err := s.recordRepo.Create(ctx, rec); err != nil {
			return nil, err
		}
		s.logCreated(actor, rec)
		return ToRecordResponse(rec), nil
	}

	password := req.Password
	generated := password == ""
	if generated {
		if password, err = utils.GeneratePassword(); err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
	}

	account, err := newAccount(email, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.recordRepo.CreateWithAccount(ctx, rec, account); err != nil {
		return nil, err
	}
	s.logCreated(actor, rec)

	resp := ToRecordResponse(rec)
	if generated {
		resp.GeneratedPassword = password
	}
	return resp, nil
}

func (s *Service) logCreated(actor domainUser.Actor, rec *domainRecord.EmployeeRecord) {
	fields := []zap.Field{
		zap.Uint("record_id", rec.ID),
		zap.String("email", rec.Email),
		zap.Uint("created_by", actor.UserID),
		zap.String("event", "record_created"),
	}
	if rec.UserID != nil {
		fields = append(fields, zap.Uint("user_id", *rec.UserID))
	}
	logger.Info("Company record created", fields...)
}

func (s *Service) GetRecord(ctx context.Context, actor domainUser.Actor, recordID uint) (*RecordResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}

	rec, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return ToRecordResponse(rec), nil
}

// SearchRecords matches term case-insensitively against name, department,
// position and email, newest first.
func (s *Service) SearchRecords(ctx context.Context, actor domainUser.Actor, term string) ([]*RecordResponse, error) {
	return s.ListRecords(ctx, actor, &RecordFilterRequest{Search: term})
}

func (s *Service) ListRecords(ctx context.Context, actor domainUser.Actor, req *RecordFilterRequest) ([]*RecordResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	if req != nil {
		if err := utils.ValidateStruct(req); err != nil {
			return nil, utils.ValidationError(err)
		}
	}

	records, err := s.recordRepo.List(ctx, ToDomainFilter(req))
	if err != nil {
		return nil, err
	}
	return ToRecordResponses(records), nil
}

func (s *Service) UpdateRecord(ctx context.Context, actor domainUser.Actor, recordID uint, req *UpdateRecordRequest) (*RecordResponse, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, utils.ValidationError(err)
	}

	rec, err := s.recordRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if req.EmployeeName != nil {
		name := utils.SanitizeString(*req.EmployeeName)
		if name == "" {
			return nil, appErrors.Validation("employee_name", "employee_name is required")
		}
		rec.EmployeeName = name
	}
	if req.Department != nil {
		rec.Department = optionalText(req.Department)
	}
	if req.Position != nil {
		rec.Position = optionalText(req.Position)
	}
	if req.Salary != nil {
		if !req.Salary.IsPositive() {
			return nil, domainRecord.ErrSalaryRequired
		}
		rec.Salary = req.Salary
	}
	if req.Department != nil || req.Position != nil || req.Salary != nil {
		if role, ok := s.recordRole(rec); ok && role != domainUser.RoleClient {
			if err := ValidateEmployeeFields(rec.Department, rec.Position, rec.Salary); err != nil {
				return nil, err
			}
		}
	}
	if req.HireDate != nil {
		if rec.HireDate, err = parseDate("hire_date", *req.HireDate); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		rec.Phone = utils.SanitizePhone(*req.Phone)
	}
	if req.Status != nil {
		rec.Status = domainRecord.Status(*req.Status)
	}

	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		if err := s.checkEmailChange(ctx, rec, email); err != nil {
			return nil, err
		}
		rec.Email = email
	}

	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return nil, err
	}

	logger.Info("Company record updated",
		zap.Uint("record_id", rec.ID),
		zap.Uint("updated_by", actor.UserID),
		zap.String("event", "record_updated"),
	)

	return ToRecordResponse(rec), nil
}

// recordRole is the role of the linked account, or the one implied by the
// email domain when the record has no account.
func (s *Service) recordRole(rec *domainRecord.EmployeeRecord) (domainUser.Role, bool) {
	if rec.Role != "" {
		return rec.Role, true
	}
	return roleForEmail(&s.config.Records, rec.Email)
}

func (s *Service) checkEmailChange(ctx context.Context, rec *domainRecord.EmployeeRecord, email string) error {
	if rec.Role != "" {
		if err := ValidateEmailDomain(&s.config.Records, rec.Role, email); err != nil {
			return err
		}
	} else if _, ok := roleForEmail(&s.config.Records, email); !ok {
		return appErrors.Validation("email", "email must use a company or client domain")
	}

	inUse, err := s.recordRepo.EmailInUse(ctx, email, rec.ID)
	if err != nil {
		return err
	}
	if inUse {
		return appErrors.DuplicateEmail(email)
	}
	return nil
}

// DeleteRecord removes a record. The linked account, if any, is kept.
func (s *Service) DeleteRecord(ctx context.Context, actor domainUser.Actor, recordID uint) error {
	if !actor.IsManager() {
		return domainUser.ErrManagerOnly
	}

	if err := s.recordRepo.Delete(ctx, recordID); err != nil {
		return err
	}

	logger.Info("Company record deleted",
		zap.Uint("record_id", recordID),
		zap.Uint("deleted_by", actor.UserID),
		zap.String("event", "record_deleted"),
	)
	return nil
}

func (s *Service) GetStatistics(ctx context.Context, actor domainUser.Actor) (*domainRecord.Statistics, error) {
	if !actor.IsManager() {
		return nil, domainUser.ErrManagerOnly
	}
	return s.recordRepo.GetStatistics(ctx)
}

func newAccount(email, password string, role domainUser.Role) (*domainUser.User, error) {
	salt, err := utils.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := utils.HashPassword(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &domainUser.User{
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
	}, nil
}
