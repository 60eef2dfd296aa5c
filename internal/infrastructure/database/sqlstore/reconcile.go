package sqlstore

import (
	"company-data-manager/internal/logger"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LinkConflict is a record linked to a user whose email differs from the record's.
type LinkConflict struct {
	RecordID    uint   `json:"record_id"`
	RecordEmail string `json:"record_email"`
	UserEmail   string `json:"user_email"`
}

// ReconcileReport is the outcome of matching company records to user accounts.
type ReconcileReport struct {
	Linked          int64          `json:"linked"`
	DuplicateEmails []string       `json:"duplicate_emails"`
	Conflicts       []LinkConflict `json:"conflicts"`
	CheckedAt       time.Time      `json:"checked_at"`
}

func (r *ReconcileReport) Clean() bool {
	return len(r.DuplicateEmails) == 0 && len(r.Conflicts) == 0
}

func (r *ReconcileReport) Log() {
	fields := []zap.Field{
		zap.Int64("linked", r.Linked),
		zap.Int("duplicate_emails", len(r.DuplicateEmails)),
		zap.Int("conflicts", len(r.Conflicts)),
		zap.String("event", "records_reconciled"),
	}
	if r.Clean() {
		logger.Info("Record reconciliation finished", fields...)
		return
	}
	logger.Warn("Record reconciliation found inconsistencies",
		append(fields,
			zap.Strings("duplicate_email_list", r.DuplicateEmails),
			zap.Any("conflict_list", r.Conflicts),
		)...,
	)
}

// Reconcile links unlinked records to the user with the same email, provided
// no other record shares that email, and reports what it could not resolve.
func Reconcile(ctx context.Context, db *DB) (*ReconcileReport, error) {
	report := &ReconcileReport{CheckedAt: time.Now()}
	conn := db.DB.WithContext(ctx)

	result := conn.Exec(`
		UPDATE company_records
		SET user_id = (SELECT u.id FROM users u WHERE LOWER(u.email) = LOWER(company_records.email))
		WHERE user_id IS NULL
		  AND EXISTS (SELECT 1 FROM users u WHERE LOWER(u.email) = LOWER(company_records.email))
		  AND (SELECT COUNT(*) FROM company_records r2 WHERE LOWER(r2.email) = LOWER(company_records.email)) = 1
	`)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to link records to users: %w", result.Error)
	}
	report.Linked = result.RowsAffected

	err := conn.Raw(`
		SELECT LOWER(email) AS email
		FROM company_records
		GROUP BY LOWER(email)
		HAVING COUNT(*) > 1
		ORDER BY LOWER(email)
	`).Scan(&report.DuplicateEmails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate record emails: %w", err)
	}

	err = conn.Raw(`
		SELECT r.id AS record_id, r.email AS record_email, u.email AS user_email
		FROM company_records r
		JOIN users u ON u.id = r.user_id
		WHERE LOWER(r.email) <> LOWER(u.email)
		ORDER BY r.id
	`).Scan(&report.Conflicts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find record link conflicts: %w", err)
	}

	return report, nil
}
