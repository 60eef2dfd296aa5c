package jobs

import (
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/logger"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FileLister lists the stored file names of one upload directory.
type FileLister interface {
	List() ([]string, error)
}

// ReferenceSource returns the file names the database still points at.
type ReferenceSource func(ctx context.Context) ([]string, error)

// OrphanReport lists stored files no row references, per directory.
type OrphanReport struct {
	Attachments []string `json:"attachments"`
	Documents   []string `json:"documents"`
}

func (r *OrphanReport) Empty() bool {
	return len(r.Attachments) == 0 && len(r.Documents) == 0
}

// Maintenance checks record/account links and reports unreferenced uploads.
// It never deletes anything.
type Maintenance struct {
	db          *sqlstore.DB
	schedule    string
	attachments FileLister
	attachRefs  ReferenceSource
	documents   FileLister
	docRefs     ReferenceSource
}

func NewMaintenance(
	db *sqlstore.DB,
	schedule string,
	leaveRepo *sqlstore.LeaveRepository,
	attachments FileLister,
	shipmentRepo *sqlstore.ShipmentRepository,
	documents FileLister,
) *Maintenance {
	return &Maintenance{
		db:          db,
		schedule:    schedule,
		attachments: attachments,
		attachRefs:  leaveRepo.ListAttachments,
		documents:   documents,
		docRefs:     shipmentRepo.ListDocumentPaths,
	}
}

func (m *Maintenance) Name() string {
	return "maintenance"
}

func (m *Maintenance) Schedule() string {
	return m.schedule
}

func (m *Maintenance) Execute(ctx context.Context) error {
	report, err := sqlstore.Reconcile(ctx, m.db)
	if err != nil {
		return err
	}
	report.Log()

	orphans, err := m.FindOrphans(ctx)
	if err != nil {
		return err
	}
	if !orphans.Empty() {
		logger.Warn("Found stored files without a database reference",
			zap.Strings("attachments", orphans.Attachments),
			zap.Strings("documents", orphans.Documents),
			zap.String("event", "orphan_files_found"),
		)
	}

	return nil
}

func (m *Maintenance) FindOrphans(ctx context.Context) (*OrphanReport, error) {
	attachments, err := orphans(ctx, m.attachments, m.attachRefs)
	if err != nil {
		return nil, fmt.Errorf("leave attachments: %w", err)
	}
	documents, err := orphans(ctx, m.documents, m.docRefs)
	if err != nil {
		return nil, fmt.Errorf("shipment documents: %w", err)
	}

	return &OrphanReport{Attachments: attachments, Documents: documents}, nil
}

func orphans(ctx context.Context, files FileLister, refs ReferenceSource) ([]string, error) {
	stored, err := files.List()
	if err != nil {
		return nil, err
	}
	referenced, err := refs(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		known[name] = struct{}{}
	}

	var unreferenced []string
	for _, name := range stored {
		if _, ok := known[name]; !ok {
			unreferenced = append(unreferenced, name)
		}
	}
	return unreferenced, nil
}
