package cli

import (
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/jobs"
	"company-data-manager/internal/usecase/user"

	"github.com/spf13/cobra"
)

func (c *CLI) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and link records to accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := db.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			return c.printReconcile(report)
		},
	}
}

func (c *CLI) newBootstrapManagerCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "bootstrap-manager",
		Short: "Create or promote the initial manager account",
		Long: `Ensure the configured manager account exists.

A missing account is created with a random password that is written to the
credentials file. An existing non-manager account is promoted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email != "" {
				c.cfg.Bootstrap.ManagerEmail = email
			}

			db, err := c.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := db.Migrate(cmd.Context()); err != nil {
				return err
			}

			svc := user.NewService(sqlstore.NewUserRepository(db), sqlstore.NewRecordRepository(db), c.cfg)
			result, err := svc.EnsureManager(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(result)
			}
			switch {
			case result.Created:
				c.printf("Created manager %s; credentials written to %s\n", result.Email, result.CredentialsFile)
			case result.Promoted:
				c.printf("Promoted %s to manager\n", result.Email)
			default:
				c.printf("Manager %s already exists\n", result.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "manager email (overrides BOOTSTRAP_MANAGER_EMAIL)")

	return cmd
}

func (c *CLI) newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Link records to accounts by email and report conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := sqlstore.Reconcile(cmd.Context(), db)
			if err != nil {
				return err
			}
			return c.printReconcile(report)
		},
	}
}

func (c *CLI) newOrphansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List stored files that no leave request or shipment document references",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			maintenance, err := c.maintenance(db)
			if err != nil {
				return err
			}
			report, err := maintenance.FindOrphans(cmd.Context())
			if err != nil {
				return err
			}

			if c.jsonOutput {
				if err := c.outputJSON(report); err != nil {
					return err
				}
			} else {
				for _, name := range report.Attachments {
					c.printf("attachment %s\n", name)
				}
				for _, name := range report.Documents {
					c.printf("document   %s\n", name)
				}
			}

			if !report.Empty() {
				return errFindings
			}
			return nil
		},
	}
}

func (c *CLI) maintenance(db *sqlstore.DB) (*jobs.Maintenance, error) {
	uploads, err := storage.NewFileStore(c.cfg.Storage.UploadDir, c.cfg.Storage.MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	documents, err := storage.NewFileStore(c.cfg.Storage.DocumentDir, c.cfg.Storage.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	return jobs.NewMaintenance(
		db,
		c.cfg.Maintenance.Schedule,
		sqlstore.NewLeaveRepository(db),
		uploads,
		sqlstore.NewShipmentRepository(db),
		documents,
	), nil
}

func (c *CLI) printReconcile(report *sqlstore.ReconcileReport) error {
	if c.jsonOutput {
		if err := c.outputJSON(report); err != nil {
			return err
		}
	} else {
		c.printf("Linked %d record(s) to accounts\n", report.Linked)
		for _, email := range report.DuplicateEmails {
			c.printf("duplicate record email: %s\n", email)
		}
		for _, conflict := range report.Conflicts {
			c.printf("record %d (%s) is linked to %s\n", conflict.RecordID, conflict.RecordEmail, conflict.UserEmail)
		}
	}

	if !report.Clean() {
		return errFindings
	}
	return nil
}
