// Package cli implements companyctl, the operator tool for migrations,
// manager bootstrap and data consistency checks.
package cli

import (
	"company-data-manager/internal/config"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitFindings = 1
	ExitInternal = 2
)

// errFindings is returned when a check ran but found problems.
var errFindings = errors.New("problems found")

type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer
	cfg     *config.Config

	jsonOutput bool
	logFile    string
}

func New() *CLI {
	c := &CLI{out: os.Stdout}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the command line and returns the process exit code.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	c.rootCmd.SetArgs(args)
	if err := c.rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errFindings) {
			return ExitFindings
		}
		fmt.Fprintf(os.Stderr, "companyctl: %v\n", err)
		return ExitInternal
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "companyctl",
		Short:         "Operator commands for the company data manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().StringVar(&c.logFile, "log-file", "", "also write logs to this file")

	cmd.AddCommand(c.newMigrateCmd())
	cmd.AddCommand(c.newBootstrapManagerCmd())
	cmd.AddCommand(c.newReconcileCmd())
	cmd.AddCommand(c.newOrphansCmd())

	return cmd
}

func (c *CLI) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	logFile := cfg.Log.File
	if c.logFile != "" {
		logFile = c.logFile
	}
	return logger.Init(cfg.Server.Environment, logFile)
}

func (c *CLI) openDB() (*sqlstore.DB, error) {
	db, err := sqlstore.NewDB(c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
