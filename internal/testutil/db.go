package testutil

import (
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormLogger "gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database migrated with the same
// schema as production. It is closed when the test ends.
func NewTestDB(t *testing.T) *sqlstore.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := sqlstore.Open(sqlite.Open(dsn), gormLogger.Default.LogMode(gormLogger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	return db
}
