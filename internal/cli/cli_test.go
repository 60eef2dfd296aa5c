package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "company.db"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("DOCUMENT_DIR", filepath.Join(dir, "documents"))
	t.Setenv("BOOTSTRAP_MANAGER_EMAIL", "boss@manager.com")
	t.Setenv("BOOTSTRAP_CREDENTIALS_FILE", filepath.Join(dir, "manager_credentials.txt"))
	return dir
}

func run(t *testing.T, args ...string) (int, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	c := New()
	c.out = &out
	return c.Execute(context.Background(), args), &out
}

func TestBootstrapManager(t *testing.T) {
	dir := setupEnv(t)

	code, out := run(t, "bootstrap-manager", "--json")
	require.Equal(t, ExitSuccess, code, out.String())

	var result struct {
		Email   string `json:"email"`
		Created bool   `json:"created"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.True(t, result.Created)
	assert.Equal(t, "boss@manager.com", result.Email)

	creds, err := os.ReadFile(filepath.Join(dir, "manager_credentials.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(creds), "boss@manager.com")

	code, out = run(t, "bootstrap-manager")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out.String(), "already exists")
}

func TestOrphansReportsUnreferencedFiles(t *testing.T) {
	dir := setupEnv(t)

	code, _ := run(t, "migrate")
	require.Equal(t, ExitSuccess, code)

	code, _ = run(t, "orphans")
	require.Equal(t, ExitSuccess, code)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "documents", "shipment1_1700000000_bill.pdf"), []byte("x"), 0o600))

	code, out := run(t, "orphans")
	assert.Equal(t, ExitFindings, code)
	assert.Contains(t, out.String(), "shipment1_1700000000_bill.pdf")
}
