package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 1024)
	require.NoError(t, err)

	stored, err := store.Save(context.Background(), "user7_1700000000", "../../etc/sick note.txt", strings.NewReader("see you monday"))
	require.NoError(t, err)

	assert.Equal(t, "user7_1700000000_sick_note.txt", stored.Name)
	assert.Equal(t, int64(14), stored.Size)
	assert.True(t, strings.HasPrefix(stored.ContentType, "text/plain"))

	f, contentType, err := store.Open(stored.Name)
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "see you monday", string(body))
	assert.True(t, strings.HasPrefix(contentType, "text/plain"))
}

func TestFileStore_CollisionGetsSuffix(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)

	first, err := store.Save(context.Background(), "shipment1_1", "invoice.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "shipment1_1", "invoice.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Name, second.Name)
	assert.True(t, strings.HasPrefix(second.Name, "shipment1_1_invoice_"))
	assert.True(t, strings.HasSuffix(second.Name, ".pdf"))

	names, err := store.List()
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestFileStore_TooLarge(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 4)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "user1_1", "big.bin", strings.NewReader("0123456789"))
	assert.ErrorIs(t, err, ErrTooLarge)

	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names, "partial file must be removed")
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../secret", "a/b"} {
		_, _, err := store.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}
