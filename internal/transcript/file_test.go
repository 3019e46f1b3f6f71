package transcript

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

func testRecord(msgs ...string) model.SessionRecord {
	user := model.UserDetails{Name: "Asha", Email: "asha@example.com", Phone: "+919876543210"}
	rec := model.SessionRecord{
		ID:         uuid.New().String(),
		User:       user,
		Service:    "web-design",
		CapturedAt: time.Now().UTC(),
	}
	for i, m := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		rec.Transcript = append(rec.Transcript, model.NewEntry(role, m, user, rec.Service))
	}
	return rec
}

func openSheet(t *testing.T, path string) *xlsx.Sheet {
	t.Helper()
	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, f.Sheets)
	return f.Sheets[0]
}

func TestFileStoreAppend(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	rec := testRecord("Hello", "Hi! How can I help?")
	require.NoError(t, s.Append(context.Background(), rec))

	// JSON log grew by one record.
	data, err := os.ReadFile(filepath.Join(dir, jsonFilename))
	require.NoError(t, err)
	var records []model.SessionRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	require.Len(t, records[0].Transcript, 2)
	assert.Equal(t, model.RoleUser, records[0].Transcript[0].Role)
	assert.Equal(t, "Hello", records[0].Transcript[0].Message)
	assert.Equal(t, model.RoleAssistant, records[0].Transcript[1].Role)

	// Snapshot has a header plus one row per entry.
	sheet := openSheet(t, s.XLSXPath())
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "timestamp", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "user", sheet.Rows[1].Cells[1].String())
	assert.Equal(t, "Hello", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "assistant", sheet.Rows[2].Cells[1].String())
}

func TestFileStoreAppendNotIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	rec := testRecord("ping", "pong")
	require.NoError(t, s.Append(context.Background(), rec))
	require.NoError(t, s.Append(context.Background(), rec))

	// Duplicate rows are kept: append-only means no deduplication.
	sheet := openSheet(t, s.XLSXPath())
	assert.Len(t, sheet.Rows, 5)

	entries, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestFileStoreMissingFilesAreEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Export of an empty store is a valid workbook with only the header.
	data, err := s.ExportXLSX(context.Background())
	require.NoError(t, err)
	f, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.NotEmpty(t, f.Sheets)
	assert.Len(t, f.Sheets[0].Rows, 1)
}

func TestFileStoreCorruptJSONStartsFresh(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonFilename), []byte("{not json"), 0o644))

	require.NoError(t, s.Append(context.Background(), testRecord("Hello", "Hi")))

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileStoreRecentWindow(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Append(context.Background(), testRecord("a", "b")))
	require.NoError(t, s.Append(context.Background(), testRecord("c", "d")))

	entries, err := s.Recent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Message)
	assert.Equal(t, "c", entries[1].Message)
	assert.Equal(t, "d", entries[2].Message)
}

func TestFileStoreConcurrentAppends(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(context.Background(), testRecord("q", "a")))
		}()
	}
	wg.Wait()

	entries, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, writers*2)

	sheet := openSheet(t, s.XLSXPath())
	assert.Len(t, sheet.Rows, writers*2+1)
}
