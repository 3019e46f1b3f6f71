package transcript

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

const (
	jsonFilename = "transcripts.json"
	xlsxFilename = "full_chat_history.xlsx"
)

// FileStore keeps two sinks under one directory: an append-only JSON
// array of session records, and an .xlsx snapshot that is rebuilt by
// reading the existing sheet, appending the new rows, and rewriting the
// whole file. Both rewrites happen under a single mutex, so concurrent
// requests cannot race each other within this process.
type FileStore struct {
	mu       sync.Mutex
	jsonPath string
	xlsxPath string
}

// NewFileStore creates the storage directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "chat_data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "transcript: create dir %s", dir)
	}
	return &FileStore{
		jsonPath: filepath.Join(dir, jsonFilename),
		xlsxPath: filepath.Join(dir, xlsxFilename),
	}, nil
}

// XLSXPath returns the location of the tabular snapshot file.
func (s *FileStore) XLSXPath() string { return s.xlsxPath }

func (s *FileStore) Append(ctx context.Context, rec model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendJSON(rec); err != nil {
		return err
	}
	return s.appendXLSX(rec.Transcript)
}

func (s *FileStore) appendJSON(rec model.SessionRecord) error {
	records := s.readRecords()
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "transcript: marshal records")
	}
	if err := os.WriteFile(s.jsonPath, data, 0o644); err != nil {
		return eris.Wrap(err, "transcript: write json log")
	}
	return nil
}

// readRecords loads the JSON log. A missing or unparseable file is
// treated as an empty log, not an error.
func (s *FileStore) readRecords() []model.SessionRecord {
	data, err := os.ReadFile(s.jsonPath)
	if err != nil {
		return nil
	}
	var records []model.SessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		zap.L().Warn("transcript: json log unreadable, starting fresh",
			zap.String("path", s.jsonPath),
			zap.Error(err),
		)
		return nil
	}
	return records
}

func (s *FileStore) appendXLSX(entries []model.TranscriptEntry) error {
	var (
		f     *xlsx.File
		sheet *xlsx.Sheet
		err   error
	)

	if _, statErr := os.Stat(s.xlsxPath); statErr == nil {
		f, err = xlsx.OpenFile(s.xlsxPath)
		if err != nil {
			return eris.Wrap(err, "transcript: open snapshot")
		}
		if len(f.Sheets) == 0 {
			return eris.New("transcript: snapshot has no sheets")
		}
		sheet = f.Sheets[0]
	} else {
		// Missing snapshot is an empty table.
		f, sheet, err = newWorkbook()
		if err != nil {
			return err
		}
	}

	appendRows(sheet, entries)

	if err := f.Save(s.xlsxPath); err != nil {
		return eris.Wrap(err, "transcript: save snapshot")
	}
	return nil
}

func (s *FileStore) Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []model.TranscriptEntry
	for _, rec := range s.readRecords() {
		entries = append(entries, rec.Transcript...)
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func (s *FileStore) ExportXLSX(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.xlsxPath)
	if err != nil {
		if os.IsNotExist(err) {
			return workbookBytes(nil)
		}
		return nil, eris.Wrap(err, "transcript: read snapshot")
	}
	return data, nil
}

func (s *FileStore) Close() error { return nil }
