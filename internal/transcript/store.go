package transcript

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sozhaa-tech/chatbot-api/internal/config"
	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

// Store persists captured chat sessions. The log is append-only: no
// entry is ever edited or deleted, and re-appending identical rows
// duplicates them.
type Store interface {
	// Append durably records one captured session.
	Append(ctx context.Context, rec model.SessionRecord) error
	// Recent returns the last n transcript entries in chronological order.
	Recent(ctx context.Context, n int) ([]model.TranscriptEntry, error)
	// ExportXLSX materializes the full tabular snapshot as an .xlsx
	// workbook, suitable for an email attachment.
	ExportXLSX(ctx context.Context) ([]byte, error)
	Close() error
}

// Open constructs the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Dir)
	case "sqlite":
		s, err := NewSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("transcript: unknown store driver %q", cfg.Driver)
	}
}
