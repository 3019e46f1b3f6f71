package transcript

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozhaa-tech/chatbot-api/internal/config"
)

func TestOpenFileDriver(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*FileStore)
	assert.True(t, ok)
}

func TestOpenDefaultsToFile(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*FileStore)
	assert.True(t, ok)
}

func TestOpenSQLiteDriver(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "chat.db"),
	})
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "redis"`)
}
