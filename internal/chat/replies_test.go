package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReplies(t *testing.T) {
	replies := DefaultReplies()

	assert.Contains(t, replies.ThankYou, "Thank you for chatting")
	assert.Contains(t, replies.SupportAck, "groupsozhaatech@gmail.com")
	assert.NotEmpty(t, replies.ApologyEmpty)
	assert.NotEmpty(t, replies.ApologyUnavailable)
	assert.NotEmpty(t, replies.CompanyAlert)
	assert.NotEmpty(t, replies.UserThanks)
}

func TestLoadRepliesEmptyPath(t *testing.T) {
	replies, err := LoadReplies("")
	require.NoError(t, err)
	assert.Equal(t, DefaultReplies(), replies)
}

func TestLoadRepliesPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.yaml")
	data := "thank_you: \"Thanks, goodbye!\"\nsupport_ack: \"Write to help@example.com\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	replies, err := LoadReplies(path)
	require.NoError(t, err)

	assert.Equal(t, "Thanks, goodbye!", replies.ThankYou)
	assert.Equal(t, "Write to help@example.com", replies.SupportAck)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultReplies().CompanyAlert, replies.CompanyAlert)
	assert.Equal(t, DefaultReplies().ApologyEmpty, replies.ApologyEmpty)
}

func TestLoadRepliesMissingFile(t *testing.T) {
	replies, err := LoadReplies(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	// Defaults still come back so callers can degrade gracefully.
	assert.Equal(t, DefaultReplies(), replies)
}

func TestLoadRepliesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thank_you: [unterminated"), 0o644))

	_, err := LoadReplies(path)
	assert.Error(t, err)
}
