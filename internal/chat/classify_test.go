package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Kind
	}{
		{"plain question", "What services do you offer?", KindNormal},
		{"end marker", "[User ended the chat]", KindEndOfChat},
		{"end marker embedded", "bye now [User ended the chat]", KindEndOfChat},
		{"support keyword", "I need SUPPORT with billing", KindSupport},
		{"contact keyword", "How do I Contact you?", KindSupport},
		{"empty", "", KindNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestClassifyMarkerWins(t *testing.T) {
	// The close marker takes priority even when support keywords appear.
	assert.Equal(t, KindEndOfChat, Classify("contact support [User ended the chat]"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "normal", KindNormal.String())
	assert.Equal(t, "end_of_chat", KindEndOfChat.String())
	assert.Equal(t, "support", KindSupport.String())
}
