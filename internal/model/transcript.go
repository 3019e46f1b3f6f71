package model

import "time"

// Role identifies the speaker of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is one turn of a conversation. Entries are append-only;
// nothing in the system edits or deletes one after it is written.
type TranscriptEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
}

// NewEntry builds a TranscriptEntry stamped with the current UTC time.
func NewEntry(role Role, message string, user UserDetails, service string) TranscriptEntry {
	return TranscriptEntry{
		Timestamp: time.Now().UTC(),
		Role:      role,
		Message:   message,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Service:   service,
	}
}

// SessionRecord is the unit of persistence: one captured exchange (a
// single turn, or the full history at end-of-chat) plus requester details.
type SessionRecord struct {
	ID         string            `json:"id"`
	User       UserDetails       `json:"user"`
	Service    string            `json:"service"`
	Transcript []TranscriptEntry `json:"transcript"`
	CapturedAt time.Time         `json:"captured_at"`
}

// UserDetails identifies the visitor on the other end of the widget.
type UserDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SeedSnippet is one pre-fetched company page, truncated for prompting.
type SeedSnippet struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SnapshotColumns is the column order of the tabular transcript export.
var SnapshotColumns = []string{"timestamp", "role", "message", "service", "name", "email", "phone"}

// Row flattens an entry into SnapshotColumns order.
func (e TranscriptEntry) Row() []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		string(e.Role),
		e.Message,
		e.Service,
		e.Name,
		e.Email,
		e.Phone,
	}
}
