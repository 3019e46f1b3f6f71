package chat

import "strings"

// EndOfChatMarker is the literal message the widget sends when the user
// closes the chat window.
const EndOfChatMarker = "[User ended the chat]"

// Kind is the routing decision for an incoming message.
type Kind int

const (
	KindNormal Kind = iota
	KindEndOfChat
	KindSupport
)

func (k Kind) String() string {
	switch k {
	case KindEndOfChat:
		return "end_of_chat"
	case KindSupport:
		return "support"
	default:
		return "normal"
	}
}

// Classify routes a message. The end-of-chat marker wins over the
// support keywords, which are matched as case-insensitive substrings.
func Classify(message string) Kind {
	if strings.Contains(message, EndOfChatMarker) {
		return KindEndOfChat
	}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "support") || strings.Contains(lower, "contact") {
		return KindSupport
	}
	return KindNormal
}
