package model

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserDetails UserDetails   `json:"user_details"`
	Message     string        `json:"message"`
	Service     string        `json:"service"`
	History     []HistoryTurn `json:"history"`
}

// HistoryTurn is one prior exchange turn as supplied by the client.
type HistoryTurn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// CleanHistory drops turns with a missing role or message. The client
// owns the history; the server only filters what it cannot use.
func (r ChatRequest) CleanHistory() []HistoryTurn {
	out := make([]HistoryTurn, 0, len(r.History))
	for _, h := range r.History {
		if h.Role == "" || h.Message == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}
