package chat

import "time"

// ConversationRef is the client's pointer to a server-side conversation
// record. ID is server-assigned; zero means the reference is provisional and
// must never be persisted as authoritative.
type ConversationRef struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Provisional reports whether the server has not yet confirmed this
// conversation.
func (r ConversationRef) Provisional() bool {
	return r.ID == 0
}
