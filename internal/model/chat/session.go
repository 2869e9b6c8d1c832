package chat

import "time"

// Snapshot is the view of a widget session handed to the presentation layer.
type Snapshot struct {
	ID        string    `json:"id"`
	PersonaID string    `json:"personaId"`
	Visible   bool      `json:"visible"`
	Pending   bool      `json:"pending"`
	Input     string    `json:"input"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// Latest returns the last message of the transcript.
func (s Snapshot) Latest() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
