package model

import "time"

// AppState stores per-invocation metadata for the Eino graph.
// It is registered as graph local state via compose.WithGenLocalState and is
// only read or written inside state handlers or compose.ProcessState, which
// Eino serializes.
type AppState struct {
	ConversationID string
	StartedAt      time.Time
}
