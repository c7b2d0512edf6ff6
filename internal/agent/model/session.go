package model

import "context"

// SessionRepository persists ConversationState between turns. Last write wins.
type SessionRepository interface {
	// Load returns the stored state, or (nil, nil) when the session is unknown.
	Load(ctx context.Context, sessionID string) (*ConversationState, error)

	// Save replaces the stored state for the session.
	Save(ctx context.Context, sessionID string, state *ConversationState) error

	// Delete forgets the session.
	Delete(ctx context.Context, sessionID string) error
}
