package domain

import (
	"context"
	"time"
)

// Viewer is one viewer session: its own stores, bound to the viewer's backend token.
type Viewer struct {
	SessionID     string
	Authenticated bool
	OpenedAt      time.Time

	Comments CommentTreeUsecase
	Likes    LikeStateUsecase
	Products ProductUsecase
}

// ViewerRegistry defines the contract for viewer session bookkeeping.
type ViewerRegistry interface {
	// Open creates a session. An empty token opens an anonymous session.
	Open(token string) (*Viewer, error)

	// Get returns ErrSessionNotFound if the session does not exist.
	Get(sessionID string) (*Viewer, error)

	// Logout clears the viewer's like state and removes the session.
	// Returns ErrSessionNotFound if the session does not exist.
	Logout(ctx context.Context, sessionID string) error
}
