// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entry

import (
	"context"
	"time"
)

// SessionStore persists sessions with an expiry.
type SessionStore interface {
	// Get returns NOT_FOUND for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)

	// Save writes the session and resets its TTL.
	Save(ctx context.Context, session *Session, ttl time.Duration) error

	Delete(ctx context.Context, id string) error
}
