// Copyright (c) 2026 Stager. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/stager/internal/platform/apperr"
	"github.com/taibuivan/stager/internal/platform/constants"
)

// RedisSessionStore implements [SessionStore] with one JSON string per session.
type RedisSessionStore struct {
	client redis.UniversalClient
}

// NewRedisSessionStore creates a new Redis-backed [SessionStore].
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return constants.RedisPrefixEntrySession + id
}

/*
Get loads a session.

Returns:
  - *Session: The decoded session
  - error: NOT_FOUND when absent or expired, otherwise connectivity errors
*/
func (store *RedisSessionStore) Get(context context.Context, id string) (*Session, error) {
	payload, err := store.client.Get(context, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Entry session")
		}
		return nil, fmt.Errorf("redis_entry_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_entry_session_decode_failed: %w", err)
	}
	return session, nil
}

// Save writes the session and resets its TTL.
func (store *RedisSessionStore) Save(context context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_entry_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_entry_session_set_failed: %w", err)
	}
	return nil
}

// Delete removes the session. Deleting an expired session is not an error.
func (store *RedisSessionStore) Delete(context context.Context, id string) error {
	if err := store.client.Del(context, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis_entry_session_delete_failed: %w", err)
	}
	return nil
}
