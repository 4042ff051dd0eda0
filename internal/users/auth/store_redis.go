// Copyright (c) 2026 Lydcast. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/almdal/lydcast/internal/platform/apperr"
	"github.com/almdal/lydcast/internal/platform/constants"
	"github.com/almdal/lydcast/internal/platform/sec"
)

// # Session Store (Redis)

// RedisSessionStore implements [SessionStore] using Redis.
//
// # Key Layout
//
//   - auth:session:<id>        → JSON-encoded [Session], TTL-bound
//   - auth:user_sessions:<uid> → SET of session IDs owned by the user
//
// The per-user index set makes bulk invalidation (password reset, account
// deletion) a single SMEMBERS plus pipelined DELs instead of a key scan.
// It also satisfies the [middleware.SessionResolver] contract, letting the
// HTTP layer resolve cookies without importing this package's service.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed [SessionStore].
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// sessionKey builds the Redis key for a session record.
func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

// userSessionsKey builds the Redis key for a user's session index set.
func userSessionsKey(userID int64) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixUserSessions, userID)
}

/*
Create persists a new session and registers it in the owner's index set.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Serialization or storage failures
*/
func (store *RedisSessionStore) Create(context context.Context, session *Session) error {

	// Serialize the session record
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_store_marshal_failed: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("redis_session_store_create_failed: session already expired")
	}

	// Write the record and the index entry in one round trip
	pipe := store.client.TxPipeline()
	pipe.Set(context, sessionKey(session.ID), payload, ttl)
	pipe.SAdd(context, userSessionsKey(session.UserID), session.ID)
	// Keep the index set alive at least as long as its newest session
	pipe.Expire(context, userSessionsKey(session.UserID), ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_store_create_failed: %w", err)
	}

	return nil
}

/*
Resolve maps an opaque session ID to its authenticated identity.

Description: This is the hot path behind every authenticated request. Unknown
and expired IDs are indistinguishable (both are simply absent from Redis).

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *sec.SessionUser: The authenticated identity
  - error: apperr.NotFound or connectivity failures
*/
func (store *RedisSessionStore) Resolve(context context.Context, sessionID string) (*sec.SessionUser, error) {
	payload, err := store.client.Get(context, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_store_resolve_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_store_unmarshal_failed: %w", err)
	}

	return &sec.SessionUser{
		SessionID: sessionID,
		UserID:    session.UserID,
		Username:  session.Username,
	}, nil
}

/*
Destroy removes a single session and its index entry.

Description: Idempotent. Destroying an unknown session is a no-op, so logout
never fails from the client's point of view.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Deletion failures
*/
func (store *RedisSessionStore) Destroy(context context.Context, sessionID string) error {

	// Resolve first so we can clean the owner's index set
	identity, err := store.Resolve(context, sessionID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil
		}
		return err
	}

	pipe := store.client.TxPipeline()
	pipe.Del(context, sessionKey(sessionID))
	pipe.SRem(context, userSessionsKey(identity.UserID), sessionID)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_store_destroy_failed: %w", err)
	}

	return nil
}

/*
DestroyAll removes every session belonging to a user.

Description: Called after password resets and account deletion so no stale
login survives a credential change.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Bulk deletion failures
*/
func (store *RedisSessionStore) DestroyAll(context context.Context, userID int64) error {
	return store.destroyMatching(context, userID, "")
}

/*
DestroyOthers removes every session belonging to a user except one.

Description: Used by the authenticated password change so the device making
the change stays logged in while all others are forced to re-authenticate.

Parameters:
  - context: context.Context
  - userID: int64
  - keepSessionID: string

Returns:
  - error: Filtered deletion failures
*/
func (store *RedisSessionStore) DestroyOthers(context context.Context, userID int64, keepSessionID string) error {
	return store.destroyMatching(context, userID, keepSessionID)
}

// destroyMatching deletes a user's sessions, optionally sparing one ID.
func (store *RedisSessionStore) destroyMatching(context context.Context, userID int64, keepSessionID string) error {
	indexKey := userSessionsKey(userID)

	sessionIDs, err := store.client.SMembers(context, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("redis_session_store_index_read_failed: %w", err)
	}

	pipe := store.client.TxPipeline()
	for _, sessionID := range sessionIDs {
		if sessionID == keepSessionID {
			continue
		}
		pipe.Del(context, sessionKey(sessionID))
		pipe.SRem(context, indexKey, sessionID)
	}

	if keepSessionID == "" {
		pipe.Del(context, indexKey)
	}

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_store_bulk_destroy_failed: %w", err)
	}

	return nil
}
