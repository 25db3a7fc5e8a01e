package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

const sessionTTLFloor = time.Minute

// SessionStore keeps the active session for a named profile in Redis and
// broadcasts sign-in/out events on a pub/sub channel so every subscriber
// observes auth-state changes, whichever process produced them.
// Keys: session:<profile>; channel: sessions:<profile>.
type SessionStore struct {
	client  *redis.Client
	profile string
}

// NewSessionStore creates a SessionStore for one profile (typically the
// device or workstation identifier).
func NewSessionStore(client *redis.Client, profile string) *SessionStore {
	return &SessionStore{client: client, profile: profile}
}

func (s *SessionStore) key() string     { return "session:" + s.profile }
func (s *SessionStore) channel() string { return "sessions:" + s.profile }

// Get returns the stored session, or (nil, nil) when nobody is signed in or
// the session has expired out of the store.
func (s *SessionStore) Get(ctx context.Context) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session get: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &sess, nil
}

// Put stores the session with a TTL derived from its expiry and publishes a
// change event.
func (s *SessionStore) Put(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl < sessionTTLFloor {
		ttl = sessionTTLFloor
	}
	if err := s.client.Set(ctx, s.key(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return s.publish(ctx)
}

// Delete removes the session and publishes a change event.
func (s *SessionStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("session del: %w", err)
	}
	return s.publish(ctx)
}

func (s *SessionStore) publish(ctx context.Context) error {
	if err := s.client.Publish(ctx, s.channel(), "changed").Err(); err != nil {
		return fmt.Errorf("session publish: %w", err)
	}
	return nil
}

// Watch subscribes to session-change events. Each event re-reads the store
// and invokes handler with the current session (nil after sign-out). The
// returned cancel function tears the subscription down.
func (s *SessionStore) Watch(ctx context.Context, handler func(*domain.Session)) (func(), error) {
	sub := s.client.Subscribe(ctx, s.channel())
	// Force the subscription to be established before returning.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("session subscribe: %w", err)
	}

	go func() {
		for range sub.Channel() {
			sess, err := s.Get(ctx)
			if err != nil {
				// Treat an unreadable store as signed out.
				sess = nil
			}
			handler(sess)
		}
	}()

	return func() { _ = sub.Close() }, nil
}
