// Package auth implements the authentication collaborator consumed by the
// orchestrator: session lookup, a cancellable change-notification
// subscription, and sign-out. Sessions live in Redis so auth-state changes
// propagate across processes.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

// SessionStore persists the active session and notifies watchers when it
// changes. Implemented by redis.SessionStore.
type SessionStore interface {
	Get(ctx context.Context) (*domain.Session, error)
	Put(ctx context.Context, sess *domain.Session) error
	Delete(ctx context.Context) error
	Watch(ctx context.Context, handler func(*domain.Session)) (func(), error)
}

// LoginFunc performs the credential exchange against the portal API and
// returns the bearer token plus the authenticated user.
type LoginFunc func(ctx context.Context, email, password string) (string, *domain.User, error)

// Provider implements ports.AuthProvider over a session store.
type Provider struct {
	sessions SessionStore
	login    LoginFunc
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewProvider(sessions SessionStore, login LoginFunc, tokenTTL time.Duration, log zerolog.Logger) *Provider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Provider{sessions: sessions, login: login, tokenTTL: tokenTTL, log: log}
}

// SignIn exchanges credentials for a token, stores the resulting session, and
// broadcasts the change to subscribers.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	token, user, err := p.login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	sess := &domain.Session{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(p.tokenTTL),
	}
	if err := p.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	p.log.Info().Str("user_id", user.ID).Msg("signed in")
	return sess, nil
}

// CurrentSession returns the live session, or (nil, nil) when signed out.
func (p *Provider) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return p.sessions.Get(ctx)
}

// Subscribe registers handler for session changes and returns its cancel
// function. The handler receives nil on sign-out.
func (p *Provider) Subscribe(handler func(*domain.Session)) (func(), error) {
	return p.sessions.Watch(context.Background(), handler)
}

// SignOut removes the session and broadcasts the change.
func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.sessions.Delete(ctx); err != nil {
		return err
	}
	p.log.Info().Msg("signed out")
	return nil
}

// Token implements the client.TokenSource used to authenticate portal calls.
func (p *Provider) Token(ctx context.Context) (string, error) {
	sess, err := p.sessions.Get(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", fmt.Errorf("token: no active session")
	}
	return sess.Token, nil
}
