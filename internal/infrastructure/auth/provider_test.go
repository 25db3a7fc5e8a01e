package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

// stubStore keeps the session in memory and invokes watchers synchronously on
// every change, standing in for the Redis store.
type stubStore struct {
	sess     *domain.Session
	putErr   error
	watchers []func(*domain.Session)
}

func (s *stubStore) Get(context.Context) (*domain.Session, error) {
	return s.sess, nil
}

func (s *stubStore) Put(_ context.Context, sess *domain.Session) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.sess = sess
	s.notify()
	return nil
}

func (s *stubStore) Delete(context.Context) error {
	s.sess = nil
	s.notify()
	return nil
}

func (s *stubStore) Watch(_ context.Context, handler func(*domain.Session)) (func(), error) {
	s.watchers = append(s.watchers, handler)
	return func() {}, nil
}

func (s *stubStore) notify() {
	for _, w := range s.watchers {
		w(s.sess)
	}
}

func okLogin(ctx context.Context, email, password string) (string, *domain.User, error) {
	return "tok-1", &domain.User{ID: "u1", Email: email, Role: domain.RolePatient}, nil
}

func TestProvider_SignIn_StoresSession(t *testing.T) {
	store := &stubStore{}
	p := NewProvider(store, okLogin, time.Hour, zerolog.Nop())

	sess, err := p.SignIn(context.Background(), "pat@hospital.test", "secretpass")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.UserID != "u1" || sess.Token != "tok-1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if store.sess == nil || store.sess.Token != "tok-1" {
		t.Fatalf("session not stored: %+v", store.sess)
	}
	if remaining := time.Until(sess.ExpiresAt); remaining < 55*time.Minute {
		t.Fatalf("expiry not derived from TTL: %v", remaining)
	}

	current, err := p.CurrentSession(context.Background())
	if err != nil || current == nil || current.UserID != "u1" {
		t.Fatalf("CurrentSession = %+v, %v", current, err)
	}
}

func TestProvider_SignIn_LoginFailure(t *testing.T) {
	store := &stubStore{}
	wantErr := errors.New("wrong password")
	p := NewProvider(store, func(context.Context, string, string) (string, *domain.User, error) {
		return "", nil, wantErr
	}, time.Hour, zerolog.Nop())

	if _, err := p.SignIn(context.Background(), "pat@hospital.test", "bad"); !errors.Is(err, wantErr) {
		t.Fatalf("expected login error, got %v", err)
	}
	if store.sess != nil {
		t.Fatalf("session stored despite failed login")
	}
}

func TestProvider_SubscribeObservesSignInAndOut(t *testing.T) {
	store := &stubStore{}
	p := NewProvider(store, okLogin, time.Hour, zerolog.Nop())

	var seen []*domain.Session
	cancel, err := p.Subscribe(func(s *domain.Session) { seen = append(seen, s) })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	if _, err := p.SignIn(context.Background(), "pat@hospital.test", "secretpass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[0] == nil || seen[0].UserID != "u1" {
		t.Fatalf("first notification should carry the session: %+v", seen[0])
	}
	if seen[1] != nil {
		t.Fatalf("sign-out should notify nil, got %+v", seen[1])
	}
}

func TestProvider_Token(t *testing.T) {
	store := &stubStore{}
	p := NewProvider(store, okLogin, time.Hour, zerolog.Nop())

	if _, err := p.Token(context.Background()); err == nil {
		t.Fatalf("expected error with no session")
	}

	if _, err := p.SignIn(context.Background(), "pat@hospital.test", "secretpass"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	tok, err := p.Token(context.Background())
	if err != nil || tok != "tok-1" {
		t.Fatalf("Token = %q, %v", tok, err)
	}
}
