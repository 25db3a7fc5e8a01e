package ports

import (
	"context"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

// AuthProvider is the authentication collaborator. CurrentSession returns
// (nil, nil) when nobody is signed in. Subscribe registers a handler for
// session changes and returns a cancel function; the subscriber owns the
// subscription's lifetime. The handler receives nil on sign-out.
type AuthProvider interface {
	CurrentSession(ctx context.Context) (*domain.Session, error)
	Subscribe(handler func(*domain.Session)) (cancel func(), err error)
	SignOut(ctx context.Context) error
}
