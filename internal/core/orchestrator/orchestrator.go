// Package orchestrator implements the session-scoped data orchestrator: it
// owns session lifecycle, role resolution, multi-collection refresh
// coordination, and the authorization gate in front of mutating commands.
// Views read copied snapshots and mutate state only through named commands.
package orchestrator

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
	"github.com/hospitalops/portal-system/internal/metrics"
)

// Orchestrator coordinates the auth provider and the remote persistence
// collaborator behind a single state container. All exported methods are
// safe for concurrent use; refreshes are deliberately unsequenced (see
// Refresh).
type Orchestrator struct {
	client    ports.PortalClient
	auth      ports.AuthProvider
	allowlist Allowlist
	log       zerolog.Logger

	mu sync.RWMutex
	st state

	readyOnce sync.Once
	cancelSub func()
}

func New(client ports.PortalClient, auth ports.AuthProvider, allowlist Allowlist, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client:    client,
		auth:      auth,
		allowlist: allowlist,
		log:       log,
		st:        newState(),
	}
}

// Start performs the initial session check and subscribes to auth changes
// for the orchestrator's lifetime. The initial-loading flag is cleared after
// the first check resolves, present or absent, exactly once.
func (o *Orchestrator) Start(ctx context.Context) error {
	sess, err := o.auth.CurrentSession(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("initial session lookup failed, treating as signed out")
		sess = nil
	}
	o.handleSession(ctx, sess)

	cancel, err := o.auth.Subscribe(func(s *domain.Session) {
		o.handleSession(ctx, s)
	})
	if err != nil {
		return err
	}
	o.cancelSub = cancel
	return nil
}

// Close cancels the auth subscription. It does not sign the user out.
func (o *Orchestrator) Close() {
	if o.cancelSub != nil {
		o.cancelSub()
		o.cancelSub = nil
	}
}

// Snapshot returns a read-only copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.st.snapshot()
}

// handleSession reacts to a session appearing or disappearing.
func (o *Orchestrator) handleSession(ctx context.Context, sess *domain.Session) {
	defer o.readyOnce.Do(func() {
		o.mu.Lock()
		o.st.loading = false
		o.mu.Unlock()
	})

	if sess == nil {
		o.clear()
		return
	}

	user, err := o.client.GetCurrentUser(ctx)
	if err != nil {
		o.log.Error().Err(err).Str("user_id", sess.UserID).Msg("identity fetch failed, treating as signed out")
		o.clear()
		return
	}
	user = o.resolveRole(ctx, user)

	o.mu.Lock()
	o.st.user = user
	o.st.activeRole = user.Role
	o.st.loading = false
	o.mu.Unlock()
	metrics.ActiveSessions.Set(1)

	if err := o.Refresh(ctx); err != nil {
		o.log.Error().Err(err).Msg("post-signin refresh failed")
	}
}

// resolveRole applies allowlist elevation. Idempotent: an already-admin
// identity, or one whose email is not listed, passes through with no remote
// writes.
func (o *Orchestrator) resolveRole(ctx context.Context, user *domain.User) *domain.User {
	if user.Role == domain.RoleAdmin || !o.allowlist.Contains(user.Email) {
		return user
	}

	if err := o.client.UpdateUserRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		o.log.Error().Err(err).Str("user_id", user.ID).Msg("role elevation failed")
		return user
	}
	metrics.RoleElevationsTotal.Inc()
	o.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("role elevated to admin")

	refetched, err := o.client.GetCurrentUser(ctx)
	if err != nil {
		// The remote write went through; patch locally rather than
		// presenting a stale role.
		o.log.Warn().Err(err).Str("user_id", user.ID).Msg("re-fetch after elevation failed, patching locally")
		patched := *user
		patched.Role = domain.RoleAdmin
		return &patched
	}
	return refetched
}

// clear resets the container to its signed-out shape.
func (o *Orchestrator) clear() {
	o.mu.Lock()
	loading := o.st.loading
	o.st = newState()
	o.st.loading = loading
	o.mu.Unlock()
	metrics.ActiveSessions.Set(0)
}

// SignOut ends the session with the auth provider and clears local state.
func (o *Orchestrator) SignOut(ctx context.Context) error {
	if err := o.auth.SignOut(ctx); err != nil {
		return err
	}
	o.clear()
	return nil
}

// SetActiveRole switches the view selector. Only administrators may diverge
// from their persisted role; the persisted role is never written here.
func (o *Orchestrator) SetActiveRole(role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.st.user == nil {
		return domain.ErrUserNotFound
	}
	if o.st.user.Role != domain.RoleAdmin && role != o.st.user.Role {
		return domain.ErrForbidden
	}
	o.st.activeRole = role
	return nil
}

// currentUser returns a copy of the resolved identity, or nil when signed out.
func (o *Orchestrator) currentUser() *domain.User {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.st.user == nil {
		return nil
	}
	u := *o.st.user
	return &u
}
