package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/n0l0g0/pos-frontend/internal/api"
	"github.com/n0l0g0/pos-frontend/pkg/logger"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

// AuthAPI is the slice of the remote API the session lifecycle needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
	Me(ctx context.Context) (*api.User, error)
}

// Manager owns the session lifecycle: init on login, restore on startup,
// teardown on logout or any unauthorized response.
type Manager struct {
	state *State
	store *Store
	logg  *logger.Logger
}

func NewManager(state *State, store *Store, logg *logger.Logger) (*Manager, error) {
	if state == nil {
		return nil, fmt.Errorf("session state is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{state: state, store: store, logg: logg}, nil
}

// Login authenticates, persists the session, and resolves the cashier name.
func (m *Manager) Login(ctx context.Context, auth AuthAPI, email, password string) (*api.User, error) {
	creds, err := auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	m.state.set(creds.Token, creds.Email, creds.Email)
	if err := m.store.Save(ctx, creds.Token, creds.Email); err != nil {
		m.logg.Error(ctx, "failed to persist session", err)
	}

	user, err := auth.Me(ctx)
	if err != nil {
		// The sale payload falls back to the login email for the cashier.
		m.logg.Warn(ctx, "could not resolve cashier name: "+err.Error())
		return nil, nil
	}
	m.state.setCashier(cashierName(user))
	return user, nil
}

// Restore rehydrates a persisted session and verifies it against /users/me.
// Returns false when there is no usable session.
func (m *Manager) Restore(ctx context.Context, auth AuthAPI) (bool, error) {
	record, err := m.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if record == nil || record.Token == "" {
		return false, nil
	}

	m.state.set(record.Token, record.Email, record.Email)

	user, err := auth.Me(ctx)
	if err != nil {
		if pkgerrors.EndsSession(err) {
			// Idempotent with the client's 401 hook.
			m.state.clear()
			if wipeErr := m.store.Wipe(ctx); wipeErr != nil {
				m.logg.Error(ctx, "failed to drop stale session", wipeErr)
			}
			return false, nil
		}
		m.logg.Warn(ctx, "session restored but identity check failed: "+err.Error())
		return true, nil
	}
	m.state.setCashier(cashierName(user))
	return true, nil
}

// Logout clears the in-memory session and the persisted row.
func (m *Manager) Logout(ctx context.Context) error {
	m.state.clear()
	if err := m.store.Wipe(ctx); err != nil {
		return err
	}
	m.logg.Info(ctx, "signed out")
	return nil
}

// Invalidate is the unauthorized hook: any 401 forcibly ends the session.
func (m *Manager) Invalidate(ctx context.Context) {
	if !m.state.Active() {
		return
	}
	m.state.clear()
	if err := m.store.Wipe(ctx); err != nil {
		m.logg.Error(ctx, "failed to wipe invalidated session", err)
	}
	m.logg.Warn(ctx, "session invalidated by unauthorized response")
}

// ExpiresAt peeks at the bearer token's exp claim without verifying the
// signature. Verification is the server's job; this only drives a warning.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token := m.state.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiringWithin reports whether the token expires inside the given window.
func (m *Manager) ExpiringWithin(window time.Duration) bool {
	exp, ok := m.ExpiresAt()
	if !ok {
		return false
	}
	return time.Until(exp) <= window
}

func cashierName(user *api.User) string {
	if user == nil {
		return ""
	}
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}
