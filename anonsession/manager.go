// Package anonsession owns the anonymous identity: a correlation id paired
// with its token record. The pairing invariant is enforced here exclusively —
// an id without a refreshable token (or tokens without an id) is treated as
// incomplete and fully cleared before a new identity is minted; partial reuse
// is never attempted.
package anonsession

import (
	"context"
	"sync"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/platform"
	"github.com/commercekit/go-storefront-session/tokencache"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ClientFactory is the slice of the session client factory the manager needs.
type ClientFactory interface {
	CreateAnonymousClient(ctx context.Context, anonymousID string) (*platform.Client, error)
	CreateRefreshClient(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error)
}

// Manager orchestrates acquisition, refresh and invalidation of the
// anonymous session.
type Manager struct {
	factory  ClientFactory
	tokens   *tokencache.Cache
	identity *tokencache.IdentityRecord
	log      zerolog.Logger

	// lock serializes EnsureSession so concurrent callers cannot each mint a
	// distinct identity and orphan one of them.
	lock      sync.Mutex
	currentID string
}

// NewManager initializes a Manager. tokens must be the anonymous-scoped
// cache. The in-memory id starts from whatever identity is persisted.
func NewManager(factory ClientFactory, tokens *tokencache.Cache, identity *tokencache.IdentityRecord, log zerolog.Logger) (*Manager, error) {
	if factory == nil {
		return nil, errors.New("[NewManager] client factory is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewManager] anonymous token cache is required")
	}
	if identity == nil {
		return nil, errors.New("[NewManager] identity record is required")
	}

	return &Manager{
		factory:   factory,
		tokens:    tokens,
		identity:  identity,
		log:       log,
		currentID: identity.Get(),
	}, nil
}

// EnsureSession returns a client acting as the current anonymous identity,
// refreshing the existing session when possible and minting a new identity
// otherwise. A failed refresh is resolved by re-minting, never propagated;
// only a failure to create the fresh session is returned, classified.
func (m *Manager) EnsureSession(ctx context.Context) (*platform.Client, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.log.Debug().Msg("ensuring anonymous session")
	id := m.currentID
	if id == "" {
		id = m.identity.Get()
	}
	record := m.tokens.Get()

	if id != "" && record.RefreshToken != "" {
		client, err := m.factory.CreateRefreshClient(ctx, record.RefreshToken, m.tokens)
		if err == nil {
			m.log.Debug().Str("anonymousId", id).Msg("anonymous session refreshed")
			m.currentID = id
			return client, id, nil
		}
		m.log.Warn().Err(err).Msg("anonymous token refresh failed, creating new session")
		m.clearLocked()
		id = ""
	} else if id != "" || !record.Empty() || record.RefreshToken != "" {
		m.log.Info().Msg("incomplete anonymous session data found, clearing")
		m.clearLocked()
		id = ""
	}

	id = uuid.NewString()
	m.currentID = id
	m.identity.Set(id)
	m.log.Debug().Str("anonymousId", id).Msg("creating new anonymous session")

	client, err := m.factory.CreateAnonymousClient(ctx, id)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to create anonymous session")
		m.clearLocked()
		return nil, "", apperrors.Classify(err)
	}
	return client, id, nil
}

// ClearData wipes the anonymous token record and identity. Idempotent; used
// after a successful login/registration handoff and on logout.
func (m *Manager) ClearData() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.tokens.Clear()
	m.identity.Clear()
	m.currentID = ""
	m.log.Debug().Msg("anonymous session data cleared")
}

// CurrentAnonymousID returns the in-memory id if set, else the persisted id;
// empty when neither exists.
func (m *Manager) CurrentAnonymousID() string {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.currentID != "" {
		return m.currentID
	}
	return m.identity.Get()
}
