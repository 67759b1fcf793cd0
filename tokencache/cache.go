// Package tokencache persists OAuth token records and the anonymous
// correlation id on top of a credstore.Store. Two independent cache instances
// exist, one for the authenticated customer and one for the anonymous
// identity, so the two credential sets can never be read interchangeably.
package tokencache

import (
	"encoding/json"

	"github.com/commercekit/go-storefront-session/credstore"
	"github.com/rs/zerolog"
)

// Store keys. User and anonymous tokens are keyed separately by design.
const (
	UserCacheKey      = "user-token-cache"
	AnonymousCacheKey = "anonymous-token-cache"
)

// TokenRecord is the persisted representation of a bearer token. A record is
// either fully empty or carries a non-empty AccessToken.
type TokenRecord struct {
	AccessToken  string `json:"accessToken"`
	ExpiresAt    int64  `json:"expiresAtEpochMillis"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Empty reports whether the record holds no credentials.
func (r TokenRecord) Empty() bool {
	return r.AccessToken == ""
}

// Cache is a best-effort token cache: reads never fail (corrupt entries are
// dropped), writes are logged and swallowed on persistence errors and Clear
// is idempotent.
type Cache struct {
	store credstore.Store
	key   string
	log   zerolog.Logger
}

func New(store credstore.Store, key string, log zerolog.Logger) *Cache {
	return &Cache{store: store, key: key, log: log.With().Str("cache", key).Logger()}
}

// NewUserCache returns the cache holding the authenticated customer's tokens.
func NewUserCache(store credstore.Store, log zerolog.Logger) *Cache {
	return New(store, UserCacheKey, log)
}

// NewAnonymousCache returns the cache holding the anonymous identity's tokens.
func NewAnonymousCache(store credstore.Store, log zerolog.Logger) *Cache {
	return New(store, AnonymousCacheKey, log)
}

// Get returns the stored record. Malformed stored data is deleted and decodes
// to the empty record rather than propagating a parse failure.
func (c *Cache) Get() TokenRecord {
	stored, ok := c.store.Get(c.key)
	if !ok {
		return TokenRecord{}
	}

	var record TokenRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		c.log.Error().Err(err).Msg("corrupt token record, dropping entry")
		c.store.Delete(c.key)
		return TokenRecord{}
	}
	return record
}

// Set persists the record. Persistence failures are logged, not returned:
// the cache is best-effort, not a transactional store.
func (c *Cache) Set(record TokenRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode token record")
		return
	}
	if err := c.store.Set(c.key, string(data)); err != nil {
		c.log.Error().Err(err).Msg("failed to persist token record")
	}
}

// Clear removes the stored record. Safe to call repeatedly.
func (c *Cache) Clear() {
	c.store.Delete(c.key)
	c.log.Debug().Msg("token cache cleared")
}
