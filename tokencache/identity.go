package tokencache

import (
	"github.com/commercekit/go-storefront-session/credstore"
	"github.com/rs/zerolog"
)

// AnonymousIdentityKey holds the raw anonymous correlation id string.
const AnonymousIdentityKey = "anonymous-identity"

// IdentityRecord persists the anonymous correlation id independently from its
// token record. Pairing consistency between the two is owned by the
// anonymous session manager, not here.
type IdentityRecord struct {
	store credstore.Store
	log   zerolog.Logger
}

func NewIdentityRecord(store credstore.Store, log zerolog.Logger) *IdentityRecord {
	return &IdentityRecord{store: store, log: log}
}

// Get returns the stored id, or the empty string when none exists.
func (r *IdentityRecord) Get() string {
	id, _ := r.store.Get(AnonymousIdentityKey)
	return id
}

// Set persists the id. Persistence failures are logged and swallowed; an
// unpersisted id surfaces later as an incomplete pairing and gets re-minted.
func (r *IdentityRecord) Set(id string) {
	if err := r.store.Set(AnonymousIdentityKey, id); err != nil {
		r.log.Error().Err(err).Msg("failed to persist anonymous identity")
	}
}

// Clear removes the stored id. Safe to call repeatedly.
func (r *IdentityRecord) Clear() {
	r.store.Delete(AnonymousIdentityKey)
}
