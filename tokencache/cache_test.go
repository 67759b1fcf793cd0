package tokencache_test

import (
	"testing"

	"github.com/commercekit/go-storefront-session/credstore"
	"github.com/commercekit/go-storefront-session/tokencache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsEmptyRecordWhenNothingStored(t *testing.T) {
	cache := tokencache.NewUserCache(credstore.NewMemoryStore(), zerolog.Nop())

	record := cache.Get()
	require.True(t, record.Empty())
	require.Equal(t, tokencache.TokenRecord{}, record)
}

func TestSetGetRoundTrip(t *testing.T) {
	cache := tokencache.NewUserCache(credstore.NewMemoryStore(), zerolog.Nop())

	want := tokencache.TokenRecord{
		AccessToken:  "access-1",
		ExpiresAt:    1700000000000,
		RefreshToken: "refresh-1",
	}
	cache.Set(want)
	require.Equal(t, want, cache.Get())
}

func TestCorruptRecordIsDroppedAndDecodesEmpty(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set(tokencache.UserCacheKey, "{not valid json"))

	cache := tokencache.NewUserCache(store, zerolog.Nop())
	require.True(t, cache.Get().Empty())

	// the corrupt entry is deleted, not left to fail again
	_, ok := store.Get(tokencache.UserCacheKey)
	require.False(t, ok)
}

func TestClearIsIdempotent(t *testing.T) {
	store := credstore.NewMemoryStore()
	cache := tokencache.NewAnonymousCache(store, zerolog.Nop())
	cache.Set(tokencache.TokenRecord{AccessToken: "a"})

	cache.Clear()
	cache.Clear()
	require.True(t, cache.Get().Empty())
}

func TestUserAndAnonymousCachesAreIndependent(t *testing.T) {
	store := credstore.NewMemoryStore()
	userCache := tokencache.NewUserCache(store, zerolog.Nop())
	anonCache := tokencache.NewAnonymousCache(store, zerolog.Nop())

	userCache.Set(tokencache.TokenRecord{AccessToken: "user-token"})
	anonCache.Set(tokencache.TokenRecord{AccessToken: "anon-token", RefreshToken: "anon-refresh"})

	require.Equal(t, "user-token", userCache.Get().AccessToken)
	require.Equal(t, "anon-token", anonCache.Get().AccessToken)

	userCache.Clear()
	require.True(t, userCache.Get().Empty())
	require.Equal(t, "anon-token", anonCache.Get().AccessToken)
}

func TestIdentityRecord(t *testing.T) {
	store := credstore.NewMemoryStore()
	identity := tokencache.NewIdentityRecord(store, zerolog.Nop())

	require.Empty(t, identity.Get())

	identity.Set("anon-42")
	require.Equal(t, "anon-42", identity.Get())

	identity.Clear()
	identity.Clear()
	require.Empty(t, identity.Get())
}
