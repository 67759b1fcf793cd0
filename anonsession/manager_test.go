package anonsession_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/commercekit/go-storefront-session/anonsession"
	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/credstore"
	"github.com/commercekit/go-storefront-session/platform"
	"github.com/commercekit/go-storefront-session/tokencache"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeFactory struct {
	createAnonymousFn func(ctx context.Context, anonymousID string) (*platform.Client, error)
	createRefreshFn   func(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error)

	anonymousIDs  []string
	refreshTokens []string
}

func (f *fakeFactory) CreateAnonymousClient(ctx context.Context, anonymousID string) (*platform.Client, error) {
	f.anonymousIDs = append(f.anonymousIDs, anonymousID)
	return f.createAnonymousFn(ctx, anonymousID)
}

func (f *fakeFactory) CreateRefreshClient(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error) {
	f.refreshTokens = append(f.refreshTokens, refreshToken)
	return f.createRefreshFn(ctx, refreshToken, cache)
}

func dummyClient() *platform.Client {
	return platform.NewClient(http.DefaultClient, "http://unreachable.invalid", "test-project")
}

type managerFixture struct {
	store    *credstore.MemoryStore
	tokens   *tokencache.Cache
	identity *tokencache.IdentityRecord
	factory  *fakeFactory
	manager  *anonsession.Manager
}

func setupManager(t *testing.T, factory *fakeFactory) *managerFixture {
	t.Helper()
	store := credstore.NewMemoryStore()
	tokens := tokencache.NewAnonymousCache(store, zerolog.Nop())
	identity := tokencache.NewIdentityRecord(store, zerolog.Nop())

	manager, err := anonsession.NewManager(factory, tokens, identity, zerolog.Nop())
	require.NoError(t, err)

	return &managerFixture{store: store, tokens: tokens, identity: identity, factory: factory, manager: manager}
}

func TestNewManagerRequiresDependencies(t *testing.T) {
	store := credstore.NewMemoryStore()
	tokens := tokencache.NewAnonymousCache(store, zerolog.Nop())
	identity := tokencache.NewIdentityRecord(store, zerolog.Nop())

	_, err := anonsession.NewManager(nil, tokens, identity, zerolog.Nop())
	require.Error(t, err)
	_, err = anonsession.NewManager(&fakeFactory{}, nil, identity, zerolog.Nop())
	require.Error(t, err)
	_, err = anonsession.NewManager(&fakeFactory{}, tokens, nil, zerolog.Nop())
	require.Error(t, err)
}

func TestEnsureSessionMintsIdentityWhenNothingStored(t *testing.T) {
	factory := &fakeFactory{
		createAnonymousFn: func(ctx context.Context, anonymousID string) (*platform.Client, error) {
			return dummyClient(), nil
		},
	}
	fixture := setupManager(t, factory)

	client, id, err := fixture.manager.EnsureSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, parseErr := uuid.Parse(id)
	require.NoError(t, parseErr, "anonymous id is a uuid")
	require.Equal(t, id, fixture.identity.Get(), "identity is persisted before token acquisition")
	require.Equal(t, []string{id}, factory.anonymousIDs)
	require.Empty(t, factory.refreshTokens)
}

func TestEnsureSessionRefreshesExistingIdentity(t *testing.T) {
	factory := &fakeFactory{
		createRefreshFn: func(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error) {
			return dummyClient(), nil
		},
	}
	fixture := setupManager(t, factory)
	fixture.identity.Set("anon-existing")
	fixture.tokens.Set(tokencache.TokenRecord{AccessToken: "a", RefreshToken: "r1"})

	client, id, err := fixture.manager.EnsureSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)
	require.Equal(t, "anon-existing", id, "existing identity is reused on refresh")
	require.Equal(t, []string{"r1"}, factory.refreshTokens)
	require.Empty(t, factory.anonymousIDs)
}

func TestEnsureSessionFallsBackToNewIdentityWhenRefreshFails(t *testing.T) {
	factory := &fakeFactory{
		createRefreshFn: func(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error) {
			return nil, &apperrors.ProviderError{StatusCode: 400, OAuthError: "invalid_grant"}
		},
		createAnonymousFn: func(ctx context.Context, anonymousID string) (*platform.Client, error) {
			return dummyClient(), nil
		},
	}
	fixture := setupManager(t, factory)
	fixture.identity.Set("anon-stale")
	fixture.tokens.Set(tokencache.TokenRecord{AccessToken: "a", RefreshToken: "stale"})

	client, id, err := fixture.manager.EnsureSession(context.Background())
	require.NoError(t, err, "a failed refresh is recovered from, not propagated")
	require.NotNil(t, client)
	require.NotEqual(t, "anon-stale", id, "the stale identity is never reused")
	require.Equal(t, id, fixture.identity.Get())
}

func TestEnsureSessionClearsIncompletePairing(t *testing.T) {
	factory := &fakeFactory{
		createAnonymousFn: func(ctx context.Context, anonymousID string) (*platform.Client, error) {
			return dummyClient(), nil
		},
	}
	fixture := setupManager(t, factory)
	// id persisted without a refreshable token
	fixture.identity.Set("anon-orphan")

	_, id, err := fixture.manager.EnsureSession(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, "anon-orphan", id)
	require.Empty(t, factory.refreshTokens, "no refresh attempted without a refresh token")
}

func TestEnsureSessionCreationFailureClearsStateAndClassifies(t *testing.T) {
	factory := &fakeFactory{
		createAnonymousFn: func(ctx context.Context, anonymousID string) (*platform.Client, error) {
			return nil, &apperrors.ProviderError{StatusCode: 500, Message: "oops"}
		},
	}
	fixture := setupManager(t, factory)

	client, id, err := fixture.manager.EnsureSession(context.Background())
	require.Nil(t, client)
	require.Empty(t, id)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.KindProviderAPIError, appErr.Kind)

	require.Empty(t, fixture.identity.Get(), "failed creation leaves no dangling identity")
	require.True(t, fixture.tokens.Get().Empty())
	require.Empty(t, fixture.manager.CurrentAnonymousID())
}

func TestClearDataIsIdempotent(t *testing.T) {
	fixture := setupManager(t, &fakeFactory{})
	fixture.identity.Set("anon-1")
	fixture.tokens.Set(tokencache.TokenRecord{AccessToken: "a", RefreshToken: "r"})

	fixture.manager.ClearData()
	fixture.manager.ClearData()

	require.Empty(t, fixture.identity.Get())
	require.True(t, fixture.tokens.Get().Empty())
}

func TestCurrentAnonymousIDFallsBackToPersisted(t *testing.T) {
	fixture := setupManager(t, &fakeFactory{})
	require.Empty(t, fixture.manager.CurrentAnonymousID())

	// written behind the manager's back, e.g. by a previous process
	fixture.identity.Set("anon-persisted")
	require.Equal(t, "anon-persisted", fixture.manager.CurrentAnonymousID())
}
