// Package sessionclient builds authenticated platform clients, one
// constructor per credential-acquisition flow: client credentials, anonymous
// session, resource-owner password, refresh token and existing token. Flows
// that need a token round trip fetch their first token eagerly so
// construction failures surface at the factory call; callers route those
// failures through apperrors.Classify.
package sessionclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/internal/config"
	"github.com/commercekit/go-storefront-session/platform"
	"github.com/commercekit/go-storefront-session/tokencache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Factory is stateless beyond its configuration and the two token caches it
// writes through.
type Factory struct {
	cfg        config.CommerceConfig
	userTokens *tokencache.Cache
	anonTokens *tokencache.Cache
	httpClient *http.Client
	log        zerolog.Logger
}

// FactoryOption modifies a Factory at construction.
type FactoryOption func(*Factory)

// WithHTTPClient sets the base HTTP client used for token requests and as the
// transport under every built platform client.
func WithHTTPClient(httpClient *http.Client) FactoryOption {
	return func(f *Factory) {
		f.httpClient = httpClient
	}
}

// New creates a Factory. userTokens and anonTokens are the user-scoped and
// anonymous-scoped caches the flows persist into.
func New(cfg config.CommerceConfig, userTokens, anonTokens *tokencache.Cache, log zerolog.Logger, options ...FactoryOption) (*Factory, error) {
	if cfg == nil {
		return nil, errors.New("[sessionclient.New] config is required")
	}
	if userTokens == nil || anonTokens == nil {
		return nil, errors.New("[sessionclient.New] token caches are required")
	}

	factory := &Factory{
		cfg:        cfg,
		userTokens: userTokens,
		anonTokens: anonTokens,
		httpClient: http.DefaultClient,
		log:        log,
	}
	for _, opt := range options {
		opt(factory)
	}
	return factory, nil
}

// CreateAppClient returns a client authenticated with the service-level
// client-credentials flow. App tokens are not persisted.
func (f *Factory) CreateAppClient(ctx context.Context) (*platform.Client, error) {
	conf := &clientcredentials.Config{
		ClientID:     f.cfg.GetClientID(),
		ClientSecret: f.cfg.GetClientSecret(),
		TokenURL:     f.tokenURL(),
		Scopes:       f.cfg.GetScopes(),
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	source := conf.TokenSource(f.baseContext(ctx))
	if _, err := source.Token(); err != nil {
		return nil, translateTokenError(err)
	}
	return f.clientFor(source), nil
}

// CreateAnonymousClient starts an anonymous session scoped by the given
// correlation id and caches its tokens into the anonymous cache.
func (f *Factory) CreateAnonymousClient(ctx context.Context, anonymousID string) (*platform.Client, error) {
	conf := &clientcredentials.Config{
		ClientID:       f.cfg.GetClientID(),
		ClientSecret:   f.cfg.GetClientSecret(),
		TokenURL:       f.anonymousTokenURL(),
		Scopes:         f.cfg.GetScopes(),
		AuthStyle:      oauth2.AuthStyleInHeader,
		EndpointParams: url.Values{"anonymous_id": {anonymousID}},
	}

	source := conf.TokenSource(f.baseContext(ctx))
	token, err := source.Token()
	if err != nil {
		return nil, translateTokenError(err)
	}
	f.anonTokens.Set(recordFromToken(token))
	f.log.Debug().Str("anonymousId", anonymousID).Msg("anonymous session token acquired")

	return f.clientFor(&cachingSource{src: source, cache: f.anonTokens, last: token}), nil
}

// CreatePasswordClient performs the resource-owner password flow. With
// useCache the resulting tokens are persisted into the user cache; call sites
// that only validate credentials pass false.
func (f *Factory) CreatePasswordClient(ctx context.Context, email, password string, useCache bool) (*platform.Client, error) {
	conf := f.oauthConfig(f.customerTokenURL())

	baseCtx := f.baseContext(ctx)
	token, err := conf.PasswordCredentialsToken(baseCtx, email, password)
	if err != nil {
		return nil, translateTokenError(err)
	}

	source := conf.TokenSource(baseCtx, token)
	if useCache {
		f.userTokens.Set(recordFromToken(token))
		source = &cachingSource{src: source, cache: f.userTokens, last: token}
	}
	return f.clientFor(source), nil
}

// CreateRefreshClient performs the refresh-token flow, writing refreshed
// tokens into whichever cache is passed. The same path serves the user and
// anonymous identities.
func (f *Factory) CreateRefreshClient(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error) {
	conf := f.oauthConfig(f.tokenURL())

	// A token with no access token forces an immediate refresh.
	source := conf.TokenSource(f.baseContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, translateTokenError(err)
	}

	if cache != nil {
		cache.Set(recordFromToken(token))
		source = &cachingSource{src: source, cache: cache, last: token}
	}
	return f.clientFor(source), nil
}

// CreateExistingTokenClient wraps an already-known bearer token without a new
// handshake.
func (f *Factory) CreateExistingTokenClient(accessToken string) *platform.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return f.clientFor(source)
}

// CreateClientFromStoredUserSession wraps the persisted user token. It fails
// with a NoActiveSession error when no user token is present.
func (f *Factory) CreateClientFromStoredUserSession() (*platform.Client, error) {
	record := f.userTokens.Get()
	if record.Empty() {
		return nil, apperrors.NewNoActiveSession()
	}
	return f.CreateExistingTokenClient(record.AccessToken), nil
}

func (f *Factory) clientFor(source oauth2.TokenSource) *platform.Client {
	httpClient := oauth2.NewClient(f.baseContext(context.Background()), source)
	return platform.NewClient(httpClient, f.cfg.GetAPIURL(), f.cfg.GetProjectKey())
}

// baseContext routes oauth2's internal requests through the factory's HTTP
// client.
func (f *Factory) baseContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

func (f *Factory) oauthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.cfg.GetClientID(),
		ClientSecret: f.cfg.GetClientSecret(),
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: f.cfg.GetScopes(),
	}
}

func (f *Factory) tokenURL() string {
	return f.cfg.GetAuthURL() + "/oauth/token"
}

func (f *Factory) anonymousTokenURL() string {
	return f.cfg.GetAuthURL() + "/oauth/" + f.cfg.GetProjectKey() + "/anonymous/token"
}

func (f *Factory) customerTokenURL() string {
	return f.cfg.GetAuthURL() + "/oauth/" + f.cfg.GetProjectKey() + "/customers/token"
}
