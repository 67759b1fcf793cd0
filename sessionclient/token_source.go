package sessionclient

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/tokencache"
	"golang.org/x/oauth2"
)

// cachingSource persists every token the wrapped source mints into a token
// cache, so silent mid-session refreshes survive a process restart.
type cachingSource struct {
	src   oauth2.TokenSource
	cache *tokencache.Cache

	lock sync.Mutex
	last *oauth2.Token
}

var _ oauth2.TokenSource = (*cachingSource)(nil)

func (s *cachingSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if token != s.last {
		s.cache.Set(recordFromToken(token))
		s.last = token
	}
	return token, nil
}

func recordFromToken(token *oauth2.Token) tokencache.TokenRecord {
	record := tokencache.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		record.ExpiresAt = token.Expiry.UnixMilli()
	}
	return record
}

// translateTokenError converts token endpoint failures into the structured
// provider error shape at this boundary. Transport errors pass through and
// classify as network errors.
func translateTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return err
	}

	provider := &apperrors.ProviderError{}
	if jsonErr := json.Unmarshal(retrieveErr.Body, provider); jsonErr != nil {
		provider = &apperrors.ProviderError{Message: string(retrieveErr.Body)}
	}
	if retrieveErr.Response != nil {
		provider.StatusCode = retrieveErr.Response.StatusCode
	}
	return provider
}
