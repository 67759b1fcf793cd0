package sessionclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/commercekit/go-storefront-session/platform"
	"github.com/pkg/errors"
)

// Revoke invalidates a refresh or access token against the provider's revoke
// endpoint, authenticated with the app's client credentials. Used best-effort
// on logout.
func (f *Factory) Revoke(ctx context.Context, token string) error {
	body := url.Values{"token": {token}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.GetAuthURL()+"/oauth/token/revoke", strings.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "[Factory.Revoke] build request")
	}
	req.SetBasicAuth(f.cfg.GetClientID(), f.cfg.GetClientSecret())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return platform.DecodeProviderError(resp.StatusCode, raw)
	}
	return nil
}
