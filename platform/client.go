// Package platform is a minimal REST client for the commerce platform,
// scoped to a single project. Authentication is carried by the *http.Client
// handed in at construction; error bodies are decoded into the structured
// *apperrors.ProviderError at this boundary so the layers above never inspect
// raw responses.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/pkg/errors"
)

// Client issues project-scoped requests under one acting identity.
type Client struct {
	httpClient *http.Client
	apiURL     string
	projectKey string
}

// NewClient binds an authenticated HTTP client to a project. The identity the
// client acts as is whatever flow produced httpClient.
func NewClient(httpClient *http.Client, apiURL, projectKey string) *Client {
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		projectKey: projectKey,
	}
}

// Me returns the current customer's profile.
func (c *Client) Me(ctx context.Context) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/me", nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// SignIn authenticates the credentials as the current (anonymous) identity
// and returns the customer plus merged cart in one round trip.
func (c *Client) SignIn(ctx context.Context, signIn CustomerSignIn) (*CustomerSignInResult, error) {
	var result CustomerSignInResult
	if err := c.do(ctx, http.MethodPost, "/me/login", signIn, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignUp registers a new customer as the current (anonymous) identity.
func (c *Client) SignUp(ctx context.Context, draft CustomerDraft) (*CustomerSignInResult, error) {
	var result CustomerSignInResult
	if err := c.do(ctx, http.MethodPost, "/me/signup", draft, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMe applies a versioned action list to the current customer.
func (c *Client) UpdateMe(ctx context.Context, version int64, actions []UpdateAction) (*Customer, error) {
	var customer Customer
	body := customerUpdate{Version: version, Actions: actions}
	if err := c.do(ctx, http.MethodPost, "/me", body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ChangePassword changes the current customer's password. The prior access
// token is invalidated by the provider on success.
func (c *Client) ChangePassword(ctx context.Context, version int64, currentPassword, newPassword string) (*Customer, error) {
	var customer Customer
	body := passwordChange{Version: version, CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := c.do(ctx, http.MethodPost, "/me/password", body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Project returns the project settings.
func (c *Client) Project(ctx context.Context) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "", nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] encode body")
		}
		reader = bytes.NewReader(data)
	}

	url := c.apiURL + "/" + c.projectKey + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err // transport failures classify as network errors
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "[Client.do] read response")
	}

	if resp.StatusCode >= 400 {
		return DecodeProviderError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrapf(err, "[Client.do] decode %s response", path)
		}
	}
	return nil
}

// DecodeProviderError turns a non-2xx response body into a structured
// *apperrors.ProviderError. Bodies that are not valid provider JSON keep the
// raw text as the message.
func DecodeProviderError(statusCode int, body []byte) error {
	provider := &apperrors.ProviderError{}
	if err := json.Unmarshal(body, provider); err != nil {
		provider = &apperrors.ProviderError{Message: strings.TrimSpace(string(body))}
	}
	provider.StatusCode = statusCode
	return provider
}
