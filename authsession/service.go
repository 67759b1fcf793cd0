// Package authsession orchestrates login, registration, logout, session
// restoration and authenticated profile mutations, coordinating the handoff
// from the anonymous identity to the authenticated customer identity. All
// failures leave the orchestration boundary as classified AppErrors.
package authsession

import (
	"context"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/platform"
	"github.com/commercekit/go-storefront-session/tokencache"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ClientFactory is the slice of the session client factory the service needs.
type ClientFactory interface {
	CreatePasswordClient(ctx context.Context, email, password string, useCache bool) (*platform.Client, error)
	CreateRefreshClient(ctx context.Context, refreshToken string, cache *tokencache.Cache) (*platform.Client, error)
	CreateClientFromStoredUserSession() (*platform.Client, error)
	Revoke(ctx context.Context, token string) error
}

// AnonymousSessions is the anonymous session manager surface the service
// coordinates the handoff with.
type AnonymousSessions interface {
	EnsureSession(ctx context.Context) (*platform.Client, string, error)
	ClearData()
	CurrentAnonymousID() string
}

// Service owns which identity is "current" from the caller's perspective. It
// never touches the credential store directly; it only calls into the
// anonymous session manager and the user token cache.
type Service struct {
	factory    ClientFactory
	anonymous  AnonymousSessions
	userTokens *tokencache.Cache
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewService initializes a Service. userTokens must be the user-scoped cache.
func NewService(factory ClientFactory, anonymous AnonymousSessions, userTokens *tokencache.Cache, log zerolog.Logger) (*Service, error) {
	if factory == nil {
		return nil, errors.New("[NewService] client factory is required")
	}
	if anonymous == nil {
		return nil, errors.New("[NewService] anonymous session manager is required")
	}
	if userTokens == nil {
		return nil, errors.New("[NewService] user token cache is required")
	}

	return &Service{
		factory:    factory,
		anonymous:  anonymous,
		userTokens: userTokens,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        log,
	}, nil
}

// Login signs the customer in via the /me/login handoff: the call is made as
// the current anonymous identity so an anonymous cart merges into the
// customer's cart, and only after it succeeds are genuine user tokens minted
// through the password flow. Any failure clears the user token cache so a
// half-set token is never left behind; the anonymous identity is not rolled
// back on failure, so a retry can reuse it.
func (s *Service) Login(ctx context.Context, data LoginData) (*platform.Customer, error) {
	s.log.Info().Msg("attempting login via /me/login handoff")

	if err := s.validateInput(data, "login data"); err != nil {
		return nil, err
	}

	anonClient, _, err := s.anonymous.EnsureSession(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	s.userTokens.Clear()

	result, err := anonClient.SignIn(ctx, platform.CustomerSignIn{
		Email:                data.Email,
		Password:             data.Password,
		ActiveCartSignInMode: platform.CartMergeWithExisting,
		UpdateProductData:    true,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("sign-in failed")
		s.userTokens.Clear()
		return nil, apperrors.Classify(err)
	}
	s.log.Info().Msg("sign-in succeeded, switching to user identity")

	s.anonymous.ClearData()
	s.userTokens.Clear()

	userClient, err := s.factory.CreatePasswordClient(ctx, data.Email, data.Password, true)
	if err != nil {
		s.userTokens.Clear()
		return nil, apperrors.Classify(err)
	}
	if _, err := userClient.Me(ctx); err != nil {
		s.userTokens.Clear()
		return nil, apperrors.Classify(err)
	}

	return &result.Customer, nil
}

// Register signs a new customer up as the current anonymous identity so any
// anonymous cart carries over, then discards that identity. Registration
// alone does not mint a persisted user session; callers follow up with Login.
func (s *Service) Register(ctx context.Context, data RegistrationData) (*platform.CustomerSignInResult, error) {
	s.log.Info().Msg("attempting registration")

	if err := s.validateInput(data, "registration data"); err != nil {
		return nil, err
	}

	anonClient, _, err := s.anonymous.EnsureSession(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	result, err := anonClient.SignUp(ctx, buildCustomerDraft(data))
	if err != nil {
		s.log.Error().Err(err).Msg("registration failed")
		return nil, apperrors.Classify(err)
	}

	s.anonymous.ClearData()
	s.log.Info().Msg("registration succeeded")
	return result, nil
}

// Logout clears both identities and revokes the user's token best-effort: a
// failed revocation is logged, never surfaced, and a logged-out user starts
// with a fresh anonymous identity either way.
func (s *Service) Logout(ctx context.Context) {
	s.log.Info().Msg("logging out")

	record := s.userTokens.Get()
	tokenToRevoke := record.RefreshToken
	if tokenToRevoke == "" {
		tokenToRevoke = record.AccessToken
	}

	s.userTokens.Clear()
	s.anonymous.ClearData()

	if tokenToRevoke == "" {
		return
	}
	if err := s.factory.Revoke(ctx, tokenToRevoke); err != nil {
		s.log.Warn().Err(err).Msg("token revocation failed")
		return
	}
	s.log.Debug().Msg("token revoked")
}

// RestoreSession resumes the persisted user session via the refresh-token
// flow. It never fails: without a refresh token it returns nil immediately,
// and on any rejection it clears the user token cache and returns nil, so
// callers can invoke it unconditionally at startup.
func (s *Service) RestoreSession(ctx context.Context) *platform.Customer {
	record := s.userTokens.Get()
	if record.RefreshToken == "" {
		s.log.Debug().Msg("no refresh token, nothing to restore")
		return nil
	}

	client, err := s.factory.CreateRefreshClient(ctx, record.RefreshToken, s.userTokens)
	if err != nil {
		s.log.Warn().Err(err).Msg("session refresh failed")
		s.userTokens.Clear()
		return nil
	}

	customer, err := client.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile read after refresh failed")
		s.userTokens.Clear()
		return nil
	}

	s.log.Info().Msg("session restored")
	return customer
}

// UpdatePersonalInfo applies a minimal diff of profile fields against the
// current customer; when nothing changed, no update is sent.
func (s *Service) UpdatePersonalInfo(ctx context.Context, data PersonalInfo) (*platform.Customer, error) {
	if err := s.validateInput(data, "personal info"); err != nil {
		return nil, err
	}

	client, err := s.factory.CreateClientFromStoredUserSession()
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	current, err := client.Me(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	var actions []platform.UpdateAction
	if data.Email != current.Email {
		actions = append(actions, platform.UpdateAction{Action: "changeEmail", Email: data.Email})
	}
	if data.FirstName != current.FirstName {
		actions = append(actions, platform.UpdateAction{Action: "setFirstName", FirstName: data.FirstName})
	}
	if data.LastName != current.LastName {
		actions = append(actions, platform.UpdateAction{Action: "setLastName", LastName: data.LastName})
	}
	if data.DateOfBirth != current.DateOfBirth {
		actions = append(actions, platform.UpdateAction{Action: "setDateOfBirth", DateOfBirth: data.DateOfBirth})
	}

	if len(actions) == 0 {
		s.log.Debug().Msg("no profile changes to update")
		return current, nil
	}

	updated, err := client.UpdateMe(ctx, current.Version, actions)
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	s.log.Info().Msg("personal information updated")
	return updated, nil
}

// UpdatePassword changes the password and then re-authenticates through the
// password flow, since the provider invalidates the prior token on a
// password change.
func (s *Service) UpdatePassword(ctx context.Context, data PasswordChange) (*platform.Customer, error) {
	if err := s.validateInput(data, "password change"); err != nil {
		return nil, err
	}

	client, err := s.factory.CreateClientFromStoredUserSession()
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	customer, err := client.ChangePassword(ctx, data.Version, data.CurrentPassword, data.NewPassword)
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	s.log.Info().Msg("password updated, re-authenticating")

	userClient, err := s.factory.CreatePasswordClient(ctx, customer.Email, data.NewPassword, true)
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	if _, err := userClient.Me(ctx); err != nil {
		return nil, apperrors.Classify(err)
	}

	return customer, nil
}

// SetDefaultAddress marks an existing address as the default shipping or
// billing address.
func (s *Service) SetDefaultAddress(ctx context.Context, addressID string, addressType AddressType) (*platform.Customer, error) {
	client, err := s.factory.CreateClientFromStoredUserSession()
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	current, err := client.Me(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	action := platform.UpdateAction{Action: "setDefaultShippingAddress", AddressID: addressID}
	if addressType == AddressTypeBilling {
		action = platform.UpdateAction{Action: "setDefaultBillingAddress", AddressID: addressID}
	}

	updated, err := client.UpdateMe(ctx, current.Version, []platform.UpdateAction{action})
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	s.log.Info().Str("type", string(addressType)).Msg("default address updated")
	return updated, nil
}

// RemoveAddress removes an address from the customer.
func (s *Service) RemoveAddress(ctx context.Context, addressID string) (*platform.Customer, error) {
	client, err := s.factory.CreateClientFromStoredUserSession()
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	current, err := client.Me(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	updated, err := client.UpdateMe(ctx, current.Version, []platform.UpdateAction{
		{Action: "removeAddress", AddressID: addressID},
	})
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	s.log.Info().Msg("address removed")
	return updated, nil
}

// UpdateAddress adds or changes an address and applies any default flags it
// carries. When the input produces no actions, the current customer is
// returned unchanged.
func (s *Service) UpdateAddress(ctx context.Context, address AddressData) (*platform.Customer, error) {
	client, err := s.factory.CreateClientFromStoredUserSession()
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	current, err := client.Me(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	base := toPlatformAddress(address)
	var actions []platform.UpdateAction
	if address.IsNew {
		actions = append(actions, platform.UpdateAction{Action: "addAddress", Address: &base})
	} else if address.ID != "" {
		actions = append(actions, platform.UpdateAction{Action: "changeAddress", AddressID: address.ID, Address: &base})
	}
	if address.ID != "" && address.IsDefaultShipping {
		actions = append(actions, platform.UpdateAction{Action: "setDefaultShippingAddress", AddressID: address.ID})
	}
	if address.ID != "" && address.IsDefaultBilling {
		actions = append(actions, platform.UpdateAction{Action: "setDefaultBillingAddress", AddressID: address.ID})
	}

	if len(actions) == 0 {
		s.log.Debug().Msg("no address changes detected")
		return current, nil
	}

	updated, err := client.UpdateMe(ctx, current.Version, actions)
	if err != nil {
		return nil, apperrors.Classify(err)
	}
	s.log.Info().Msg("address updated")
	return updated, nil
}
