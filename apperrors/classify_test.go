package apperrors_test

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/stretchr/testify/require"
)

func TestClassifyNil(t *testing.T) {
	require.Nil(t, apperrors.Classify(nil))
}

func TestClassifyProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *apperrors.ProviderError
		wantKind apperrors.Kind
	}{
		{
			name:     "invalid credentials code",
			err:      &apperrors.ProviderError{StatusCode: 400, Errors: []apperrors.ProviderErrorDetail{{Code: "InvalidCredentials"}}},
			wantKind: apperrors.KindInvalidCredentials,
		},
		{
			name:     "oauth invalid_grant",
			err:      &apperrors.ProviderError{StatusCode: 400, OAuthError: "invalid_grant", OAuthErrorDescription: "bad password"},
			wantKind: apperrors.KindInvalidCredentials,
		},
		{
			name: "invalid operation mentioning password mismatch",
			err: &apperrors.ProviderError{StatusCode: 400, Errors: []apperrors.ProviderErrorDetail{
				{Code: "InvalidOperation", Message: "The given current password does not match."},
			}},
			wantKind: apperrors.KindInvalidCredentials,
		},
		{
			name: "duplicate email",
			err: &apperrors.ProviderError{StatusCode: 400, Errors: []apperrors.ProviderErrorDetail{
				{Code: "DuplicateField", Field: "email", Message: "already exists"},
			}},
			wantKind: apperrors.KindEmailInUse,
		},
		{
			name: "duplicate field other than email",
			err: &apperrors.ProviderError{StatusCode: 400, Errors: []apperrors.ProviderErrorDetail{
				{Code: "DuplicateField", Field: "slug"},
			}},
			wantKind: apperrors.KindProviderAPIError,
		},
		{
			name:     "other structured error",
			err:      &apperrors.ProviderError{StatusCode: 500, Message: "internal"},
			wantKind: apperrors.KindProviderAPIError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperrors.Classify(tt.err)
			require.NotNil(t, appErr)
			require.Equal(t, tt.wantKind, appErr.Kind)
			require.NotEmpty(t, appErr.MessageKey)
		})
	}
}

func TestClassifyProviderErrorCarriesCodeAndStatus(t *testing.T) {
	appErr := apperrors.Classify(&apperrors.ProviderError{
		StatusCode: 409,
		Errors:     []apperrors.ProviderErrorDetail{{Code: "ConcurrentModification", Message: "version mismatch"}},
	})
	require.Equal(t, apperrors.KindProviderAPIError, appErr.Kind)
	require.Equal(t, 409, appErr.HTTPStatus)
	require.Equal(t, "ConcurrentModification", appErr.ProviderCode)
	require.Equal(t, "version mismatch", appErr.Detail)
}

func TestClassifyWrappedProviderError(t *testing.T) {
	wrapped := fmt.Errorf("ensure session: %w", &apperrors.ProviderError{
		StatusCode: 400,
		OAuthError: "invalid_grant",
	})
	require.Equal(t, apperrors.KindInvalidCredentials, apperrors.Classify(wrapped).Kind)
}

func TestClassifyNetworkErrors(t *testing.T) {
	require.Equal(t, apperrors.KindNetworkError, apperrors.Classify(errors.New("Failed to fetch")).Kind)
	require.Equal(t, apperrors.KindNetworkError, apperrors.Classify(errors.New("NetworkError when attempting to fetch resource")).Kind)

	urlErr := &url.Error{Op: "Post", URL: "https://auth.example.com/oauth/token", Err: errors.New("connection refused")}
	require.Equal(t, apperrors.KindNetworkError, apperrors.Classify(urlErr).Kind)
}

func TestClassifyUnknownPreservesMessage(t *testing.T) {
	appErr := apperrors.Classify(errors.New("boom"))
	require.Equal(t, apperrors.KindUnknownError, appErr.Kind)
	require.Equal(t, "boom", appErr.Detail)
}

func TestClassifyPassesThroughAppErrors(t *testing.T) {
	original := apperrors.NewNoActiveSession()
	require.Same(t, original, apperrors.Classify(original))

	wrapped := fmt.Errorf("context: %w", original)
	require.Same(t, original, apperrors.Classify(wrapped))
}
