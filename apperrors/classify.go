package apperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// Classify maps a raw error onto the taxonomy. Rules, in priority order:
//
//  1. provider code InvalidCredentials, OAuth invalid_grant, or an
//     InvalidOperation mentioning a password mismatch -> InvalidCredentials
//  2. provider code DuplicateField on field "email"   -> EmailInUse
//  3. any other structured provider error body        -> ProviderApiError
//  4. transport failures or messages mentioning a
//     fetch/network failure (case-insensitive)        -> NetworkError
//  5. anything else -> UnknownError, preserving the original message
//
// Already-classified AppErrors pass through unchanged, so it is safe to call
// at every orchestration boundary.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var provider *ProviderError
	if errors.As(err, &provider) {
		return classifyProvider(provider)
	}

	if isNetworkErr(err) {
		return NewNetwork(err.Error())
	}

	return NewUnknown(err.Error())
}

func classifyProvider(e *ProviderError) *AppError {
	if e.OAuthError == "invalid_grant" {
		return NewInvalidCredentials(e.message())
	}

	if len(e.Errors) > 0 {
		first := e.Errors[0]
		switch {
		case first.Code == "InvalidCredentials":
			return NewInvalidCredentials(e.message())
		case first.Code == "InvalidOperation" &&
			strings.Contains(strings.ToLower(first.Message), "password does not match"):
			return NewInvalidCredentials(first.Message)
		case first.Code == "DuplicateField" && first.Field == "email":
			return NewEmailInUse(first.Message)
		}
	}

	return NewProviderAPI(e.StatusCode, e.code(), e.message())
}

func isNetworkErr(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "failed to fetch") ||
		strings.Contains(msg, "network error") ||
		strings.Contains(msg, "networkerror")
}
