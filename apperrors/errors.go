// Package apperrors defines the closed error taxonomy the session layers
// surface to callers, and the classifier that maps raw transport and provider
// failures onto it. Every AppError carries a stable message key suitable for
// localization so presentation layers never have to string-match.
package apperrors

import "fmt"

// Kind identifies one member of the taxonomy.
type Kind string

const (
	KindInvalidCredentials     Kind = "InvalidCredentials"
	KindEmailInUse             Kind = "EmailInUse"
	KindNetworkError           Kind = "NetworkError"
	KindProviderAPIError       Kind = "ProviderApiError"
	KindClientValidationFailed Kind = "ClientValidationFailed"
	KindUnknownError           Kind = "UnknownError"
	KindNoActiveSession        Kind = "NoActiveSession"
)

// Localization message keys.
const (
	MsgInvalidCredentials = "errors.auth.login.invalidCredentials"
	MsgEmailInUse         = "errors.auth.register.emailInUse"
	MsgNetwork            = "errors.auth.network"
	MsgProviderAPI        = "errors.auth.providerApiGeneral"
	MsgClientValidation   = "errors.auth.clientValidationFailed"
	MsgUnknown            = "errors.auth.unknown"
	MsgNoActiveSession    = "errors.auth.noActiveSession"

	MsgProjectFetchFailed     = "errors.projectSettings.fetchFailed"
	MsgProjectDataUnavailable = "errors.projectSettings.dataUnavailable"
)

// AppError is the only error type that escapes the orchestration boundary.
type AppError struct {
	Kind         Kind
	MessageKey   string
	HTTPStatus   int
	ProviderCode string
	// Detail preserves the original or provider message for diagnostics.
	Detail string
	// FieldErrors maps offending field names to messages; set only for
	// KindClientValidationFailed.
	FieldErrors map[string]string
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

// Is lets errors.Is match on kind, e.g. errors.Is(err, &AppError{Kind: KindNetworkError}).
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && other.Kind == e.Kind
}

func NewInvalidCredentials(detail string) *AppError {
	return &AppError{
		Kind:         KindInvalidCredentials,
		MessageKey:   MsgInvalidCredentials,
		HTTPStatus:   400,
		ProviderCode: "InvalidCredentials",
		Detail:       detail,
	}
}

func NewEmailInUse(detail string) *AppError {
	return &AppError{
		Kind:         KindEmailInUse,
		MessageKey:   MsgEmailInUse,
		HTTPStatus:   400,
		ProviderCode: "DuplicateField",
		Detail:       detail,
	}
}

func NewNetwork(detail string) *AppError {
	return &AppError{Kind: KindNetworkError, MessageKey: MsgNetwork, Detail: detail}
}

func NewProviderAPI(status int, code, detail string) *AppError {
	if code == "" {
		code = "ProviderApiError"
	}
	return &AppError{
		Kind:         KindProviderAPIError,
		MessageKey:   MsgProviderAPI,
		HTTPStatus:   status,
		ProviderCode: code,
		Detail:       detail,
	}
}

func NewUnknown(detail string) *AppError {
	return &AppError{Kind: KindUnknownError, MessageKey: MsgUnknown, Detail: detail}
}

func NewNoActiveSession() *AppError {
	return &AppError{
		Kind:       KindNoActiveSession,
		MessageKey: MsgNoActiveSession,
		Detail:     "no user token available for authenticated request",
	}
}

func NewClientValidation(fields map[string]string) *AppError {
	return &AppError{
		Kind:        KindClientValidationFailed,
		MessageKey:  MsgClientValidation,
		FieldErrors: fields,
		Detail:      "client-side validation failed",
	}
}
