package apperrors

import "fmt"

// ProviderErrorDetail is one entry of a structured provider error body.
type ProviderErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ProviderError is the structured error body returned by the commerce
// platform's REST API and OAuth endpoints, decoded at the HTTP-client
// boundary so classification operates on a closed shape instead of sniffing
// unknown error objects.
type ProviderError struct {
	StatusCode int `json:"statusCode,omitempty"`

	Message string                `json:"message,omitempty"`
	Errors  []ProviderErrorDetail `json:"errors,omitempty"`

	// OAuth token endpoint variant.
	OAuthError            string `json:"error,omitempty"`
	OAuthErrorDescription string `json:"error_description,omitempty"`
}

func (e *ProviderError) Error() string {
	if msg := e.message(); msg != "" {
		return fmt.Sprintf("provider error (%d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("provider error (%d)", e.StatusCode)
}

// code returns the most specific provider code available.
func (e *ProviderError) code() string {
	if len(e.Errors) > 0 && e.Errors[0].Code != "" {
		return e.Errors[0].Code
	}
	return e.OAuthError
}

// message returns the most specific provider message available.
func (e *ProviderError) message() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	if e.OAuthErrorDescription != "" {
		return e.OAuthErrorDescription
	}
	if e.Message != "" {
		return e.Message
	}
	return e.OAuthError
}
