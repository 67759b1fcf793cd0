package authsession_test

import (
	"context"
	"testing"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/authsession"
	"github.com/stretchr/testify/require"
)

func TestRegistrationValidationReportsNestedFields(t *testing.T) {
	fixture := setupService(t)

	data := validRegistration()
	data.DateOfBirth = "01/05/1990"
	data.ShippingAddress.City = ""
	data.ShippingAddress.Country = "Germany"

	_, err := fixture.service.Register(context.Background(), data)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.KindClientValidationFailed, appErr.Kind)

	require.Equal(t, "must be a date in YYYY-MM-DD format", appErr.FieldErrors["DateOfBirth"])
	require.Equal(t, "this field is required", appErr.FieldErrors["ShippingAddress.City"])
	require.Equal(t, "must be a two-letter country code", appErr.FieldErrors["ShippingAddress.Country"])

	require.Zero(t, fixture.anonymous.ensureCalls, "validation failures never reach the network")
}

func TestPasswordChangeValidation(t *testing.T) {
	fixture := setupService(t)

	_, err := fixture.service.UpdatePassword(context.Background(), authsession.PasswordChange{
		Version:     4,
		NewPassword: "short",
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.KindClientValidationFailed, appErr.Kind)
	require.Equal(t, "this field is required", appErr.FieldErrors["CurrentPassword"])
	require.Equal(t, "must be at least 8 characters", appErr.FieldErrors["NewPassword"])
}
