package authsession

import (
	"github.com/commercekit/go-storefront-session/internal/utils"
	"github.com/commercekit/go-storefront-session/platform"
)

// buildCustomerDraft assembles the signup draft from the two address
// sub-forms. The shipping address is always first; a separate billing address
// is appended only when the forms differ, and the default-address indices
// point into the assembled list.
func buildCustomerDraft(data RegistrationData) platform.CustomerDraft {
	shipping := toPlatformAddress(data.ShippingAddress)
	addresses := []platform.Address{shipping}

	billingIndex := 0
	if !data.SameAsShipping && data.BillingAddress != nil {
		addresses = append(addresses, toPlatformAddress(*data.BillingAddress))
		billingIndex = 1
	}

	draft := platform.CustomerDraft{
		Email:       data.Email,
		Password:    data.Password,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		DateOfBirth: data.DateOfBirth,
		Addresses:   addresses,
	}

	if data.ShippingAddress.IsDefaultShipping {
		draft.DefaultShippingAddress = utils.Ptr(0)
	}
	if data.SameAsShipping && data.ShippingAddress.IsDefaultBilling {
		draft.DefaultBillingAddress = utils.Ptr(0)
	} else if !data.SameAsShipping && data.BillingAddress != nil && data.BillingAddress.IsDefaultBilling {
		draft.DefaultBillingAddress = utils.Ptr(billingIndex)
	}

	return draft
}

func toPlatformAddress(address AddressData) platform.Address {
	return platform.Address{
		ID:           address.ID,
		FirstName:    address.FirstName,
		LastName:     address.LastName,
		StreetName:   address.StreetName,
		StreetNumber: address.StreetNumber,
		PostalCode:   address.PostalCode,
		City:         address.City,
		Country:      address.Country,
	}
}
