package authsession

// LoginData is the credential input for Login.
type LoginData struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// AddressData is one address sub-form of registration or an address mutation.
type AddressData struct {
	ID                string
	FirstName         string
	LastName          string
	StreetName        string `validate:"required"`
	StreetNumber      string
	PostalCode        string `validate:"required"`
	City              string `validate:"required"`
	Country           string `validate:"required,iso3166_1_alpha2"`
	IsDefaultShipping bool
	IsDefaultBilling  bool
	// IsNew marks an address that does not exist on the customer yet; it
	// selects an add action instead of a change action in UpdateAddress.
	IsNew bool
}

// RegistrationData is the input for Register. When SameAsShipping is set the
// billing sub-form is ignored and the shipping address doubles as billing.
type RegistrationData struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	DateOfBirth     string `validate:"required,datetime=2006-01-02"`
	ShippingAddress AddressData
	SameAsShipping  bool
	BillingAddress  *AddressData
}

// PersonalInfo is the input for UpdatePersonalInfo.
type PersonalInfo struct {
	Email       string `validate:"required,email"`
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	DateOfBirth string `validate:"omitempty,datetime=2006-01-02"`
}

// PasswordChange is the input for UpdatePassword. Version is the customer
// version the caller last observed.
type PasswordChange struct {
	Version         int64
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=8"`
}

// AddressType selects which default address a SetDefaultAddress call changes.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)
