package platform

// Customer is the authenticated customer profile as returned by the /me
// endpoints.
type Customer struct {
	ID                       string    `json:"id"`
	Version                  int64     `json:"version"`
	Email                    string    `json:"email"`
	FirstName                string    `json:"firstName,omitempty"`
	LastName                 string    `json:"lastName,omitempty"`
	DateOfBirth              string    `json:"dateOfBirth,omitempty"`
	Addresses                []Address `json:"addresses,omitempty"`
	DefaultShippingAddressID string    `json:"defaultShippingAddressId,omitempty"`
	DefaultBillingAddressID  string    `json:"defaultBillingAddressId,omitempty"`
}

type Address struct {
	ID           string `json:"id,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	StreetName   string `json:"streetName,omitempty"`
	StreetNumber string `json:"streetNumber,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country"`
}

// Cart carries just the reference fields of a merged cart; cart contents are
// handled elsewhere.
type Cart struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// CartMergeWithExisting merges the anonymous cart into the customer's
// existing cart during sign-in.
const CartMergeWithExisting = "MergeWithExistingCustomerCart"

// CustomerSignIn is the body of POST /me/login.
type CustomerSignIn struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	ActiveCartSignInMode string `json:"activeCartSignInMode,omitempty"`
	UpdateProductData    bool   `json:"updateProductData,omitempty"`
}

// CustomerSignInResult is returned by both /me/login and /me/signup.
type CustomerSignInResult struct {
	Customer Customer `json:"customer"`
	Cart     *Cart    `json:"cart,omitempty"`
}

// CustomerDraft is the body of POST /me/signup. The default address fields
// are indices into Addresses and must stay pointers so zero indices survive
// serialization.
type CustomerDraft struct {
	Email                  string    `json:"email"`
	Password               string    `json:"password"`
	FirstName              string    `json:"firstName,omitempty"`
	LastName               string    `json:"lastName,omitempty"`
	DateOfBirth            string    `json:"dateOfBirth,omitempty"`
	Addresses              []Address `json:"addresses,omitempty"`
	DefaultShippingAddress *int      `json:"defaultShippingAddress,omitempty"`
	DefaultBillingAddress  *int      `json:"defaultBillingAddress,omitempty"`
}

// UpdateAction is one entry of a versioned POST /me update. Exactly the
// fields relevant to Action are set.
type UpdateAction struct {
	Action      string   `json:"action"`
	Email       string   `json:"email,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	AddressID   string   `json:"addressId,omitempty"`
	Address     *Address `json:"address,omitempty"`
}

type customerUpdate struct {
	Version int64          `json:"version"`
	Actions []UpdateAction `json:"actions"`
}

type passwordChange struct {
	Version         int64  `json:"version"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Project is the subset of project settings the storefront consumes.
type Project struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Languages  []string `json:"languages,omitempty"`
	Countries  []string `json:"countries,omitempty"`
	Currencies []string `json:"currencies,omitempty"`
}
