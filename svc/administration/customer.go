package administration

import (
	"github.com/dmitrymomot/servicebond/pkg/sanitizer"
	"github.com/dmitrymomot/servicebond/pkg/validator"
)

// Customer belongs to exactly one shop and is only reachable through that
// shop's tenant context.
type Customer struct {
	ID            int64   `json:"id" db:"id"`
	ShopID        int64   `json:"-" db:"shop_id"`
	FirstName     *string `json:"first_name" db:"first_name"`
	LastName      *string `json:"last_name" db:"last_name"`
	StreetAddress *string `json:"street_address" db:"street_address"`
	PhoneNumber   *string `json:"phone_number" db:"phone_number"`
	City          *string `json:"city" db:"city"`
	State         *string `json:"state" db:"state"`
	Zipcode       *string `json:"zipcode" db:"zipcode"`
}

type CustomerInput struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	StreetAddress *string `json:"street_address"`
	PhoneNumber   *string `json:"phone_number"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Zipcode       *string `json:"zipcode"`
}

func (in CustomerInput) apply(c *Customer) {
	c.FirstName = in.FirstName
	c.LastName = in.LastName
	c.StreetAddress = in.StreetAddress
	c.PhoneNumber = in.PhoneNumber
	c.City = in.City
	c.State = in.State
	c.Zipcode = in.Zipcode
}

func (c *Customer) Normalize() {
	c.FirstName = nullable(c.FirstName, sanitizer.SingleLine)
	c.LastName = nullable(c.LastName, sanitizer.SingleLine)
	c.StreetAddress = nullable(c.StreetAddress, sanitizer.SingleLine)
	c.PhoneNumber = nullable(c.PhoneNumber, sanitizer.NormalizePhone)
	c.City = nullable(c.City, sanitizer.SingleLine)
	c.State = nullable(c.State, sanitizer.SingleLine)
	c.Zipcode = nullable(c.Zipcode, sanitizer.NormalizePostalCode)
}

func (c *Customer) Validate() error {
	return validator.Apply(
		validator.MaxLen("first_name", deref(c.FirstName), maxAddressLength),
		validator.MaxLen("last_name", deref(c.LastName), maxAddressLength),
		validator.MaxLen("street_address", deref(c.StreetAddress), maxAddressLength),
		validator.Optional(deref(c.PhoneNumber), validator.Phone("phone_number", deref(c.PhoneNumber))),
		validator.MaxLen("city", deref(c.City), maxRegionLength),
		validator.MaxLen("state", deref(c.State), maxRegionLength),
		validator.MaxLen("zipcode", deref(c.Zipcode), maxZipcodeLength),
	)
}

// FullName joins the first and last name.
func (c *Customer) FullName() string {
	return sanitizer.SingleLine(deref(c.FirstName) + " " + deref(c.LastName))
}
