package administration

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/servicebond/pkg/sanitizer"
	"github.com/dmitrymomot/servicebond/pkg/slug"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/pkg/validator"
)

const (
	maxShopNameLength = 64
	maxAddressLength  = 256
	maxRegionLength   = 128
	maxZipcodeLength  = 10
)

// JSONObject is a free-form JSON object column.
type JSONObject map[string]any

// Shop is the tenant record.
type Shop struct {
	ID             int64      `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Title          string     `json:"title" db:"title"`
	PhoneNumber    *string    `json:"phone_number" db:"phone_number"`
	Email          *string    `json:"email" db:"email"`
	LocationLat    *float64   `json:"location_lat" db:"location_lat"`
	LocationLon    *float64   `json:"location_lon" db:"location_lon"`
	StreetAddress  *string    `json:"street_address" db:"street_address"`
	Country        *string    `json:"country" db:"country"`
	City           *string    `json:"city" db:"city"`
	State          *string    `json:"state" db:"state"`
	Zipcode        *string    `json:"zipcode" db:"zipcode"`
	SocialContacts JSONObject `json:"social_contacts" db:"social_contacts"`
	OpeningHours   JSONObject `json:"opening_hours" db:"opening_hours"`
	Preferences    JSONObject `json:"preferences" db:"preferences"`
}

// ShopInput is the writable part of a shop. Name is derived from Title.
type ShopInput struct {
	Title          string     `json:"title"`
	PhoneNumber    *string    `json:"phone_number"`
	Email          *string    `json:"email"`
	LocationLat    *float64   `json:"location_lat"`
	LocationLon    *float64   `json:"location_lon"`
	StreetAddress  *string    `json:"street_address"`
	Country        *string    `json:"country"`
	City           *string    `json:"city"`
	State          *string    `json:"state"`
	Zipcode        *string    `json:"zipcode"`
	SocialContacts JSONObject `json:"social_contacts"`
	OpeningHours   JSONObject `json:"opening_hours"`
	Preferences    JSONObject `json:"preferences"`
}

func (in ShopInput) apply(s *Shop) {
	s.Title = in.Title
	s.PhoneNumber = in.PhoneNumber
	s.Email = in.Email
	s.LocationLat = in.LocationLat
	s.LocationLon = in.LocationLon
	s.StreetAddress = in.StreetAddress
	s.Country = in.Country
	s.City = in.City
	s.State = in.State
	s.Zipcode = in.Zipcode
	s.SocialContacts = in.SocialContacts
	s.OpeningHours = in.OpeningHours
	s.Preferences = in.Preferences
}

// Fixed key sets of the shop JSON columns. Every key is an optional string.
var (
	SocialContactsKeys = []string{"facebook", "twitter", "instagram", "pinterest"}
	OpeningHoursKeys   = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	PreferencesKeys    = []string{"reserve_notification_emails"}
)

// PurgeJSON keeps only the declared keys of obj. A nil object becomes an
// empty one. A declared key holding anything but a string fails with
// ErrInvalidJSONField, joined with a validation error for field.
func PurgeJSON(field string, obj JSONObject, keys []string) (JSONObject, error) {
	out := make(JSONObject, len(keys))
	var errs validator.ValidationErrors
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		if !slices.Contains(keys, key) {
			continue
		}
		s, ok := obj[key].(string)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s: must be of string type", key),
			})
			continue
		}
		out[key] = s
	}
	if len(errs) > 0 {
		return nil, errors.Join(ErrInvalidJSONField, errs)
	}
	return out, nil
}

// Normalize applies the save-time rules: the name is the slug of the title,
// JSON columns are purged to their schema, blank optional strings become
// null and phone numbers are reduced to digits.
func (s *Shop) Normalize() error {
	s.Title = sanitizer.SingleLine(s.Title)
	s.Name = slug.Make(s.Title, slug.MaxLength(maxShopNameLength))
	s.PhoneNumber = nullable(s.PhoneNumber, sanitizer.NormalizePhone)
	s.Email = nullable(s.Email, sanitizer.Trim)
	s.StreetAddress = nullable(s.StreetAddress, sanitizer.SingleLine)
	s.Country = nullable(s.Country, sanitizer.SingleLine)
	s.City = nullable(s.City, sanitizer.SingleLine)
	s.State = nullable(s.State, sanitizer.SingleLine)
	s.Zipcode = nullable(s.Zipcode, sanitizer.NormalizePostalCode)

	var err error
	if s.SocialContacts, err = PurgeJSON("social_contacts", s.SocialContacts, SocialContactsKeys); err != nil {
		return err
	}
	if s.OpeningHours, err = PurgeJSON("opening_hours", s.OpeningHours, OpeningHoursKeys); err != nil {
		return err
	}
	if s.Preferences, err = PurgeJSON("preferences", s.Preferences, PreferencesKeys); err != nil {
		return err
	}
	return nil
}

func (s *Shop) Validate() error {
	rules := []validator.Rule{
		validator.Required("title", s.Title),
		validator.MaxLen("title", s.Title, maxShopNameLength),
		{
			Check: func() bool { return s.Title == "" || s.Name != "" },
			Error: validator.ValidationError{Field: "title", Message: "must contain letters or digits"},
		},
		validator.Optional(deref(s.Email), validator.Email("email", deref(s.Email))),
		validator.Optional(deref(s.PhoneNumber), validator.Phone("phone_number", deref(s.PhoneNumber))),
		validator.MaxLen("street_address", deref(s.StreetAddress), maxAddressLength),
		validator.MaxLen("country", deref(s.Country), maxRegionLength),
		validator.MaxLen("city", deref(s.City), maxRegionLength),
		validator.MaxLen("state", deref(s.State), maxRegionLength),
		validator.MaxLen("zipcode", deref(s.Zipcode), maxZipcodeLength),
	}
	if s.LocationLat != nil {
		rules = append(rules, validator.Between("location_lat", *s.LocationLat, -90, 90))
	}
	if s.LocationLon != nil {
		rules = append(rules, validator.Between("location_lon", *s.LocationLon, -180, 180))
	}
	return validator.Apply(rules...)
}

// Tenant returns the request-scoped view of the shop.
func (s *Shop) Tenant() *tenant.Tenant {
	return &tenant.Tenant{ID: s.ID, Name: s.Name, Title: s.Title}
}

func nullable(p *string, clean func(string) string) *string {
	if p == nil {
		return nil
	}
	v := clean(*p)
	if v == "" {
		return nil
	}
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
