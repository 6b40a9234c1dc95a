package administration

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/servicebond/pkg/sanitizer"
	"github.com/dmitrymomot/servicebond/pkg/validator"
)

const (
	maxUsernameLength = 150
	maxNameLength     = 150
	minPasswordLength = 8
)

type Gender string

const (
	GenderMale    Gender = "m"
	GenderFemale  Gender = "f"
	GenderOther   Gender = "o"
	GenderUnknown Gender = "u"
)

var ErrPasswordMismatch = errors.New("password does not match")

// User is a staff account. Users with a shop administer that shop's sub-site.
type User struct {
	ID                int64      `json:"id" db:"id"`
	Username          string     `json:"username" db:"username"`
	Email             *string    `json:"email" db:"email"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	Gender            Gender     `json:"gender" db:"gender"`
	BirthDate         *time.Time `json:"birth_date" db:"birth_date"`
	ShopID            *int64     `json:"shop" db:"shop_id"`
	IsShopAdmin       bool       `json:"is_shop_admin" db:"is_shop_admin"`
	IsMasterShopAdmin bool       `json:"is_master_shop_admin" db:"is_master_shop_admin"`
	IsSuperuser       bool       `json:"is_superuser" db:"is_superuser"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	DateJoined        time.Time  `json:"date_joined" db:"date_joined"`
}

// UserInput is the writable part of a user. An empty Password keeps the
// current one on update.
type UserInput struct {
	Username          string     `json:"username"`
	Password          string     `json:"password"`
	Email             *string    `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Gender            Gender     `json:"gender"`
	BirthDate         *time.Time `json:"birth_date"`
	ShopID            *int64     `json:"shop"`
	IsShopAdmin       bool       `json:"is_shop_admin"`
	IsMasterShopAdmin bool       `json:"is_master_shop_admin"`
	IsSuperuser       bool       `json:"is_superuser"`
	IsActive          *bool      `json:"is_active"`
}

func (in UserInput) apply(u *User) error {
	u.Username = in.Username
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Gender = in.Gender
	u.BirthDate = in.BirthDate
	u.ShopID = in.ShopID
	u.IsShopAdmin = in.IsShopAdmin
	u.IsMasterShopAdmin = in.IsMasterShopAdmin
	u.IsSuperuser = in.IsSuperuser
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Password == "" {
		return nil
	}
	if err := validator.Apply(validator.Rule{
		Check: func() bool { return len([]rune(in.Password)) >= minPasswordLength },
		Error: validator.ValidationError{Field: "password", Message: "must be at least 8 characters long"},
	}); err != nil {
		return err
	}
	return u.SetPassword(in.Password)
}

// Normalize applies the save-time invariants: usernames and emails are
// lowercase, a blank email is null, a master shop admin is always a shop
// admin and a user without a shop is neither.
func (u *User) Normalize() {
	u.Username = sanitizer.TrimToLower(u.Username)
	u.Email = nullable(u.Email, sanitizer.NormalizeEmail)
	u.FirstName = sanitizer.SingleLine(u.FirstName)
	u.LastName = sanitizer.SingleLine(u.LastName)
	if u.Gender == "" {
		u.Gender = GenderUnknown
	}
	if u.IsMasterShopAdmin {
		u.IsShopAdmin = true
	}
	if u.ShopID == nil {
		u.IsShopAdmin = false
		u.IsMasterShopAdmin = false
	}
}

func (u *User) Validate() error {
	rules := []validator.Rule{
		validator.Required("username", u.Username),
		validator.MaxLen("username", u.Username, maxUsernameLength),
		{
			Check: func() bool { return !strings.ContainsAny(u.Username, " \t/") },
			Error: validator.ValidationError{Field: "username", Message: "must not contain spaces or slashes"},
		},
		validator.Optional(deref(u.Email), validator.Email("email", deref(u.Email))),
		validator.MaxLen("first_name", u.FirstName, maxNameLength),
		validator.MaxLen("last_name", u.LastName, maxNameLength),
		validator.OneOf("gender", u.Gender, GenderMale, GenderFemale, GenderOther, GenderUnknown),
	}
	if u.BirthDate != nil {
		rules = append(rules, validator.PastDate("birth_date", *u.BirthDate))
	}
	return validator.Apply(rules...)
}

// IsShopAdminUser reports whether the user administers its shop.
func (u *User) IsShopAdminUser() bool {
	return u.IsShopAdmin || u.IsMasterShopAdmin
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) error {
	if u.PasswordHash == "" {
		return ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
