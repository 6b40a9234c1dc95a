package administration

import "errors"

var (
	ErrShopNotFound     = errors.New("shop not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidJSONField = errors.New("invalid JSON field")
	ErrDuplicate        = errors.New("value already in use")
	ErrForbidden        = errors.New("permission denied")
	ErrStorage          = errors.New("administration storage failure")
)
