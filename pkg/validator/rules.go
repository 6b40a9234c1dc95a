package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)

func fail(field, msg string) ValidationError {
	return ValidationError{Field: field, Message: msg}
}

// Required fails on blank strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: fail(field, "field is required"),
	}
}

// MaxLen limits the length in characters, matching varchar(n).
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: fail(field, fmt.Sprintf("must be at most %d characters long", max)),
	}
}

// Email accepts a bare address with a dotted domain.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			local, domain, ok := strings.Cut(value, "@")
			if !ok || local == "" {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return strings.Contains(domain, ".")
		},
		Error: fail(field, "must be a valid email address"),
	}
}

// Phone accepts E.164-like numbers; spaces and dashes are ignored.
func Phone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			cleaned := strings.NewReplacer(" ", "", "-", "").Replace(value)
			return phoneRegex.MatchString(cleaned)
		},
		Error: fail(field, "must be a valid phone number in international format"),
	}
}

// OneOf fails when value is not in allowed.
func OneOf[T comparable](field string, value T, allowed ...T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: fail(field, fmt.Sprintf("must be one of: %v", allowed)),
	}
}

// Between checks an inclusive numeric range.
func Between(field string, value, min, max float64) Rule {
	return Rule{
		Check: func() bool { return value >= min && value <= max },
		Error: fail(field, fmt.Sprintf("must be between %v and %v", min, max)),
	}
}

// PastDate fails for dates after now.
func PastDate(field string, value time.Time) Rule {
	return Rule{
		Check: func() bool { return !value.After(time.Now()) },
		Error: fail(field, "must be in the past"),
	}
}
