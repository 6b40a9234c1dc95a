package validator_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("no errors", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("title", "Acme"),
			validator.MaxLen("title", "Acme", 64),
		)
		assert.NoError(t, err)
	})

	t.Run("collects all failures", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("title", "  "),
			validator.MaxLen("zipcode", "12345678901", 10),
			validator.Email("email", "nope"),
		)
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 3)
		assert.True(t, errs.Has("title"))
		assert.True(t, errs.Has("zipcode"))
		assert.False(t, errs.Has("city"))
		assert.Equal(t, []string{"field is required"}, errs.Fields()["title"])
		assert.Contains(t, err.Error(), "zipcode: must be at most 10 characters long")
	})

	t.Run("wrapped errors are extracted", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("save shop: %w", validator.Apply(validator.Required("title", "")))
		assert.True(t, validator.IsValidationError(err))
		assert.Len(t, validator.ExtractValidationErrors(err), 1)
		assert.Nil(t, validator.ExtractValidationErrors(nil))
	})
}

func TestRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule validator.Rule
		ok   bool
	}{
		{"max len counts runes", validator.MaxLen("f", "ééé", 3), true},
		{"max len exceeded", validator.MaxLen("f", "abcd", 3), false},
		{"email ok", validator.Email("f", "owner@shop.com"), true},
		{"email display name", validator.Email("f", "Owner <owner@shop.com>"), false},
		{"email no dot", validator.Email("f", "owner@localhost"), false},
		{"email empty label", validator.Email("f", "owner@shop..com"), false},
		{"phone ok", validator.Phone("f", "+1 555-123-4567"), true},
		{"phone short", validator.Phone("f", "12345"), false},
		{"phone letters", validator.Phone("f", "+1 555 CALL"), false},
		{"one of", validator.OneOf("gender", "m", "m", "f", "o", "u"), true},
		{"not one of", validator.OneOf("gender", "x", "m", "f", "o", "u"), false},
		{"between", validator.Between("lat", 45.5, -90, 90), true},
		{"out of range", validator.Between("lat", 91, -90, 90), false},
		{"past date", validator.PastDate("birth_date", time.Now().AddDate(-20, 0, 0)), true},
		{"future date", validator.PastDate("birth_date", time.Now().AddDate(1, 0, 0)), false},
		{"optional empty", validator.Optional("", validator.Email("f", "")), true},
		{"optional set", validator.Optional("bad", validator.Email("f", "bad")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.ok, tt.rule.Check())
		})
	}
}
