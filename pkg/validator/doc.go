// Package validator checks user input with small composable rules.
//
//	err := validator.Apply(
//		validator.Required("title", s.Title),
//		validator.MaxLen("title", s.Title, 64),
//		validator.Optional(s.Email, validator.Email("email", s.Email)),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		// errs.Fields() -> {"title": ["field is required"]}
//	}
//
// Every failing rule is reported, not just the first one.
package validator
