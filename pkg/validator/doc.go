// Package validator provides small composable validation rules.
//
//	err := validator.Apply(
//	    validator.Required("email", email),
//	    validator.ValidEmail("email", email),
//	    validator.MaxLen("name", name, 255),
//	)
//	if validator.IsValidationError(err) {
//	    // reject the input
//	}
package validator
