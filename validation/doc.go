// Package validation checks request structs against `validate` struct tags
// and classifies login identifiers.
//
// Failures are reported as PRECONDITION_FAILED application errors whose
// details carry one entry per offending field, named after its json tag.
//
//	type SignupRequest struct {
//	    Name  string `json:"name" validate:"required,identname"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//	err := validation.Validate(req)
package validation
