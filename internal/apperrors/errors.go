// Package apperrors defines the coded error taxonomy shared by the services
// and the HTTP boundary. Callers distinguish kinds by code, never by message.
package apperrors

import "github.com/samber/oops"

const (
	CodeValidation         = "VALIDATION"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthenticated    = "UNAUTHENTICATED"
)

func Validation(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf(format, args...)
}

func DuplicateEmail() error {
	return oops.Code(CodeDuplicateEmail).Errorf("email already exists")
}

// InvalidCredentials is deliberately identical for unknown email and wrong
// password, so callers cannot enumerate users.
func InvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
}

func NotFound(resource string) error {
	return oops.Code(CodeNotFound).Errorf("%s not found", resource)
}

func Forbidden() error {
	return oops.Code(CodeForbidden).Errorf("you are not allowed to perform this action")
}

func Unauthenticated(reason string) error {
	return oops.Code(CodeUnauthenticated).Errorf("%s", reason)
}

// Code extracts the taxonomy code from err, or "" for uncoded errors.
func Code(err error) string {
	if o, ok := oops.AsOops(err); ok {
		if code, ok := o.Code().(string); ok {
			return code
		}
	}

	return ""
}

func Is(err error, code string) bool {
	return Code(err) == code
}
