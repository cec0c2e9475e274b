package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

const minPasswordLength = 8

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether candidate matches the stored hash.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// ValidatePasswordStrength enforces the minimum-strength policy for every
// entry point that creates a credential: length, mixed case, digit, symbol.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation("password must be at least %d characters", minPasswordLength)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower {
		return apperrors.Validation("password must contain both upper and lower case letters")
	}

	if !hasDigit {
		return apperrors.Validation("password must contain a digit")
	}

	if !hasSymbol {
		return apperrors.Validation("password must contain a symbol")
	}

	return nil
}
