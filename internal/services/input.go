package services

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/you/shopauth/domain"
)

var validate = validator.New()

var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	phonePattern    = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
)

// NormalizeEmail trims and lowercases an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address has a usable shape
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// ValidPhone accepts international numbers with common separators
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(phone))
}

func validateRegistration(reg domain.Registration) error {
	if reg.Email == "" || reg.Password == "" || reg.FirstName == "" || reg.LastName == "" {
		return domain.ErrMissingFields
	}
	if !ValidEmail(reg.Email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

func trimRegistration(reg domain.Registration) domain.Registration {
	return domain.Registration{
		Email:     NormalizeEmail(reg.Email),
		Password:  reg.Password,
		FirstName: strings.TrimSpace(reg.FirstName),
		LastName:  strings.TrimSpace(reg.LastName),
		Phone:     strings.TrimSpace(reg.Phone),
	}
}
