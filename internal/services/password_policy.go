package services

import (
	"regexp"
	"strings"

	"github.com/you/shopauth/domain"
)

// Password policy messages, in the order they are reported
const (
	MsgTooShort  = "must be at least 8 characters"
	MsgUppercase = "must contain at least one uppercase letter"
	MsgLowercase = "must contain at least one lowercase letter"
	MsgDigit     = "must contain at least one digit"
	MsgCommon    = "password is too common"
)

const minPasswordLength = 8

var (
	uppercase   = regexp.MustCompile(`[A-Z]`)
	lowercase   = regexp.MustCompile(`[a-z]`)
	digit       = regexp.MustCompile(`\d`)
	specialChar = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)
)

var commonPasswords = map[string]struct{}{
	"password":    {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty":      {},
	"qwerty123":   {},
	"abc123":      {},
	"password1":   {},
	"password123": {},
	"admin":       {},
	"letmein":     {},
	"welcome":     {},
	"monkey":      {},
	"iloveyou":    {},
	"sunshine":    {},
}

// PasswordPolicyImpl is the single scoring function shared by registration,
// password change and the strength endpoint
type PasswordPolicyImpl struct{}

// NewPasswordPolicy creates the password policy engine
func NewPasswordPolicy() domain.PasswordPolicy {
	return PasswordPolicyImpl{}
}

// ValidateStrength implements domain.PasswordPolicy
func (PasswordPolicyImpl) ValidateStrength(password string) domain.PasswordValidation {
	errs := make([]string, 0, 5)
	score := 0

	length := len([]rune(password))
	if length < minPasswordLength {
		errs = append(errs, MsgTooShort)
	} else {
		score++
		if length >= 12 {
			score++
		}
		if length >= 16 {
			score++
		}
	}

	if uppercase.MatchString(password) {
		score++
	} else {
		errs = append(errs, MsgUppercase)
	}
	if lowercase.MatchString(password) {
		score++
	} else {
		errs = append(errs, MsgLowercase)
	}
	if digit.MatchString(password) {
		score++
	} else {
		errs = append(errs, MsgDigit)
	}
	if specialChar.MatchString(password) {
		score++
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		errs = append(errs, MsgCommon)
		score = 0
	}

	return domain.PasswordValidation{
		Valid:    len(errs) == 0,
		Strength: strengthFor(score),
		Score:    score,
		Errors:   errs,
	}
}

func strengthFor(score int) domain.Strength {
	switch {
	case score <= 3:
		return domain.StrengthWeak
	case score <= 5:
		return domain.StrengthMedium
	default:
		return domain.StrengthStrong
	}
}

// CheckPassword runs the policy and returns a WeakPasswordError on rejection
func CheckPassword(policy domain.PasswordPolicy, password string) error {
	result := policy.ValidateStrength(password)
	if result.Valid {
		return nil
	}
	return &domain.WeakPasswordError{Violations: result.Errors}
}
