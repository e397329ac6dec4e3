package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bookhive/api/internal/core/domain"
)

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"letmein1": {}, "trustno1": {}, "superman": {}, "11111111": {}, "00000000": {},
	"passw0rd": {}, "admin123": {}, "changeme": {}, "starwars": {}, "whatever": {},
}

// validatePassword applies the account password policy and returns every
// failing rule, keyed under "password".
func validatePassword(password string, similarTo ...string) error {
	v := domain.NewValidationError()

	if utf8.RuneCountInString(password) < minPasswordLength {
		v.Add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if isNumeric(password) {
		v.Add("password", "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		v.Add("password", "This password is too common.")
	}

	lower := strings.ToLower(password)
	for _, attr := range similarTo {
		attr = strings.ToLower(attr)
		if i := strings.IndexByte(attr, '@'); i > 0 {
			attr = attr[:i]
		}
		if utf8.RuneCountInString(attr) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			v.Add("password", "The password is too similar to your personal information.")
			break
		}
	}

	return v.OrNil()
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// normalizeEmail lower-cases the domain part, leaving the local part intact.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
