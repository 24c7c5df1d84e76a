package service

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
)

const (
	maxNameLen        = 150
	maxEmailLen       = 254
	minUsernameLen    = 3
	maxUsernameLen    = 150
	minPasswordLen    = 8
	maxPasswordLen    = 128
	maxDescriptionLen = 255
	maxTitleLen       = 200
	maxNotesLen       = 2000
)

// normalizeEmail trims and lower-cases an address and checks it is a bare
// addr-spec.
func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", invalidf("email is required")
	}
	if len(s) > maxEmailLen {
		return "", invalidf("email is too long")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", invalidf("email %q is not valid", s)
	}
	return s, nil
}

func requireText(field, s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalidf("%s is required", field)
	}
	return optionalText(field, s, maxLen)
}

func optionalText(field, s string, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxLen {
		return "", invalidf("%s must be at most %d characters", field, maxLen)
	}
	return s, nil
}

// validateUsername allows letters, digits and @.+-_ like most account systems.
func validateUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < minUsernameLen || n > maxUsernameLen {
		return "", invalidf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return "", invalidf("username contains %q", r)
	}
	return s, nil
}

func validatePassword(s string) error {
	n := utf8.RuneCountInString(s)
	if n < minPasswordLen || n > maxPasswordLen {
		return invalidf("password must be %d-%d characters", minPasswordLen, maxPasswordLen)
	}
	return nil
}

func validateContact(c domain.ContactDetails) (domain.ContactDetails, error) {
	var err error
	if c.Phone, err = optionalText("phone", c.Phone, 20); err != nil {
		return c, err
	}
	if c.Address, err = optionalText("address", c.Address, maxDescriptionLen); err != nil {
		return c, err
	}
	if c.City, err = optionalText("city", c.City, 100); err != nil {
		return c, err
	}
	if c.Country, err = optionalText("country", c.Country, 100); err != nil {
		return c, err
	}
	return c, nil
}
