// Package validation holds input rules shared by services and handlers.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

const (
	maxDisplayNameLength = 50
	maxBioLength         = 280
)

// ValidateUsername checks length and allowed characters.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters of letters, numbers, or underscores")
	}
	return nil
}

// ValidateEmail accepts a bare address such as "sam@example.com".
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, ".") {
		return fmt.Errorf("email must be a valid address")
	}
	return nil
}

func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("display name is required")
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLength {
		return fmt.Errorf("display name must be at most %d characters", maxDisplayNameLength)
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > maxBioLength {
		return fmt.Errorf("bio must be at most %d characters", maxBioLength)
	}
	return nil
}
