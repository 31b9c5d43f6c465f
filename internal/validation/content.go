package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxPostLength         = 2000
	maxVibeMessageLength  = 280
	maxReactionTypeLength = 32
)

// ValidatePostContent requires non-blank text within the length limit.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > maxPostLength {
		return fmt.Errorf("content must be at most %d characters", maxPostLength)
	}
	return nil
}

// ValidateImageURL accepts an empty value or an absolute http(s) URL.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image_url must be an absolute http(s) URL")
	}
	return nil
}

func ValidateVibeMessage(msg string) error {
	if utf8.RuneCountInString(msg) > maxVibeMessageLength {
		return fmt.Errorf("message must be at most %d characters", maxVibeMessageLength)
	}
	return nil
}

// ValidateReactionType allows free text up to a short label length.
func ValidateReactionType(t string) error {
	if utf8.RuneCountInString(t) > maxReactionTypeLength {
		return fmt.Errorf("reaction type must be at most %d characters", maxReactionTypeLength)
	}
	return nil
}
