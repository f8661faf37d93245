// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Content limits.
const (
	MaxTitleLength   = 200
	MaxDescLength    = 5000
	MaxContentLength = 2000
	MaxTags          = 20
	MaxEmailLength   = 254
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address and validates it.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	return email, nil
}

// ValidatePostTitle checks a trimmed post title.
func ValidatePostTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLength)
	}
	return nil
}

// ValidatePostDesc checks a trimmed post description. Empty is allowed.
func ValidatePostDesc(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescLength {
		return fmt.Errorf("description must not exceed %d characters", MaxDescLength)
	}
	return nil
}

// ValidateCommentContent checks trimmed comment text.
func ValidateCommentContent(content string) error {
	if content == "" {
		return fmt.Errorf("comment content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("comment content must not exceed %d characters", MaxContentLength)
	}
	return nil
}

// NormalizeTags trims and de-duplicates tagged user IDs, keeping first
// occurrence order. Every tag must be a UUID.
func NormalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return []string{}, nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if _, err := uuid.Parse(tag); err != nil {
			return nil, fmt.Errorf("invalid tag %q", raw)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, fmt.Errorf("a maximum of %d users can be tagged", MaxTags)
	}
	return out, nil
}
