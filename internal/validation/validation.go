// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinTitleLen    = 3
	MaxTitleLen    = 100
	MinContentLen  = 10
	MaxTags        = 10
	MaxTagLen      = 30
	MaxBioLen      = 500
	MinPasswordLen = 6
	MaxPasswordLen = 128
	MinUsernameLen = 3
	MaxUsernameLen = 50
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Fields accumulates per-field validation errors for structured 400 responses.
type Fields map[string]string

// Add records a failure for the named field, keeping the first message per field.
func (f Fields) Add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

// Empty reports whether no field failed.
func (f Fields) Empty() bool { return len(f) == 0 }

// NormalizeEmail lowercases and trims an email address for identity comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLen)
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}
	return nil
}

// ValidateTitle checks post title length bounds.
func ValidateTitle(title string) error {
	if len(title) < MinTitleLen {
		return fmt.Errorf("title must be at least %d characters long", MinTitleLen)
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}
	return nil
}

// ValidateContent checks post body length.
func ValidateContent(content string) error {
	if len(content) < MinContentLen {
		return fmt.Errorf("content must be at least %d characters long", MinContentLen)
	}
	return nil
}

// ValidateBio checks profile bio length.
func ValidateBio(bio string) error {
	if len(bio) > MaxBioLen {
		return fmt.Errorf("bio must not exceed %d characters", MaxBioLen)
	}
	return nil
}

// NormalizeTags trims every tag, drops empty entries, and truncates the list
// to MaxTags. Input `"a, ,b ,"` split on commas normalizes to ["a","b"].
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// ValidateTags checks individual tag lengths after normalization.
func ValidateTags(tags []string) error {
	for _, t := range tags {
		if len(t) > MaxTagLen {
			return fmt.Errorf("tag %q exceeds %d characters", t, MaxTagLen)
		}
	}
	return nil
}

// UsernameFromEmail derives a default username from the email local-part.
func UsernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	if len(local) < MinUsernameLen {
		local = local + strings.Repeat("_", MinUsernameLen-len(local))
	}
	if len(local) > MaxUsernameLen {
		local = local[:MaxUsernameLen]
	}
	return local
}
