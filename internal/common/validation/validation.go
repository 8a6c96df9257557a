package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// Field length limits
	MaxEmailLength    = 254
	MaxFullNameLength = 128
	MaxTrackURLLength = 2048
	MaxStatusLength   = 20
	MaxRoleLength     = 20

	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// Roles understood by the dashboard routing.
var validRoles = map[string]bool{
	"admin":    true,
	"operator": true,
	"user":     true,
}

// Account statuses.
var validStatuses = map[string]bool{
	"active":   true,
	"inactive": true,
	"banned":   true,
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Telegram username: letters, digits, underscores, 5-32 characters.
var telegramUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

// ValidateEmail checks an account email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password cannot exceed %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateFullName checks a display name.
func ValidateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("full name cannot be empty")
	}
	if len(name) > MaxFullNameLength {
		return fmt.Errorf("full name cannot exceed %d characters", MaxFullNameLength)
	}
	return nil
}

// ValidateRole checks a role value.
func ValidateRole(role string) error {
	if !validRoles[role] {
		return fmt.Errorf("invalid role: %s", role)
	}
	return nil
}

// ValidateStatus checks an account status value.
func ValidateStatus(status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("invalid status: %s", status)
	}
	return nil
}

// ValidateTelegramUsername checks a Telegram username.
func ValidateTelegramUsername(username string) error {
	if username == "" {
		return nil // optional field
	}
	if !telegramUsernameRegex.MatchString(username) {
		return fmt.Errorf("invalid telegram username format")
	}
	return nil
}

// ValidateTrackURL checks a playlist entry. Only absolute http(s) URLs are
// accepted; anything else would break the streamer's downloader.
func ValidateTrackURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("track URL cannot be empty")
	}
	if len(raw) > MaxTrackURLLength {
		return fmt.Errorf("track URL cannot exceed %d characters", MaxTrackURLLength)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid track URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("track URL must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("track URL must be absolute")
	}
	return nil
}

// IsValidTrackLine reports whether a raw playlist file line is usable.
// Blank lines and comment lines are not tracks but are not corruption either.
func IsValidTrackLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	return ValidateTrackURL(line) == nil
}
