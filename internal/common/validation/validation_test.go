package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "ops@example.com", false},
		{"valid with plus", "ops+alerts@example.com", false},
		{"valid subdomain", "a.b@mail.example.co", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing at", "ops.example.com", true},
		{"missing tld", "ops@example", true},
		{"too long", strings.Repeat("a", MaxEmailLength) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"minimum length", "12345678", false},
		{"typical", "correct-horse-battery", false},
		{"maximum length", strings.Repeat("x", MaxPasswordLength), false},
		{"too short", "1234567", true},
		{"too long for bcrypt", strings.Repeat("x", MaxPasswordLength+1), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{"admin", "operator", "user"} {
		assert.NoError(t, ValidateRole(role), role)
	}
	for _, role := range []string{"", "root", "Admin", "superuser"} {
		assert.Error(t, ValidateRole(role), role)
	}
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []string{"active", "inactive", "banned"} {
		assert.NoError(t, ValidateStatus(status), status)
	}
	for _, status := range []string{"", "deleted", "Active"} {
		assert.Error(t, ValidateStatus(status), status)
	}
}

func TestValidateTelegramUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"empty is optional", "", false},
		{"valid", "stream_ops", false},
		{"minimum length", "abcde", false},
		{"too short", "abcd", true},
		{"too long", strings.Repeat("a", 33), true},
		{"invalid characters", "ops-team", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTelegramUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTrackURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://cdn.example.com/video.mp4", false},
		{"http", "http://cdn.example.com/video.mp4", false},
		{"with query", "https://cdn.example.com/v?id=42&sig=abc", false},
		{"surrounding whitespace", "  https://cdn.example.com/video.mp4  ", false},
		{"empty", "", true},
		{"relative path", "/videos/video.mp4", true},
		{"no host", "https://", true},
		{"file scheme", "file:///etc/passwd", true},
		{"rtmp scheme", "rtmp://live.example.com/app", true},
		{"plain text", "not a url", true},
		{"too long", "https://cdn.example.com/" + strings.Repeat("a", MaxTrackURLLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrackURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidTrackLine(t *testing.T) {
	assert.True(t, IsValidTrackLine("https://cdn.example.com/a.mp4"))
	assert.False(t, IsValidTrackLine(""))
	assert.False(t, IsValidTrackLine("   "))
	assert.False(t, IsValidTrackLine("# a comment"))
	assert.False(t, IsValidTrackLine("ftp://cdn.example.com/a.mp4"))
}
