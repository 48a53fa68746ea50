package types

import (
	"fmt"
	"regexp"
	"time"
)

// usernamePattern restricts usernames to identifier characters.
var usernamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// UserAccount is a registered login. It is created once at registration and
// never mutated afterwards.
type UserAccount struct {
	UserID       string    // UUID v7, generated on registration.
	Username     string    // Unique login name.
	PasswordHash string    // Encoded argon2id hash, never the cleartext.
	CreatedAt    time.Time // Registration time.
}

// ValidateUsername checks that name is a legal identifier: a letter or
// underscore followed by up to 63 letters, digits or underscores.
func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	return nil
}
