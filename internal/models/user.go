package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MaxUsernameLength bounds usernames; longer names are rejected outright.
	MaxUsernameLength = 64
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 4
)

// User is a registered account. The password is never stored; only the
// bcrypt hash of the salted password and the per-user salt are kept.
type User struct {
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"hashed_password"`
	Salt         string    `json:"salt"`
	RegisteredAt time.Time `json:"registration_date"`
}

// ValidateUsername trims the name and enforces the non-empty and length bounds.
func ValidateUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return "", &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(name) > MaxUsernameLength {
		return "", &ValidationError{Field: "username", Reason: "too long"}
	}
	return name, nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", &ValidationError{Field: "password", Reason: "must be at least 4 characters"}
	}
	return password, nil
}

// generateSalt returns a fresh per-user random salt.
func generateSalt() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewUser validates the credentials and creates a user with a fresh salt and
// password hash. The caller assigns the sequential user id.
func NewUser(userID int, username, password string, registeredAt time.Time) (*User, error) {
	name, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	pwd, err := ValidatePassword(password)
	if err != nil {
		return nil, err
	}
	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd+salt), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		UserID:       userID,
		Username:     name,
		PasswordHash: string(hash),
		Salt:         salt,
		RegisteredAt: registeredAt,
	}, nil
}

// VerifyPassword reports whether the candidate password matches the stored
// salt+hash pair.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password+u.Salt)) == nil
}

// ChangePassword validates the new password and replaces the stored hash,
// keeping the user's salt.
func (u *User) ChangePassword(newPassword string) error {
	pwd, err := ValidatePassword(newPassword)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd+u.Salt), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// UserInfo is the secret-free view of a user.
type UserInfo struct {
	UserID       int       `json:"user_id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registration_date"`
}

// Info returns the user's public information, without password material.
func (u *User) Info() UserInfo {
	return UserInfo{UserID: u.UserID, Username: u.Username, RegisteredAt: u.RegisteredAt}
}
