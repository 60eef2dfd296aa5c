package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const saltBytes = 16

// GenerateSalt returns 16 random bytes, hex encoded.
func GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GeneratePassword returns a random URL-safe password.
func GeneratePassword() (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// saltedDigest is hex(sha256(password || salt)). Kept below bcrypt's 72 byte input limit.
func saltedDigest(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

func HashPassword(password, salt string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(saltedDigest(password, salt)), bcrypt.DefaultCost)
	return string(bytes), err
}

// IsLegacyHash reports whether hash is a bare salted sha256 digest.
func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func CheckPassword(hashedPassword, password, salt string) bool {
	digest := saltedDigest(password, salt)
	if IsLegacyHash(hashedPassword) {
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(hashedPassword)), []byte(digest)) == 1
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(digest))
	return err == nil
}

func ValidatePassword(password string) error {
	var (
		hasMinLength = false
		hasLetter    = false
		hasNumber    = false
	)

	if len(password) >= 8 {
		hasMinLength = true
	}

	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasMinLength || !hasLetter || !hasNumber {
		return errors.New("password must be at least 8 characters and contain a letter and a number")
	}

	return nil
}
