package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Stored hash prefixes.
const (
	schemeBcrypt = "bcrypt$"
	schemePBKDF2 = "pbkdf2$"
)

// PBKDF2 parameters for new hashes.
const (
	PBKDF2Iterations = 200_000
	pbkdf2SaltLen    = 16
	pbkdf2KeyLen     = sha256.Size
)

// HashPassword hashes pw with bcrypt at the default cost.
// The result looks like "bcrypt$$2a$10$...".
func HashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordLength
		}
		return "", errors.Join(ErrHashFailed, err)
	}
	return schemeBcrypt + string(h), nil
}

// HashPasswordPBKDF2 hashes pw with PBKDF2-HMAC-SHA256.
// The result is "pbkdf2$<iterations>$<salt hex>$<hash hex>".
func HashPasswordPBKDF2(pw string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}
	dk := pbkdf2.Key([]byte(pw), salt, PBKDF2Iterations, pbkdf2KeyLen, sha256.New)
	return schemePBKDF2 + strconv.Itoa(PBKDF2Iterations) + "$" +
		hex.EncodeToString(salt) + "$" + hex.EncodeToString(dk), nil
}

// CheckPassword reports whether pw matches a hash produced by HashPassword
// or HashPasswordPBKDF2. Unknown or malformed hashes never match.
func CheckPassword(pw, stored string) bool {
	switch {
	case strings.HasPrefix(stored, schemeBcrypt):
		return bcrypt.CompareHashAndPassword([]byte(stored[len(schemeBcrypt):]), []byte(pw)) == nil
	case strings.HasPrefix(stored, schemePBKDF2):
		return checkPBKDF2(pw, stored[len(schemePBKDF2):])
	}
	return false
}

func checkPBKDF2(pw, encoded string) bool {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false
	}
	iters, err := strconv.Atoi(parts[0])
	if err != nil || iters <= 0 {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(pw), salt, iters, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
