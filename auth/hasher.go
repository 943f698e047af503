package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
)

// DigestFunc turns a byte string into a fixed-length hex digest. The digest is
// a pure function of its input; a non-nil error or malformed output must never
// be papered over with an empty hash.
type DigestFunc func(src []byte) (string, error)

// SHA512Hex is the default DigestFunc: an in-process SHA-512 hex digest.
func SHA512Hex(src []byte) (string, error) {
	sum := sha512.Sum512(src)
	return hex.EncodeToString(sum[:]), nil
}

var errMalformedDigest = errors.New("malformed digest output")

// Hasher derives password hashes with a deterministic salted digest chain:
//
//	salt(name)          = H(name)
//	passhash(name, pw)  = H(pw + ":" + salt(name))
//
// The account name doubles as the salt source; the uniqueness constraint on
// account names is what keeps salts from colliding.
type Hasher struct {
	digest DigestFunc
}

// NewHasher builds a Hasher around the given digest, defaulting to SHA512Hex.
func NewHasher(digest DigestFunc) *Hasher {
	if digest == nil {
		digest = SHA512Hex
	}
	return &Hasher{digest: digest}
}

// Salt returns the salt derived from the account name.
func (h *Hasher) Salt(accountName string) (string, error) {
	out, err := h.digest([]byte(accountName))
	if err != nil {
		return "", fmt.Errorf("auth: salt digest: %w", err)
	}
	if out == "" {
		return "", fmt.Errorf("auth: salt digest: %w", errMalformedDigest)
	}
	return out, nil
}

// Passhash derives the stored hash for an account name / password pair.
func (h *Hasher) Passhash(accountName, password string) (string, error) {
	salt, err := h.Salt(accountName)
	if err != nil {
		return "", err
	}
	out, err := h.digest([]byte(password + ":" + salt))
	if err != nil {
		return "", fmt.Errorf("auth: passhash digest: %w", err)
	}
	if out == "" {
		return "", fmt.Errorf("auth: passhash digest: %w", errMalformedDigest)
	}
	return out, nil
}

// Verify rederives the hash for the supplied password and compares it with the
// stored one in constant time.
func (h *Hasher) Verify(storedHash, accountName, password string) (bool, error) {
	derived, err := h.Passhash(accountName, password)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(derived)) == 1, nil
}
