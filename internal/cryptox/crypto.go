// Package cryptox holds the password and signing primitives used by the
// backend.
package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of freshly generated password salts.
const SaltSize = 32

// DeriveKey stretches password with argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// CheckPassword derives the verifier for password and compares it with the
// stored one in constant time.
func CheckPassword(password, salt, verifier []byte) bool {
	key := DeriveKey(password, salt)
	got := MakeVerifier(key)
	return subtle.ConstantTimeCompare(got, verifier) == 1
}

// Sign returns the hex HMAC-SHA256 of payload.
func Sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether sig is the signature of payload.
func VerifySignature(secret []byte, payload, sig string) bool {
	want, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hmac.Equal(mac.Sum(nil), want)
}
