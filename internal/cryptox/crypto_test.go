package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	k1 := DeriveKey(password, []byte("salt-1"))
	k2 := DeriveKey(password, []byte("salt-2"))

	assert.NotEqual(t, k1, k2)
	assert.Len(t, k1, 32)
}

func TestMakeVerifier(t *testing.T) {
	key := []byte("key")
	v := MakeVerifier(key)

	assert.Len(t, v, 32)
	assert.Equal(t, v, MakeVerifier(key))
	assert.NotEqual(t, v, MakeVerifier([]byte("other")))
}

func TestCheckPassword(t *testing.T) {
	salt := []byte("salt")
	verifier := MakeVerifier(DeriveKey([]byte("pw"), salt))

	assert.True(t, CheckPassword([]byte("pw"), salt, verifier))
	assert.False(t, CheckPassword([]byte("pw2"), salt, verifier))
	assert.False(t, CheckPassword([]byte("pw"), []byte("other"), verifier))
}

func TestSignAndVerify(t *testing.T) {
	secret := []byte("secret")
	sig := Sign(secret, "sp=r&se=2030-01-01T00:00:00Z")

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, Sign(secret, "sp=r&se=2030-01-01T00:00:00Z"))
	assert.True(t, VerifySignature(secret, "sp=r&se=2030-01-01T00:00:00Z", sig))
	assert.False(t, VerifySignature(secret, "sp=w&se=2030-01-01T00:00:00Z", sig))
	assert.False(t, VerifySignature([]byte("other"), "sp=r&se=2030-01-01T00:00:00Z", sig))
	assert.False(t, VerifySignature(secret, "sp=r", "zz-not-hex"))
}
