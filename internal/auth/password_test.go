package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// newTestPasswordService uses the minimum bcrypt cost so the suite doesn't
// spend ~250ms per hash.
func newTestPasswordService(t *testing.T) *PasswordService {
	t.Helper()
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

func TestHash_ProducesVerifiableDigest(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "secret1" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "secret1"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, _ := ps.Hash("secret1")

	if err := ps.Verify(hash, "secret2"); err == nil {
		t.Error("Verify() should fail for a wrong password")
	}
}

// Two hashes of the same password differ because bcrypt salts each one.
func TestHash_SaltedPerCall(t *testing.T) {
	ps := newTestPasswordService(t)

	h1, _ := ps.Hash("same-password")
	h2, _ := ps.Hash("same-password")

	if h1 == h2 {
		t.Error("two hashes of the same password are identical — salt missing?")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	// bcrypt silently truncates beyond 72 bytes; we reject instead.
	_, err := ps.Hash(strings.Repeat("a", 73))
	if err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService(t)

	if err := ps.Verify("not-a-bcrypt-hash", "anything"); err == nil {
		t.Error("Verify() should fail for a malformed stored hash")
	}
}
