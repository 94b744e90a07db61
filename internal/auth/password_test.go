package auth

import (
	"strings"
	"testing"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordServiceForTest(4)

	hash, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "secret1" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := svc.Verify(hash, "secret1"); err != nil {
		t.Errorf("Verify() with correct password: error = %v", err)
	}
	if err := svc.Verify(hash, "wrong"); err == nil {
		t.Error("Verify() accepted the wrong password")
	}
}

func TestPasswordService_Hash_TooLong(t *testing.T) {
	svc := NewPasswordServiceForTest(4)

	if _, err := svc.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("Hash() accepted a password over 72 bytes")
	}

	// Exactly 72 bytes is still fine.
	if _, err := svc.Hash(strings.Repeat("x", 72)); err != nil {
		t.Errorf("Hash() rejected a 72-byte password: %v", err)
	}
}

func TestPasswordService_Hash_Salted(t *testing.T) {
	svc := NewPasswordServiceForTest(4)

	first, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical; salt missing")
	}
}
