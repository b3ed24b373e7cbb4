package application

import (
	"errors"
	"strings"
	"testing"
)

func TestCreatePasswordHashRoundTrip(t *testing.T) {
	hash, err := CreatePasswordHash("correct horse battery staple", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Fatalf("unexpected hash encoding: %q", hash)
	}

	if err := VerifyPassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("expected password to verify, got %v", err)
	}
	if err := VerifyPassword(hash, "incorrect horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreatePasswordHashSaltsEachCall(t *testing.T) {
	first, err := CreatePasswordHash("same input", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := CreatePasswordHash("same input", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	testCases := []struct {
		name string
		hash string
		want error
	}{
		{name: "empty string", hash: "", want: ErrInvalidPasswordHash},
		{name: "wrong algorithm", hash: "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA", want: ErrInvalidPasswordHash},
		{name: "missing sections", hash: "$argon2id$v=19$m=65536,t=3,p=2", want: ErrInvalidPasswordHash},
		{name: "future version", hash: "$argon2id$v=99$m=65536,t=3,p=2$c2FsdA$aGFzaA", want: ErrIncompatiblePasswordVersion},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := VerifyPassword(tc.hash, "whatever"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
