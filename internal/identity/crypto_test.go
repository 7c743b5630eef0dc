package identity

import (
	"errors"
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("AKIAEXAMPLE", "secret")
	b := Fingerprint("AKIAEXAMPLE", "secret")
	if a != b {
		t.Fatalf("same inputs produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}

func TestFingerprintDistinguishesPairs(t *testing.T) {
	base := Fingerprint("AKIAEXAMPLE", "secret")
	if Fingerprint("AKIAEXAMPLE", "other") == base {
		t.Fatal("different secrets collided")
	}
	if Fingerprint("AKIAOTHER", "secret") == base {
		t.Fatal("different keys collided")
	}
	// The pair boundary matters: ("ab","c") and ("a","bc") join differently.
	if Fingerprint("ab", "c") == Fingerprint("a", "bc") {
		t.Fatal("pair boundary not preserved")
	}
}

func TestSealRoundTrip(t *testing.T) {
	s := NewSealer("process-wide-secret")
	for _, plain := range []string{"", "AKIAEXAMPLE", "s3cr3t/with+symbols=="} {
		blob, err := s.Encrypt(plain)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plain, err)
		}
		got, err := s.Decrypt(blob)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plain, err)
		}
		if got != plain {
			t.Fatalf("round trip mismatch: got %q want %q", got, plain)
		}
	}
}

func TestSealNonDeterministicCiphertext(t *testing.T) {
	s := NewSealer("process-wide-secret")
	a, _ := s.Encrypt("AKIAEXAMPLE")
	b, _ := s.Encrypt("AKIAEXAMPLE")
	if string(a) == string(b) {
		t.Fatal("two encryptions produced identical ciphertext (nonce reuse?)")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	s := NewSealer("process-wide-secret")
	blob, err := s.Encrypt("AKIAEXAMPLE")
	if err != nil {
		t.Fatal(err)
	}
	blob[len(blob)-1] ^= 0xff
	if _, err := s.Decrypt(blob); !errors.Is(err, ErrDecryption) {
		t.Fatalf("tampered ciphertext: got %v, want ErrDecryption", err)
	}
}

func TestDecryptRejectsRotatedKey(t *testing.T) {
	old := NewSealer("old-secret")
	blob, err := old.Encrypt("AKIAEXAMPLE")
	if err != nil {
		t.Fatal(err)
	}
	rotated := NewSealer("new-secret")
	if _, err := rotated.Decrypt(blob); !errors.Is(err, ErrDecryption) {
		t.Fatalf("rotated key: got %v, want ErrDecryption", err)
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	s := NewSealer("process-wide-secret")
	for _, blob := range [][]byte{nil, {0x01}, {0x02, 1, 2, 3}, []byte("not a blob")} {
		if _, err := s.Decrypt(blob); !errors.Is(err, ErrDecryption) {
			t.Fatalf("blob %v: got %v, want ErrDecryption", blob, err)
		}
	}
}
