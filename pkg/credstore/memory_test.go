package credstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCreateAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, Credential{
		EncryptedKey:    []byte{1},
		EncryptedSecret: []byte{2},
		Region:          "ap-south-1",
		Fingerprint:     "fp-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("id not assigned")
	}

	byID, err := s.FindByID(ctx, created.ID)
	if err != nil || byID.Fingerprint != "fp-1" {
		t.Fatalf("FindByID: %v %+v", err, byID)
	}
	byFP, err := s.FindByFingerprint(ctx, "fp-1")
	if err != nil || byFP.ID != created.ID {
		t.Fatalf("FindByFingerprint: %v %+v", err, byFP)
	}
}

func TestMemoryStoreDuplicateFingerprint(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first, err := s.Create(ctx, Credential{Fingerprint: "fp-1", Region: "ap-south-1"})
	if err != nil {
		t.Fatal(err)
	}
	dup, err := s.Create(ctx, Credential{Fingerprint: "fp-1", Region: "us-east-1"})
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID != first.ID {
		t.Fatal("duplicate fingerprint created a second record")
	}
	if dup.Region != "ap-south-1" {
		t.Fatalf("duplicate insert mutated the record: %s", dup.Region)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := s.FindByFingerprint(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
