package secrets

import "testing"

func TestCommitmentVerifyAccepts(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pk := s.SPairs([]byte("session"))
	c := Commit(pk)
	if err := c.Verify(pk); err != nil {
		t.Fatalf("expected commitment to verify, got %v", err)
	}
}

func TestCommitmentVerifyRejectsTamperedKey(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pk := s.SPairs([]byte("session"))
	c := Commit(pk)

	// Flip the sign of spair_tau.XF by adding it to itself, producing a
	// different but still well-formed public key.
	tampered := *pk
	tampered.Tau.XF = tampered.Tau.XF.Neg()

	if err := c.Verify(&tampered); err == nil {
		t.Fatalf("expected Verify to reject a tampered public key")
	}
}
