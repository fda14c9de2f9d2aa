package secrets

import "testing"

func TestNewSamplesEightNonzeroScalars(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	all := []struct {
		name string
		zero bool
	}{
		{"Tau", s.Tau.IsZero()},
		{"RhoA", s.RhoA.IsZero()},
		{"RhoB", s.RhoB.IsZero()},
		{"AlphaA", s.AlphaA.IsZero()},
		{"AlphaB", s.AlphaB.IsZero()},
		{"AlphaC", s.AlphaC.IsZero()},
		{"Beta", s.Beta.IsZero()},
		{"Gamma", s.Gamma.IsZero()},
	}
	for _, f := range all {
		if f.zero {
			t.Fatalf("%s was sampled as zero", f.name)
		}
	}
}

func TestSPairsDeterministicForSameSession(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sessionID := []byte("session-1")
	pk1 := s.SPairs(sessionID)
	pk2 := s.SPairs(sessionID)
	if pk1.Hash() != pk2.Hash() {
		t.Fatalf("SPairs must be deterministic for a fixed session id")
	}
}

func TestSPairsDifferForDifferentSessions(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pk1 := s.SPairs([]byte("session-1"))
	pk2 := s.SPairs([]byte("session-2"))
	if pk1.Hash() == pk2.Hash() {
		t.Fatalf("expected different sessions to produce different nonces")
	}
}

func TestPublicKeyValidateRejectsIdentity(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pk := s.SPairs([]byte("session"))
	if err := pk.Validate(); err != nil {
		t.Fatalf("expected a freshly derived public key to validate, got %v", err)
	}

	pk.Tau.F = pk.Tau.F.Add(pk.Tau.F.Neg()) // force identity
	if err := pk.Validate(); err == nil {
		t.Fatalf("expected Validate to reject an identity element")
	}
}
