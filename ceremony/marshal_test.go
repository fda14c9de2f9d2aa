package ceremony

import (
	"context"
	"testing"

	"github.com/asv/mpc/secrets"
)

func TestStage1MarshalRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := smallCS(t)

	s0 := NewStage1(cs.D)
	sec, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New: %v", err)
	}
	s1, err := s0.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	enc, err := s1.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	dec, err := UnmarshalStage1(enc, cs.D)
	if err != nil {
		t.Fatalf("UnmarshalStage1: %v", err)
	}
	if err := s0.VerifyTransform(dec, sec.SPairs([]byte("marshal-session"))); err != nil {
		t.Fatalf("round-tripped Stage1 failed VerifyTransform: %v", err)
	}
}

func TestStage2MarshalRoundTrip(t *testing.T) {
	ctx := context.Background()
	cs := smallCS(t)

	s0 := NewStage1(cs.D)
	founder, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New: %v", err)
	}
	s1, err := s0.Transform(ctx, founder)
	if err != nil {
		t.Fatalf("Stage1.Transform: %v", err)
	}
	st2a, err := NewStage2FromStage1(ctx, cs, s1)
	if err != nil {
		t.Fatalf("NewStage2FromStage1: %v", err)
	}

	enc, err := st2a.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	dec, err := UnmarshalStage2(enc, cs.NumVars)
	if err != nil {
		t.Fatalf("UnmarshalStage2: %v", err)
	}
	if len(dec.A) != len(st2a.A) {
		t.Fatalf("round-tripped Stage2 has wrong length")
	}
}

func TestStage3MarshalRoundTrip(t *testing.T) {
	cs := smallCS(t)

	s0 := NewStage1(cs.D)
	st3a, err := NewStage3FromStage1(cs, s0)
	if err != nil {
		t.Fatalf("NewStage3FromStage1: %v", err)
	}

	enc, err := st3a.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	dec, err := UnmarshalStage3(enc, cs.D)
	if err != nil {
		t.Fatalf("UnmarshalStage3: %v", err)
	}
	if len(dec.H) != len(st3a.H) {
		t.Fatalf("round-tripped Stage3 has wrong length")
	}
}
