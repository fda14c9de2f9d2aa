package ceremony

import (
	"context"
	"testing"

	"github.com/asv/mpc/secrets"
)

func TestStage3TransformVerifiesForHonestPlayer(t *testing.T) {
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

	st3a, err := NewStage3FromStage1(cs, s1)
	if err != nil {
		t.Fatalf("NewStage3FromStage1: %v", err)
	}

	sec, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New: %v", err)
	}
	pubkey := sec.SPairs([]byte("stage3-session"))

	st3b, err := st3a.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Stage3.Transform: %v", err)
	}

	if err := st3a.VerifyTransform(st3b, pubkey); err != nil {
		t.Fatalf("VerifyTransform rejected an honest Stage3 transform: %v", err)
	}
}

func TestStage3TransformRejectsTamperedEntry(t *testing.T) {
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
	st3a, err := NewStage3FromStage1(cs, s1)
	if err != nil {
		t.Fatalf("NewStage3FromStage1: %v", err)
	}

	sec, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New: %v", err)
	}
	pubkey := sec.SPairs([]byte("stage3-session"))

	st3b, err := st3a.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Stage3.Transform: %v", err)
	}
	st3b.H[0] = st3b.H[1]

	if err := st3a.VerifyTransform(st3b, pubkey); err == nil {
		t.Fatalf("expected VerifyTransform to reject a tampered H entry")
	}
}
