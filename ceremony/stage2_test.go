package ceremony

import (
	"context"
	"testing"

	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/secrets"
)

func smallCS(t *testing.T) *qap.CS {
	t.Helper()
	cs, err := qap.Synthetic{D: 4, NumVars: 3, NumInputs: 1}.Load()
	if err != nil {
		t.Fatalf("Synthetic.Load: %v", err)
	}
	return cs
}

func TestStage2TransformVerifiesForHonestPlayer(t *testing.T) {
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

	sec, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New: %v", err)
	}
	pubkey := sec.SPairs([]byte("stage2-session"))

	st2b, err := st2a.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Stage2.Transform: %v", err)
	}

	if err := st2a.VerifyTransform(st2b, pubkey); err != nil {
		t.Fatalf("VerifyTransform rejected an honest Stage2 transform: %v", err)
	}
}

func TestStage2TransformRejectsTamperedEntry(t *testing.T) {
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

	sec, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New: %v", err)
	}
	pubkey := sec.SPairs([]byte("stage2-session"))

	st2b, err := st2a.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Stage2.Transform: %v", err)
	}
	st2b.A[0] = st2b.A[1]

	if err := st2a.VerifyTransform(st2b, pubkey); err == nil {
		t.Fatalf("expected VerifyTransform to reject a tampered A entry")
	}
}
