package ceremony

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/asv/mpc/curve"
	"github.com/asv/mpc/secrets"
)

// TestKeypairTwoPlayerAlphaAMatchesProduct implements spec §8's concrete
// scenario 1: after a two-player ceremony, the verifying key's α_a·g2
// element equals g2 scaled by the product of both players' α_a.
func TestKeypairTwoPlayerAlphaAMatchesProduct(t *testing.T) {
	ctx := context.Background()
	cs := smallCS(t)

	s0 := NewStage1(cs.D)

	secA, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New A: %v", err)
	}
	s1a, err := s0.Transform(ctx, secA)
	if err != nil {
		t.Fatalf("Transform A: %v", err)
	}
	if err := s0.VerifyTransform(s1a, secA.SPairs([]byte("p1"))); err != nil {
		t.Fatalf("VerifyTransform A: %v", err)
	}

	secB, err := secrets.New()
	if err != nil {
		t.Fatalf("secrets.New B: %v", err)
	}
	s1b, err := s1a.Transform(ctx, secB)
	if err != nil {
		t.Fatalf("Transform B: %v", err)
	}
	if err := s1a.VerifyTransform(s1b, secB.SPairs([]byte("p2"))); err != nil {
		t.Fatalf("VerifyTransform B: %v", err)
	}

	st2a, err := NewStage2FromStage1(ctx, cs, s1b)
	if err != nil {
		t.Fatalf("NewStage2FromStage1: %v", err)
	}
	st2b, err := st2a.Transform(ctx, secA)
	if err != nil {
		t.Fatalf("Stage2.Transform A: %v", err)
	}
	st2c, err := st2b.Transform(ctx, secB)
	if err != nil {
		t.Fatalf("Stage2.Transform B: %v", err)
	}

	st3a, err := NewStage3FromStage1(cs, s1b)
	if err != nil {
		t.Fatalf("NewStage3FromStage1: %v", err)
	}
	st3b, err := st3a.Transform(ctx, secA)
	if err != nil {
		t.Fatalf("Stage3.Transform A: %v", err)
	}
	st3c, err := st3b.Transform(ctx, secB)
	if err != nil {
		t.Fatalf("Stage3.Transform B: %v", err)
	}

	kp, err := Assemble(cs, s1b, st2c, st3c)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	_, g2 := curve.Generators()
	wantAlphaA := secA.AlphaA.Mul(secB.AlphaA)
	want := g2.ScalarMul(wantAlphaA)

	if !kp.Verifying.AlphaAG2.Equal(want) {
		t.Fatalf("VK.AlphaAG2 does not equal g2 scaled by the product of both players' alpha_a")
	}
}

func TestPersistRoundTrip(t *testing.T) {
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
	st2a, err := NewStage2FromStage1(ctx, cs, s1)
	if err != nil {
		t.Fatalf("NewStage2FromStage1: %v", err)
	}
	st2b, err := st2a.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Stage2.Transform: %v", err)
	}
	st3a, err := NewStage3FromStage1(cs, s1)
	if err != nil {
		t.Fatalf("NewStage3FromStage1: %v", err)
	}
	st3b, err := st3a.Transform(ctx, sec)
	if err != nil {
		t.Fatalf("Stage3.Transform: %v", err)
	}

	kp, err := Assemble(cs, s1, st2b, st3b)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	path := t.TempDir() + "/keypair.bin"
	if err := Persist(path, kp); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if len(kp.CanonicalBytes()) == 0 {
		t.Fatalf("CanonicalBytes is empty")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, kp.CanonicalBytes()) {
		t.Fatalf("persisted file does not match CanonicalBytes")
	}
}
