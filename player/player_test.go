package player

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/asv/mpc/ceremony"
	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/secrets"
	"github.com/asv/mpc/wire"
)

func testCS(t *testing.T) *qap.CS {
	t.Helper()
	cs, err := qap.Synthetic{D: 4, NumVars: 3, NumInputs: 1}.Load()
	if err != nil {
		t.Fatalf("Synthetic.Load: %v", err)
	}
	return cs
}

// simulateCoordinator plays the server side of one full round over conn,
// mirroring coordinator.Coordinator.run's single-player path closely
// enough to exercise Client.Run end to end without pulling in the
// coordinator package.
func simulateCoordinator(t *testing.T, conn net.Conn, id wire.PeerID, cs *qap.CS) {
	t.Helper()

	gotID, err := wire.ReadHandshake(conn)
	if err != nil {
		t.Errorf("ReadHandshake: %v", err)
		return
	}
	if gotID != id {
		t.Errorf("handshake peer id mismatch: got %x want %x", gotID, id)
		return
	}

	commitment, err := wire.ReadCommitment(conn)
	if err != nil {
		t.Errorf("ReadCommitment: %v", err)
		return
	}

	stage1 := ceremony.NewStage1(cs.D)
	if err := wire.WriteStage1(conn, stage1); err != nil {
		t.Errorf("WriteStage1: %v", err)
		return
	}
	pubkey, err := wire.ReadPublicKey(conn)
	if err != nil {
		t.Errorf("ReadPublicKey: %v", err)
		return
	}
	newStage1, err := wire.ReadStage1(conn, cs.D)
	if err != nil {
		t.Errorf("ReadStage1: %v", err)
		return
	}
	if err := commitment.Verify(pubkey); err != nil {
		t.Errorf("commitment.Verify: %v", err)
		return
	}
	if err := stage1.VerifyTransform(newStage1, pubkey); err != nil {
		t.Errorf("Stage1.VerifyTransform: %v", err)
		return
	}

	stage2, err := ceremony.NewStage2FromStage1(context.Background(), cs, newStage1)
	if err != nil {
		t.Errorf("NewStage2FromStage1: %v", err)
		return
	}
	if err := wire.WriteStage2(conn, stage2); err != nil {
		t.Errorf("WriteStage2: %v", err)
		return
	}
	newStage2, err := wire.ReadStage2(conn, cs.NumVars)
	if err != nil {
		t.Errorf("ReadStage2: %v", err)
		return
	}
	if err := stage2.VerifyTransform(newStage2, pubkey); err != nil {
		t.Errorf("Stage2.VerifyTransform: %v", err)
		return
	}

	stage3, err := ceremony.NewStage3FromStage1(cs, newStage1)
	if err != nil {
		t.Errorf("NewStage3FromStage1: %v", err)
		return
	}
	if err := wire.WriteStage3(conn, stage3); err != nil {
		t.Errorf("WriteStage3: %v", err)
		return
	}
	newStage3, err := wire.ReadStage3(conn, cs.D)
	if err != nil {
		t.Errorf("ReadStage3: %v", err)
		return
	}
	if err := stage3.VerifyTransform(newStage3, pubkey); err != nil {
		t.Errorf("Stage3.VerifyTransform: %v", err)
	}
}

func TestClientRunCompletesSingleRoundAgainstSimulatedCoordinator(t *testing.T) {
	cs := testCS(t)

	var id wire.PeerID
	copy(id[:], []byte{7, 7, 7, 7, 7, 7, 7, 7})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			t.Errorf("Accept: %v", err)
			return
		}
		defer conn.Close()
		simulateCoordinator(t, conn, id, cs)
	}()

	cfg := DefaultConfig(ln.Addr().String(), id)
	cfg.DialTimeout = 2 * time.Second
	cfg.RoundTimeout = 5 * time.Second

	client, err := New(cfg, cs, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	<-done

	if client.round != roundDone {
		t.Fatalf("client did not reach roundDone, got %v", client.round)
	}
	if client.stage1 == nil || client.stage2 == nil || client.stage3 == nil {
		t.Fatalf("client did not retain all three transformed stages")
	}
}

// simulateCoordinatorStage2Drop plays the server side of handshake,
// commitment, and Stage1 to completion, then closes conn right after
// writing the Stage2 query — before reading the client's response — to
// force the client mid-Stage2. It returns the Stage1 state the real
// coordinator would have retained, so the reconnect handler below can
// pick the protocol back up from the same point.
func simulateCoordinatorStage2Drop(t *testing.T, conn net.Conn, id wire.PeerID, cs *qap.CS) *ceremony.Stage1 {
	t.Helper()

	gotID, err := wire.ReadHandshake(conn)
	if err != nil {
		t.Errorf("ReadHandshake: %v", err)
		return nil
	}
	if gotID != id {
		t.Errorf("handshake peer id mismatch: got %x want %x", gotID, id)
		return nil
	}

	commitment, err := wire.ReadCommitment(conn)
	if err != nil {
		t.Errorf("ReadCommitment: %v", err)
		return nil
	}

	stage1 := ceremony.NewStage1(cs.D)
	if err := wire.WriteStage1(conn, stage1); err != nil {
		t.Errorf("WriteStage1: %v", err)
		return nil
	}
	pubkey, err := wire.ReadPublicKey(conn)
	if err != nil {
		t.Errorf("ReadPublicKey: %v", err)
		return nil
	}
	newStage1, err := wire.ReadStage1(conn, cs.D)
	if err != nil {
		t.Errorf("ReadStage1: %v", err)
		return nil
	}
	if err := commitment.Verify(pubkey); err != nil {
		t.Errorf("commitment.Verify: %v", err)
		return nil
	}
	if err := stage1.VerifyTransform(newStage1, pubkey); err != nil {
		t.Errorf("Stage1.VerifyTransform: %v", err)
		return nil
	}

	stage2, err := ceremony.NewStage2FromStage1(context.Background(), cs, newStage1)
	if err != nil {
		t.Errorf("NewStage2FromStage1: %v", err)
		return nil
	}
	if err := wire.WriteStage2(conn, stage2); err != nil {
		t.Errorf("WriteStage2: %v", err)
		return nil
	}
	// Drop the connection here, simulating a network failure partway
	// through Stage2: the client has the query but never gets to send
	// its transformed response, nor does it hear back from a Stage3
	// query it never reached.
	conn.Close()
	return newStage1
}

// simulateCoordinatorResumeAtStage2 plays the server side of a
// reconnect: it reads the handshake every new connection carries, but no
// commitment or Stage1 frame, since those rounds are gated by c.round and
// the client under test has already advanced past them by the time it
// redials.
func simulateCoordinatorResumeAtStage2(t *testing.T, conn net.Conn, id wire.PeerID, cs *qap.CS, newStage1 *ceremony.Stage1, pubkey *secrets.PublicKey) {
	t.Helper()

	gotID, err := wire.ReadHandshake(conn)
	if err != nil {
		t.Errorf("ReadHandshake: %v", err)
		return
	}
	if gotID != id {
		t.Errorf("handshake peer id mismatch: got %x want %x", gotID, id)
		return
	}

	stage2, err := ceremony.NewStage2FromStage1(context.Background(), cs, newStage1)
	if err != nil {
		t.Errorf("NewStage2FromStage1: %v", err)
		return
	}
	if err := wire.WriteStage2(conn, stage2); err != nil {
		t.Errorf("WriteStage2: %v", err)
		return
	}
	newStage2, err := wire.ReadStage2(conn, cs.NumVars)
	if err != nil {
		t.Errorf("ReadStage2: %v", err)
		return
	}
	if err := stage2.VerifyTransform(newStage2, pubkey); err != nil {
		t.Errorf("Stage2.VerifyTransform: %v", err)
		return
	}

	stage3, err := ceremony.NewStage3FromStage1(cs, newStage1)
	if err != nil {
		t.Errorf("NewStage3FromStage1: %v", err)
		return
	}
	if err := wire.WriteStage3(conn, stage3); err != nil {
		t.Errorf("WriteStage3: %v", err)
		return
	}
	newStage3, err := wire.ReadStage3(conn, cs.D)
	if err != nil {
		t.Errorf("ReadStage3: %v", err)
		return
	}
	if err := stage3.VerifyTransform(newStage3, pubkey); err != nil {
		t.Errorf("Stage3.VerifyTransform: %v", err)
	}
}

// TestClientResumesFromStage2AfterReconnect exercises spec §8's named
// scenario: a player disconnects mid-Stage2 and reconnects, sending a
// fresh handshake and then resuming from Stage2 rather than repeating the
// commitment/Stage1 rounds against the coordinator's peer table.
func TestClientResumesFromStage2AfterReconnect(t *testing.T) {
	cs := testCS(t)
	var id wire.PeerID
	copy(id[:], []byte{9, 9, 9, 9, 9, 9, 9, 9})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer ln.Close()

	cfg := DefaultConfig(ln.Addr().String(), id)
	cfg.DialTimeout = 2 * time.Second
	cfg.RoundTimeout = 5 * time.Second
	cfg.InitialBackoff = 10 * time.Millisecond
	cfg.MaxBackoff = 10 * time.Millisecond

	client, err := New(cfg, cs, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pubkey := client.pubkey

	var stage1AfterDrop *ceremony.Stage1

	done := make(chan struct{})
	go func() {
		defer close(done)

		conn1, err := ln.Accept()
		if err != nil {
			t.Errorf("Accept (1st): %v", err)
			return
		}
		stage1AfterDrop = simulateCoordinatorStage2Drop(t, conn1, id, cs)
		if stage1AfterDrop == nil {
			return
		}

		// The second accepted connection's handler reads only a
		// handshake and then goes straight to Stage2 — no commitment
		// or Stage1 frame follows. If the client had instead restarted
		// the whole ceremony, it would send a commitment here and this
		// handler's wire.WriteStage2 would race ahead of a client that
		// is still expecting its Stage1 query, and VerifyTransform
		// below would fail.
		conn2, err := ln.Accept()
		if err != nil {
			t.Errorf("Accept (2nd): %v", err)
			return
		}
		defer conn2.Close()
		simulateCoordinatorResumeAtStage2(t, conn2, id, cs, stage1AfterDrop, pubkey)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	<-done

	if client.round != roundDone {
		t.Fatalf("client did not reach roundDone after reconnect, got %v", client.round)
	}
	if client.stage1 == nil || client.stage2 == nil || client.stage3 == nil {
		t.Fatalf("client did not retain all three transformed stages after resuming")
	}
}

func TestNewSamplesDistinctSecretsPerClient(t *testing.T) {
	cs := testCS(t)
	var id wire.PeerID
	copy(id[:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

	a, err := New(DefaultConfig("unused:0", id), cs, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(DefaultConfig("unused:0", id), cs, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.sec.Tau == b.sec.Tau {
		t.Fatalf("two independently constructed clients sampled identical tau")
	}
}
