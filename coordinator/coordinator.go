// Package coordinator implements the ceremony's server side (spec
// §4.6-§4.7): it waits for the fixed player count to connect, drives
// Stage1/Stage2/Stage3 in arrival order, verifies every transform, and
// assembles and persists the final Keypair.
package coordinator

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/asv/mpc/ceremony"
	"github.com/asv/mpc/internal/ceremonyconst"
	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/secrets"
	"github.com/asv/mpc/wire"
)

// Config bundles the coordinator's configurable timeouts and player
// count, resolving spec §9's Open Question that these should not be
// hardcoded.
type Config struct {
	ListenAddr   string
	Players      int
	IOBackoff    time.Duration
	RoundTimeout time.Duration
	KeypairPath  string
}

// DefaultConfig returns the original ceremony's hardcoded values as
// defaults (spec §6, §9).
func DefaultConfig() Config {
	return Config{
		ListenAddr:   ceremonyconst.DefaultListenAddr,
		Players:      ceremonyconst.Players,
		IOBackoff:    ceremonyconst.DefaultIOBackoff,
		RoundTimeout: ceremonyconst.DefaultRoundTimeout,
		KeypairPath:  "keypair.bin",
	}
}

// Coordinator drives a single ceremony run to completion.
type Coordinator struct {
	cfg     Config
	cs      *qap.CS
	table   *peerTable
	newPeer chan wire.PeerID
	order   []wire.PeerID
	log     zerolog.Logger
	metrics *Metrics
	started time.Time

	// pubkeys is populated during Stage1 and consulted by Stage2/Stage3,
	// which verify against the same per-player s-pairs Stage1 already
	// checked against each player's commitment.
	pubkeys map[wire.PeerID]*secrets.PublicKey

	// timings accumulates one StageTiming per verified transform, for
	// RenderTimingReport.
	timings []StageTiming
}

// Timings returns the per-player stage round durations recorded so far, for
// passing to RenderTimingReport once the ceremony completes.
func (c *Coordinator) Timings() []StageTiming {
	return c.timings
}

// New constructs a Coordinator bound to cs, ready to Serve connections
// and Run the ceremony once Config.Players of them have arrived.
func New(cfg Config, cs *qap.CS, log zerolog.Logger, metrics *Metrics) *Coordinator {
	return &Coordinator{
		cfg:     cfg,
		cs:      cs,
		table:   newPeerTable(),
		newPeer: make(chan wire.PeerID, cfg.Players),
		log:     log,
		metrics: metrics,
		started: time.Now(),
		pubkeys: make(map[wire.PeerID]*secrets.PublicKey),
	}
}

// Serve accepts connections on ln until ctx is cancelled, starting one
// goroutine per accepted connection that performs the handshake (magic +
// peer_id) before registering it, so a slow handshake never blocks the
// accept loop.
func (c *Coordinator) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go c.handshake(conn)
	}
}

func (c *Coordinator) handshake(conn net.Conn) {
	conn.SetDeadline(time.Now().Add(c.cfg.IOBackoff))
	id, err := wire.ReadHandshake(conn)
	if err != nil {
		c.log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("handshake failed")
		conn.Close()
		return
	}
	conn.SetDeadline(time.Now().Add(c.cfg.RoundTimeout))

	isNew, accepted := c.table.accept(id, conn)
	if !accepted {
		c.log.Warn().Hex("peer_id", id[:]).Msg("duplicate connection from live peer, dropping")
		conn.Close()
		return
	}
	if isNew {
		if c.table.count() > c.cfg.Players {
			c.log.Warn().Hex("peer_id", id[:]).Msg("rejecting connection, player capacity reached")
			conn.Close()
			return
		}
		c.log.Info().Hex("peer_id", id[:]).Msg("accepted new connection")
		c.newPeer <- id
	} else {
		c.log.Info().Hex("peer_id", id[:]).Msg("re-established connection")
	}
	if c.metrics != nil {
		c.metrics.ConnectedPlayers.Set(float64(c.table.connectedCount()))
	}
}

// doWithConn implements spec §4.7's take-out/retry pattern: it removes
// the peer's connection from the table, calls fn, and puts the
// connection back whether fn succeeded or not. On failure it backs off
// and retries once a connection is available again; it never gives up,
// since network failures are retried indefinitely by design (spec §5).
func (c *Coordinator) doWithConn(ctx context.Context, id wire.PeerID, fn func(net.Conn) error) error {
	for {
		conn, ok := c.table.take(id)
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.IOBackoff):
				continue
			}
		}

		conn.SetDeadline(time.Now().Add(c.cfg.RoundTimeout))
		err := fn(conn)
		c.table.put(id, conn, err == nil)

		if err == nil {
			return nil
		}
		c.log.Warn().Err(err).Hex("peer_id", id[:]).Msg("I/O failure, retrying after backoff")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.IOBackoff):
		}
	}
}

// Run waits for exactly Config.Players connections, then drives Stage1,
// Stage2 and Stage3 to completion in arrival order, assembling and
// persisting the final Keypair. Any verification failure aborts the
// ceremony and returns a wrapped ErrCeremonyAborted without writing
// anything to disk.
func (c *Coordinator) Run(ctx context.Context) (*ceremony.Keypair, error) {
	kp, err := c.run(ctx)
	if err != nil && c.metrics != nil {
		c.metrics.Aborts.Inc()
	}
	return kp, err
}

func (c *Coordinator) run(ctx context.Context) (*ceremony.Keypair, error) {
	c.log.Info().Int("players", c.cfg.Players).Msg("waiting for players to connect")
	for len(c.order) < c.cfg.Players {
		select {
		case id := <-c.newPeer:
			c.order = append(c.order, id)
			c.log.Info().Hex("peer_id", id[:]).Msg("player ready")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	commitments := make([]secrets.Commitment, len(c.order))
	for i, id := range c.order {
		var comm secrets.Commitment
		err := c.doWithConn(ctx, id, func(conn net.Conn) error {
			var err error
			comm, err = wire.ReadCommitment(conn)
			return err
		})
		if err != nil {
			return nil, err
		}
		commitments[i] = comm
	}
	c.log.Info().Msg("all players committed")

	stage1, err := c.runStage1(ctx, commitments)
	if err != nil {
		return nil, err
	}
	stage2, err := c.runStage2(ctx, stage1)
	if err != nil {
		return nil, err
	}
	stage3, err := c.runStage3(ctx, stage1)
	if err != nil {
		return nil, err
	}

	kp, err := ceremony.Assemble(c.cs, stage1, stage2, stage3)
	if err != nil {
		return nil, fmt.Errorf("%w: assemble: %v", ErrCeremonyAborted, err)
	}
	if err := ceremony.Persist(c.cfg.KeypairPath, kp); err != nil {
		return nil, fmt.Errorf("coordinator: persist keypair: %w", err)
	}
	c.log.Info().Str("path", c.cfg.KeypairPath).Msg("keypair written to disk")
	return kp, nil
}

func (c *Coordinator) runStage1(ctx context.Context, commitments []secrets.Commitment) (*ceremony.Stage1, error) {
	stage1 := ceremony.NewStage1(c.cs.D)
	for i, id := range c.order {
		start := time.Now()
		var pubkey *secrets.PublicKey
		var next *ceremony.Stage1

		err := c.doWithConn(ctx, id, func(conn net.Conn) error {
			if err := wire.WriteStage1(conn, stage1); err != nil {
				return err
			}
			var err error
			if pubkey, err = wire.ReadPublicKey(conn); err != nil {
				return err
			}
			next, err = wire.ReadStage1(conn, c.cs.D)
			return err
		})
		if err != nil {
			return nil, err
		}

		if err := commitments[i].Verify(pubkey); err != nil {
			return nil, fmt.Errorf("%w: stage1 commitment (peer %x): %v", ErrCeremonyAborted, id, err)
		}
		if err := pubkey.Validate(); err != nil {
			return nil, fmt.Errorf("%w: stage1 pubkey (peer %x): %v", ErrCeremonyAborted, id, err)
		}
		if err := stage1.VerifyTransform(next, pubkey); err != nil {
			return nil, fmt.Errorf("%w: stage1 transform (peer %x): %v", ErrCeremonyAborted, id, err)
		}
		c.pubkeys[id] = pubkey
		stage1 = next
		elapsed := time.Since(start)
		c.timings = append(c.timings, StageTiming{Stage: "stage1", PlayerIndex: i, Seconds: elapsed.Seconds()})
		if c.metrics != nil {
			c.metrics.StageDuration.WithLabelValues("stage1").Observe(elapsed.Seconds())
		}
		c.log.Info().Hex("peer_id", id[:]).Msg("stage1 transform verified")
	}
	return stage1, nil
}

// pubkeyFor returns the PublicKey verified during Stage1 for id; Stage2
// and Stage3 verify against the same key since spec §4.4-§4.5 reuse
// Stage1's s-pairs for every later stage's same-ratio checks.
func (c *Coordinator) pubkeyFor(id wire.PeerID) *secrets.PublicKey {
	return c.pubkeys[id]
}

func (c *Coordinator) runStage2(ctx context.Context, stage1 *ceremony.Stage1) (*ceremony.Stage2, error) {
	stage2, err := ceremony.NewStage2FromStage1(ctx, c.cs, stage1)
	if err != nil {
		return nil, fmt.Errorf("%w: stage2 init: %v", ErrCeremonyAborted, err)
	}

	for i, id := range c.order {
		start := time.Now()
		var next *ceremony.Stage2
		err := c.doWithConn(ctx, id, func(conn net.Conn) error {
			if err := wire.WriteStage2(conn, stage2); err != nil {
				return err
			}
			var err error
			next, err = wire.ReadStage2(conn, c.cs.NumVars)
			return err
		})
		if err != nil {
			return nil, err
		}

		if err := stage2.VerifyTransform(next, c.pubkeyFor(id)); err != nil {
			return nil, fmt.Errorf("%w: stage2 transform (peer %x): %v", ErrCeremonyAborted, id, err)
		}
		stage2 = next
		elapsed := time.Since(start)
		c.timings = append(c.timings, StageTiming{Stage: "stage2", PlayerIndex: i, Seconds: elapsed.Seconds()})
		if c.metrics != nil {
			c.metrics.StageDuration.WithLabelValues("stage2").Observe(elapsed.Seconds())
		}
		c.log.Info().Hex("peer_id", id[:]).Msg("stage2 transform verified")
	}
	return stage2, nil
}

func (c *Coordinator) runStage3(ctx context.Context, stage1 *ceremony.Stage1) (*ceremony.Stage3, error) {
	stage3, err := ceremony.NewStage3FromStage1(c.cs, stage1)
	if err != nil {
		return nil, fmt.Errorf("%w: stage3 init: %v", ErrCeremonyAborted, err)
	}

	for i, id := range c.order {
		start := time.Now()
		var next *ceremony.Stage3
		err := c.doWithConn(ctx, id, func(conn net.Conn) error {
			if err := wire.WriteStage3(conn, stage3); err != nil {
				return err
			}
			var err error
			next, err = wire.ReadStage3(conn, c.cs.D)
			return err
		})
		if err != nil {
			return nil, err
		}

		if err := stage3.VerifyTransform(next, c.pubkeyFor(id)); err != nil {
			return nil, fmt.Errorf("%w: stage3 transform (peer %x): %v", ErrCeremonyAborted, id, err)
		}
		stage3 = next
		elapsed := time.Since(start)
		c.timings = append(c.timings, StageTiming{Stage: "stage3", PlayerIndex: i, Seconds: elapsed.Seconds()})
		if c.metrics != nil {
			c.metrics.StageDuration.WithLabelValues("stage3").Observe(elapsed.Seconds())
		}
		c.log.Info().Hex("peer_id", id[:]).Msg("stage3 transform verified")
	}
	return stage3, nil
}
