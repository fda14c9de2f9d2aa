// Package player implements the ceremony's client side (spec §4.8): it
// connects once, commits to a freshly sampled PublicKey, then walks the
// Stage1/Stage2/Stage3 exchange, transforming each stage payload with its
// own secrets before sending it back. A dropped connection triggers an
// exponential-backoff reconnect that resumes from whichever round hadn't
// been acknowledged yet, rather than restarting the whole ceremony.
package player

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/asv/mpc/ceremony"
	"github.com/asv/mpc/qap"
	"github.com/asv/mpc/secrets"
	"github.com/asv/mpc/wire"
)

// round identifies which exchange the client is currently attempting,
// used to resume after a reconnect without repeating completed rounds.
type round int

const (
	roundHandshake round = iota
	roundCommit
	roundStage1
	roundStage2
	roundStage3
	roundDone
)

// Config bundles a player's connection parameters.
type Config struct {
	Address        string
	PeerID         wire.PeerID
	DialTimeout    time.Duration
	RoundTimeout   time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig mirrors the coordinator's defaults, plus a standard
// doubling backoff for reconnect attempts.
func DefaultConfig(addr string, id wire.PeerID) Config {
	return Config{
		Address:        addr,
		PeerID:         id,
		DialTimeout:    10 * time.Second,
		RoundTimeout:   60 * time.Second,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// Client drives one player's participation in a ceremony run.
type Client struct {
	cfg    Config
	cs     *qap.CS
	sec    *secrets.Secrets
	pubkey *secrets.PublicKey
	log    zerolog.Logger

	round  round
	stage1 *ceremony.Stage1
	stage2 *ceremony.Stage2
	stage3 *ceremony.Stage3
}

// New builds a Client with freshly sampled secrets, bound to the QAP
// shape cs agrees on out of band with the coordinator.
func New(cfg Config, cs *qap.CS, log zerolog.Logger) (*Client, error) {
	sec, err := secrets.New()
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	pubkey := sec.SPairs(cfg.PeerID[:])
	return &Client{cfg: cfg, cs: cs, sec: sec, pubkey: pubkey, log: log}, nil
}

// Run drives the client to completion, reconnecting with exponential
// backoff on any network error until every round finishes (spec §4.8).
func (c *Client) Run(ctx context.Context) error {
	backoff := c.cfg.InitialBackoff
	for c.round != roundDone {
		conn, err := net.DialTimeout("tcp", c.cfg.Address, c.cfg.DialTimeout)
		if err != nil {
			c.log.Warn().Err(err).Str("addr", c.cfg.Address).Msg("dial failed, backing off")
			if !c.sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff, c.cfg.MaxBackoff)
			continue
		}

		err = c.runRounds(ctx, conn)
		conn.Close()
		if err == nil {
			backoff = c.cfg.InitialBackoff
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.log.Warn().Err(err).Msg("connection lost mid-round, reconnecting")
		if !c.sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, c.cfg.MaxBackoff)
	}
	return nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}

// runRounds resumes from c.round on a freshly dialled connection,
// advancing c.round (and the staged state it captured) only once a round
// fully completes — that's what lets Run resume cleanly after a drop.
//
// The handshake runs unconditionally, every call: it identifies this
// connection to the coordinator's accept loop, which reads one fresh
// handshake frame per accepted socket regardless of how far the ceremony
// has already progressed. Everything from the commitment onward is
// gated on c.round, since the coordinator only expects those frames
// once, the first time a round is attempted.
func (c *Client) runRounds(ctx context.Context, conn net.Conn) error {
	conn.SetDeadline(time.Now().Add(c.cfg.RoundTimeout))

	if err := wire.WriteHandshake(conn, c.cfg.PeerID); err != nil {
		return err
	}
	if c.round <= roundHandshake {
		c.round = roundCommit
	}
	if c.round <= roundCommit {
		commitment := secrets.Commit(c.pubkey)
		if err := wire.WriteCommitment(conn, commitment); err != nil {
			return err
		}
		c.round = roundStage1
		c.log.Info().Msg("commitment sent")
	}
	if c.round <= roundStage1 {
		if err := c.doStage1(ctx, conn); err != nil {
			return err
		}
		c.round = roundStage2
		c.log.Info().Msg("stage1 exchange complete")
	}
	if c.round <= roundStage2 {
		if err := c.doStage2(ctx, conn); err != nil {
			return err
		}
		c.round = roundStage3
		c.log.Info().Msg("stage2 exchange complete")
	}
	if c.round <= roundStage3 {
		if err := c.doStage3(ctx, conn); err != nil {
			return err
		}
		c.round = roundDone
		c.log.Info().Msg("stage3 exchange complete")
	}
	return nil
}

func (c *Client) doStage1(ctx context.Context, conn net.Conn) error {
	in, err := wire.ReadStage1(conn, c.cs.D)
	if err != nil {
		return err
	}
	out, err := in.Transform(ctx, c.sec)
	if err != nil {
		return fmt.Errorf("player: stage1 transform: %w", err)
	}
	if err := wire.WritePublicKey(conn, c.pubkey); err != nil {
		return err
	}
	if err := wire.WriteStage1(conn, out); err != nil {
		return err
	}
	c.stage1 = out
	return nil
}

func (c *Client) doStage2(ctx context.Context, conn net.Conn) error {
	in, err := wire.ReadStage2(conn, c.cs.NumVars)
	if err != nil {
		return err
	}
	out, err := in.Transform(ctx, c.sec)
	if err != nil {
		return fmt.Errorf("player: stage2 transform: %w", err)
	}
	if err := wire.WriteStage2(conn, out); err != nil {
		return err
	}
	c.stage2 = out
	return nil
}

func (c *Client) doStage3(ctx context.Context, conn net.Conn) error {
	in, err := wire.ReadStage3(conn, c.cs.D)
	if err != nil {
		return err
	}
	out, err := in.Transform(ctx, c.sec)
	if err != nil {
		return fmt.Errorf("player: stage3 transform: %w", err)
	}
	if err := wire.WriteStage3(conn, out); err != nil {
		return err
	}
	c.stage3 = out
	return nil
}
