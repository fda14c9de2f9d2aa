// Package ceremonyconst holds the fixed protocol constants of the ceremony:
// values that are part of the wire contract and must not vary between
// coordinator and player builds.
package ceremonyconst

import "time"

// NetworkMagic is sent by the player immediately after connecting. A
// mismatch causes the coordinator to close the connection without
// reading further. Value carried over from the original ceremony.
var NetworkMagic = [8]byte{0xff, 0xff, 0x1f, 0xbb, 0x1c, 0xee, 0x00, 0x19}

const (
	// Players is the default number of ceremony participants;
	// cmd/coordinator's --players flag overrides it.
	Players = 3

	// DefaultWorkerPoolSize records the ceremony's historical THREADS
	// value. Nothing reads it; the chunked vector operations take their
	// default from multicore.DefaultWorkers, which has the same value.
	DefaultWorkerPoolSize = 128

	// DefaultListenAddr is the coordinator's default bind address;
	// cmd/coordinator's --listen-addr flag overrides it.
	DefaultListenAddr = "0.0.0.0:65530"

	// PeerIDSize is the length in bytes of a player's handshake identifier.
	PeerIDSize = 8

	// DigestSize is the length in bytes of a commitment digest.
	DigestSize = 32
)

// Default timeouts. Both are configurable on Coordinator/Client
// construction; these are only the ceremony's historical defaults.
const (
	DefaultIOBackoff    = 5 * time.Second
	DefaultRoundTimeout = 60 * time.Second
)
