package coordinator

import (
	"net"
	"sync"

	"github.com/asv/mpc/wire"
)

// slot holds one player's connection between uses. Conn is nil while a
// worker has taken it out to perform blocking I/O (spec §4.7: "reads/
// writes temporarily take the connection out of the slot... and replace
// it"); Live distinguishes "known peer, connection currently absent
// because it's in use" from "known peer, disconnected."
type slot struct {
	Conn net.Conn
	Live bool
}

// peerTable is the coordinator's only shared mutable state (spec §5):
// a mutex-guarded map from peer_id to connection slot. The mutex is held
// only for handle swaps, never across network I/O.
type peerTable struct {
	mu    sync.Mutex
	slots map[wire.PeerID]*slot
}

func newPeerTable() *peerTable {
	return &peerTable{slots: make(map[wire.PeerID]*slot)}
}

// accept registers a newly accepted connection for id. It reports
// (isNew, accepted): isNew tells the caller whether this peer_id was
// never seen before (so the ceremony driver should be notified); accepted
// is false when a live connection for this peer already exists, in which
// case the new connection must be dropped by the caller with a warning
// (spec §4.7: "Duplicate live connections for a live slot are dropped
// with a warning").
func (t *peerTable) accept(id wire.PeerID, conn net.Conn) (isNew, accepted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, known := t.slots[id]
	if !known {
		t.slots[id] = &slot{Conn: conn, Live: true}
		return true, true
	}
	if s.Live {
		return false, false
	}
	s.Conn = conn
	s.Live = true
	return false, true
}

// take removes and returns the connection for id, leaving the slot empty
// so other goroutines can observe that it's in use. ok is false if the
// peer was never registered.
func (t *peerTable) take(id wire.PeerID) (net.Conn, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, known := t.slots[id]
	if !known || s.Conn == nil {
		return nil, false
	}
	conn := s.Conn
	s.Conn = nil
	return conn, true
}

// put returns a connection to its slot after a worker finishes using it.
// If the worker observed an I/O failure, live should be false so the
// acceptor knows the slot needs a fresh connection before it can be used
// again.
func (t *peerTable) put(id wire.PeerID, conn net.Conn, live bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, known := t.slots[id]
	if !known {
		s = &slot{}
		t.slots[id] = s
	}
	s.Conn = conn
	s.Live = live
}

// count reports how many distinct peer_ids have ever registered.
func (t *peerTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// connectedCount reports how many peer_ids currently have a live
// connection, used by the /status metrics surface.
func (t *peerTable) connectedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, s := range t.slots {
		if s.Live {
			n++
		}
	}
	return n
}
