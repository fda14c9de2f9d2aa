package coordinator

import "errors"

// ErrCeremonyAborted is returned by Run when any player's transform fails
// verification or a protocol invariant is violated; the caller (cmd/
// coordinator's main) translates this into a nonzero process exit, per
// spec §7: "Fatal errors abort the process with nonzero exit; partial
// output is not persisted."
var ErrCeremonyAborted = errors.New("coordinator: ceremony aborted")

// ErrTooManyPlayers names the condition of a connection from an unknown
// peer_id arriving after the configured player count has been reached.
// The acceptor itself does not return it: it logs a warning and closes
// such connections.
var ErrTooManyPlayers = errors.New("coordinator: player capacity reached")
