package wire

import (
	"errors"
	"io"

	"github.com/asv/mpc/ceremony"
	"github.com/asv/mpc/internal/ceremonyconst"
	"github.com/asv/mpc/secrets"
)

// ErrBadMagic is returned by ReadHandshake when the peer's NETWORK_MAGIC
// does not match the ceremony's fixed tag (spec §7 ProtocolError).
var ErrBadMagic = errors.New("wire: bad network magic")

// PeerID identifies one ceremony participant across reconnects.
type PeerID [ceremonyconst.PeerIDSize]byte

// WriteHandshake sends message 1: NETWORK_MAGIC followed by peer_id, as
// a single frame.
func WriteHandshake(w io.Writer, id PeerID) error {
	payload := make([]byte, 0, 8+ceremonyconst.PeerIDSize)
	payload = append(payload, ceremonyconst.NetworkMagic[:]...)
	payload = append(payload, id[:]...)
	return WriteFrame(w, payload)
}

// ReadHandshake reads message 1 and validates the magic tag.
func ReadHandshake(r io.Reader) (PeerID, error) {
	var id PeerID
	payload, err := ReadFrame(r)
	if err != nil {
		return id, err
	}
	if len(payload) != 8+ceremonyconst.PeerIDSize {
		return id, ErrBadMagic
	}
	if string(payload[:8]) != string(ceremonyconst.NetworkMagic[:]) {
		return id, ErrBadMagic
	}
	copy(id[:], payload[8:])
	return id, nil
}

// WriteCommitment sends message 2: the 32-byte commitment digest.
func WriteCommitment(w io.Writer, c secrets.Commitment) error {
	return WriteFrame(w, c[:])
}

// ReadCommitment reads message 2.
func ReadCommitment(r io.Reader) (secrets.Commitment, error) {
	var c secrets.Commitment
	payload, err := ReadFrame(r)
	if err != nil {
		return c, err
	}
	if len(payload) != ceremonyconst.DigestSize {
		return c, ErrProtocolError
	}
	copy(c[:], payload)
	return c, nil
}

// ErrProtocolError is returned for malformed frames that do not match
// the ceremony's expected message shape (spec §7).
var ErrProtocolError = errors.New("wire: malformed protocol frame")

// WriteStage1 sends a Stage1Contents message (used for both message 3
// and the Stage1Contents half of message 4).
func WriteStage1(w io.Writer, s *ceremony.Stage1) error {
	payload, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// ReadStage1 reads a Stage1Contents message. d is the ceremony's fixed
// QAP degree, agreed out of band before the connection is opened.
func ReadStage1(r io.Reader, d int) (*ceremony.Stage1, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return ceremony.UnmarshalStage1(payload, d)
}

// WritePublicKey sends the PublicKey half of message 4.
func WritePublicKey(w io.Writer, pk *secrets.PublicKey) error {
	return WriteFrame(w, pk.CanonicalBytes())
}

// ReadPublicKey reads the PublicKey half of message 4.
func ReadPublicKey(r io.Reader) (*secrets.PublicKey, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return secrets.UnmarshalPublicKey(payload)
}

// WriteStage2 sends a Stage2Contents message (messages 5 and 6).
func WriteStage2(w io.Writer, s *ceremony.Stage2) error {
	payload, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// ReadStage2 reads a Stage2Contents message. numVars is the QAP's
// variable count, agreed out of band.
func ReadStage2(r io.Reader, numVars int) (*ceremony.Stage2, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return ceremony.UnmarshalStage2(payload, numVars)
}

// WriteStage3 sends a Stage3Contents message (messages 7 and 8).
func WriteStage3(w io.Writer, s *ceremony.Stage3) error {
	payload, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// ReadStage3 reads a Stage3Contents message. d is the QAP degree; H has
// d+1 entries.
func ReadStage3(r io.Reader, d int) (*ceremony.Stage3, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return ceremony.UnmarshalStage3(payload, d)
}
