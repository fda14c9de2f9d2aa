package secrets

import (
	"errors"

	"github.com/asv/mpc/curve"
)

// ErrTruncated is returned by UnmarshalPublicKey when the input is
// shorter than the fixed-length encoding CanonicalBytes produces.
var ErrTruncated = errors.New("secrets: truncated public key encoding")

// UnmarshalPublicKey decodes the format produced by
// PublicKey.CanonicalBytes, reading each field in the same fixed order
// CanonicalBytes writes them.
func UnmarshalPublicKey(b []byte) (*PublicKey, error) {
	pk := &PublicKey{}
	cursor := 0
	readG1 := func() (SPairG1, error) {
		if cursor+2*curve.G1EncodedSize > len(b) {
			return SPairG1{}, ErrTruncated
		}
		f, err := curve.UnmarshalG1(b[cursor : cursor+curve.G1EncodedSize])
		if err != nil {
			return SPairG1{}, err
		}
		cursor += curve.G1EncodedSize
		xf, err := curve.UnmarshalG1(b[cursor : cursor+curve.G1EncodedSize])
		if err != nil {
			return SPairG1{}, err
		}
		cursor += curve.G1EncodedSize
		return SPairG1{F: f, XF: xf}, nil
	}
	readG2 := func() (SPairG2, error) {
		if cursor+2*curve.G2EncodedSize > len(b) {
			return SPairG2{}, ErrTruncated
		}
		f, err := curve.UnmarshalG2(b[cursor : cursor+curve.G2EncodedSize])
		if err != nil {
			return SPairG2{}, err
		}
		cursor += curve.G2EncodedSize
		xf, err := curve.UnmarshalG2(b[cursor : cursor+curve.G2EncodedSize])
		if err != nil {
			return SPairG2{}, err
		}
		cursor += curve.G2EncodedSize
		return SPairG2{F: f, XF: xf}, nil
	}

	var err error
	if pk.Tau, err = readG2(); err != nil {
		return nil, err
	}
	if pk.AlphaA, err = readG2(); err != nil {
		return nil, err
	}
	if pk.AlphaB, err = readG2(); err != nil {
		return nil, err
	}
	if pk.AlphaC, err = readG2(); err != nil {
		return nil, err
	}
	if pk.BetaG1, err = readG2(); err != nil {
		return nil, err
	}
	if pk.BetaG2, err = readG1(); err != nil {
		return nil, err
	}
	if pk.RhoA, err = readG2(); err != nil {
		return nil, err
	}
	if pk.RhoB, err = readG1(); err != nil {
		return nil, err
	}
	if pk.RhoBPrime, err = readG2(); err != nil {
		return nil, err
	}
	if pk.Gamma, err = readG1(); err != nil {
		return nil, err
	}
	if pk.RhoAB, err = readG2(); err != nil {
		return nil, err
	}
	if pk.BetaRhoAB, err = readG2(); err != nil {
		return nil, err
	}
	if pk.AlphaAG1, err = readG1(); err != nil {
		return nil, err
	}
	if pk.AlphaCG1, err = readG1(); err != nil {
		return nil, err
	}
	if pk.BetaGammaWitnessG2, err = readG2(); err != nil {
		return nil, err
	}
	if pk.BetaGammaWitnessG1, err = readG1(); err != nil {
		return nil, err
	}

	return pk, nil
}
