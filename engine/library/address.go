package library

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
	addressMarker = "ProgramDerivedAddress"
)

// ErrOnCurve is returned when a derived digest is a valid public key, which would let
// someone hold a private key for the address.
var ErrOnCurve = errors.New("derived address lies on the secp256k1 curve")

// CreateProgramAddress hashes the seeds and program ID into an address. The seeds must
// already include the bump if one is used.
func CreateProgramAddress(seeds [][]byte, programID Account) (Account, error) {
	if len(seeds) > MaxSeeds {
		return "", fmt.Errorf("too many seeds: %d > %d", len(seeds), MaxSeeds)
	}
	program, err := DecodeAccount(programID)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return "", fmt.Errorf("seed %d is %d bytes, max is %d", i, len(seed), MaxSeedLength)
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write([]byte(addressMarker))
	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	if IsOnCurve(digest) {
		return "", ErrOnCurve
	}
	return EncodeAccount(digest), nil
}

// FindProgramAddress walks bump seeds from 255 down and returns the first address that is
// off the curve, together with the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID Account) (Account, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return "", 0, fmt.Errorf("too many seeds: %d leaves no room for the bump", len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		address, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return address, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return "", 0, err
		}
	}
	return "", 0, fmt.Errorf("no viable bump seed found")
}

// IsOnCurve reports whether key decodes as an x-only secp256k1 public key.
func IsOnCurve(key [32]byte) bool {
	_, err := schnorr.ParsePubKey(key[:])
	return err == nil
}
