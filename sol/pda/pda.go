// Package pda derives program addresses: account addresses that are a pure
// function of a seed list and a program id and that are guaranteed to lie off
// the ed25519 curve, so no private key can sign for them.
package pda

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/types"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32

	programDerivedAddressMarker = "ProgramDerivedAddress"
)

type (
	// Crypto is the hash and curve membership test a Deriver runs on.
	Crypto interface {
		Hash(data []byte) []byte
		IsOnCurve(b []byte) bool
	}

	PDA struct {
		Address solana.PublicKey
		Bump    uint8
	}

	Deriver struct {
		crypto Crypto
	}

	ed25519Crypto struct{}
)

// Ed25519 is SHA-256 paired with the ed25519 point decoder, the scheme used by
// the Solana runtime.
var Ed25519 Crypto = ed25519Crypto{}

var (
	defaultDeriver = NewDeriver(Ed25519)

	errOnCurve = errors.New("invalid seeds, address must fall off the curve")
)

func (ed25519Crypto) Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func (ed25519Crypto) IsOnCurve(b []byte) bool {
	if len(b) != solana.PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func NewDeriver(c Crypto) *Deriver {
	return &Deriver{crypto: c}
}

func (p PDA) String() string {
	return fmt.Sprintf("%s (bump %d)", p.Address, p.Bump)
}

// CreateProgramAddress hashes seeds, programID and the PDA marker. It fails if
// the result is a valid curve point.
func (d *Deriver) CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, fmt.Errorf("%w: %d seeds, max %d", types.ErrInvalidSeeds, len(seeds), MaxSeeds)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return solana.PublicKey{}, fmt.Errorf("%w: seed %d is %d bytes, max %d", types.ErrInvalidSeeds, i, len(seed), MaxSeedLength)
		}
	}

	var buf bytes.Buffer
	for _, seed := range seeds {
		buf.Write(seed)
	}
	buf.Write(programID[:])
	buf.WriteString(programDerivedAddressMarker)

	hash := d.crypto.Hash(buf.Bytes())
	if len(hash) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("hash output is %d bytes, want %d", len(hash), solana.PublicKeyLength)
	}
	if d.crypto.IsOnCurve(hash) {
		return solana.PublicKey{}, errOnCurve
	}
	return solana.PublicKeyFromBytes(hash), nil
}

// FindProgramAddress searches bumps from 255 down to 0 and returns the first
// one whose address falls off the curve.
func (d *Deriver) FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (PDA, error) {
	if len(seeds) >= MaxSeeds {
		return PDA{}, fmt.Errorf("%w: %d seeds, max %d before bump", types.ErrInvalidSeeds, len(seeds), MaxSeeds-1)
	}

	candidate := make([][]byte, len(seeds)+1)
	copy(candidate, seeds)
	for bump := math.MaxUint8; bump >= 0; bump-- {
		candidate[len(seeds)] = []byte{uint8(bump)}
		address, err := d.CreateProgramAddress(candidate, programID)
		if err == nil {
			return PDA{Address: address, Bump: uint8(bump)}, nil
		}
		if !errors.Is(err, errOnCurve) {
			return PDA{}, err
		}
	}
	return PDA{}, types.ErrNoValidBumpFound
}

// FindProgramAddress derives with the ed25519 scheme.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (PDA, error) {
	return defaultDeriver.FindProgramAddress(seeds, programID)
}

func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	return defaultDeriver.CreateProgramAddress(seeds, programID)
}

// IsOnCurve reports whether address decodes to an ed25519 point.
func IsOnCurve(address solana.PublicKey) bool {
	return Ed25519.IsOnCurve(address[:])
}
