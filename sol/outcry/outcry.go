// Package outcry decodes accounts, events and errors of the Outcry auction
// program and derives its program addresses.
package outcry

import (
	"crypto/sha256"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/sol/pda"
)

var ProgramID = solana.MPK("J7r5mzvVUjSNQteoqn6Hd3LjZ3ksmwoD5xsnUvMJwPZo")

// DelegationProgramID owns an auction account on L1 while it is delegated
// to the ephemeral rollup.
var DelegationProgramID = solana.MPK("DELeGGvXpWV2fqJUhqcF5ZSYMS4JTLjteaAMARRSaeSh")

const (
	AuctionSeed = "auction"
	VaultSeed   = "vault"
	DepositSeed = "deposit"
)

const (
	ProtocolFeeBps = 0

	// MaxExtension caps the anti-snipe allowance on top of the original
	// duration.
	MaxExtension = time.Hour

	// MaxBidders caps the depositors of one auction.
	MaxBidders = 20

	ForceCloseGracePeriod = 7 * 24 * time.Hour
)

const DiscriminatorLength = 8

type Discriminator [DiscriminatorLength]byte

func discriminator(namespace, name string) Discriminator {
	var d Discriminator
	h := sha256.Sum256([]byte(namespace + ":" + name))
	copy(d[:], h[:DiscriminatorLength])
	return d
}

func AccountDiscriminator(name string) Discriminator {
	return discriminator("account", name)
}

func EventDiscriminator(name string) Discriminator {
	return discriminator("event", name)
}

// FindAuction derives the auction state address for a seller and mint.
func FindAuction(programID, seller, mint solana.PublicKey) (pda.PDA, error) {
	return pda.FindProgramAddress(
		[][]byte{
			[]byte(AuctionSeed),
			seller.Bytes(),
			mint.Bytes(),
		},
		programID,
	)
}

// FindVault derives the lamport vault holding bidder deposits.
func FindVault(programID, auction solana.PublicKey) (pda.PDA, error) {
	return pda.FindProgramAddress(
		[][]byte{
			[]byte(VaultSeed),
			auction.Bytes(),
		},
		programID,
	)
}

func FindDeposit(programID, auction, bidder solana.PublicKey) (pda.PDA, error) {
	return pda.FindProgramAddress(
		[][]byte{
			[]byte(DepositSeed),
			auction.Bytes(),
			bidder.Bytes(),
		},
		programID,
	)
}
