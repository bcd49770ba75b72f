package outcry

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/outcry-labs/go-outcry/types"
)

var (
	AuctionStateDiscriminator  = AccountDiscriminator("AuctionState")
	AuctionVaultDiscriminator  = AccountDiscriminator("AuctionVault")
	BidderDepositDiscriminator = AccountDiscriminator("BidderDeposit")
)

const (
	AuctionStateSize  = DiscriminatorLength + 32*3 + 8*3 + 8*2 + 4*2 + 8 + 1 + 4 + 1
	AuctionVaultSize  = DiscriminatorLength + 32 + 1
	BidderDepositSize = DiscriminatorLength + 32*2 + 8 + 1

	// SellerOffset is where the seller key starts in an auction account.
	SellerOffset = DiscriminatorLength
	// DepositAuctionOffset is where the auction key starts in a deposit account.
	DepositAuctionOffset = DiscriminatorLength
)

type AuctionState struct {
	Seller           solana.PublicKey
	NftMint          solana.PublicKey
	ReservePrice     uint64
	DurationSeconds  uint64
	CurrentBid       uint64
	HighestBidder    solana.PublicKey
	StartTime        int64
	EndTime          int64
	ExtensionSeconds uint32
	ExtensionWindow  uint32
	MinBidIncrement  uint64
	RawStatus        uint8
	BidCount         uint32
	Bump             uint8
}

type AuctionVault struct {
	Auction solana.PublicKey
	Bump    uint8
}

type BidderDeposit struct {
	Auction solana.PublicKey
	Bidder  solana.PublicKey
	Amount  uint64
	Bump    uint8
}

func decodeAccount(data []byte, disc Discriminator, size int, v interface{}) error {
	if len(data) < size {
		return fmt.Errorf("%w: %d bytes, want %d", types.ErrInvalidAccount, len(data), size)
	}
	if !bytes.Equal(data[:DiscriminatorLength], disc[:]) {
		return fmt.Errorf("%w: discriminator mismatch", types.ErrInvalidAccount)
	}
	if err := borsh.Deserialize(v, data[DiscriminatorLength:size]); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidAccount, err)
	}
	return nil
}

func DecodeAuctionState(data []byte) (*AuctionState, error) {
	state := AuctionState{}
	if err := decodeAccount(data, AuctionStateDiscriminator, AuctionStateSize, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func DecodeAuctionVault(data []byte) (*AuctionVault, error) {
	vault := AuctionVault{}
	if err := decodeAccount(data, AuctionVaultDiscriminator, AuctionVaultSize, &vault); err != nil {
		return nil, err
	}
	return &vault, nil
}

func DecodeBidderDeposit(data []byte) (*BidderDeposit, error) {
	deposit := BidderDeposit{}
	if err := decodeAccount(data, BidderDepositDiscriminator, BidderDepositSize, &deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}

func (a *AuctionState) Status() types.AuctionStatus {
	return types.AuctionStatus(a.RawStatus)
}

func (a *AuctionState) Start() time.Time {
	return time.Unix(a.StartTime, 0)
}

func (a *AuctionState) End() time.Time {
	return time.Unix(a.EndTime, 0)
}

func (a *AuctionState) HasBids() bool {
	return a.BidCount > 0
}

// MinNextBid is the smallest amount the program accepts as the next bid: the
// reserve for the first bid, the current bid plus the increment after that.
func (a *AuctionState) MinNextBid() uint64 {
	if a.BidCount == 0 {
		return a.ReservePrice
	}
	next := a.CurrentBid + a.MinBidIncrement
	if next < a.CurrentBid {
		return ^uint64(0)
	}
	return next
}

// IsLive reports whether a bid placed at now would be accepted on timing.
func (a *AuctionState) IsLive(now time.Time) bool {
	return a.Status() == types.AuctionActive && now.Unix() < a.EndTime
}

func (a *AuctionState) Remaining(now time.Time) time.Duration {
	if !a.IsLive(now) {
		return 0
	}
	return a.End().Sub(now)
}

// MaxEndTime is the latest end time anti-snipe extensions can reach.
func (a *AuctionState) MaxEndTime() time.Time {
	duration := time.Duration(a.DurationSeconds) * time.Second
	return a.Start().Add(duration + min(duration, MaxExtension))
}

// EndTimeAfterBid projects the end time after a bid landing at bidAt.
func (a *AuctionState) EndTimeAfterBid(bidAt time.Time) time.Time {
	if a.EndTime-bidAt.Unix() >= int64(a.ExtensionWindow) {
		return a.End()
	}
	proposed := a.End().Add(time.Duration(a.ExtensionSeconds) * time.Second)
	if maxEnd := a.MaxEndTime(); proposed.After(maxEnd) {
		return maxEnd
	}
	return proposed
}

// ForceCloseAt returns when the seller may sweep unclaimed deposits. Only
// settled and cancelled auctions can be force closed.
func (a *AuctionState) ForceCloseAt() (time.Time, bool) {
	switch a.Status() {
	case types.AuctionSettled:
		return a.End().Add(ForceCloseGracePeriod), true
	case types.AuctionCancelled:
		if a.StartTime == 0 {
			return time.Unix(0, 0), true
		}
		return a.Start().Add(ForceCloseGracePeriod), true
	}
	return time.Time{}, false
}
