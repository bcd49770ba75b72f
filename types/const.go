package types

type AuctionStatus uint8

const (
	AuctionCreated AuctionStatus = iota
	AuctionActive
	AuctionEnded
	AuctionSettled
	AuctionCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionCreated:
		return "created"
	case AuctionActive:
		return "active"
	case AuctionEnded:
		return "ended"
	case AuctionSettled:
		return "settled"
	case AuctionCancelled:
		return "cancelled"
	}
	return "unknown"
}

const (
	NetworkTypeSol int = iota
)

const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)
