package types

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

type (
	Creator struct {
		Address  solana.PublicKey
		Verified bool
		Share    uint8
	}

	Attribute struct {
		TraitType string
		Value     string
	}

	// ResolvedMetadata is the on-chain metadata record overlaid with the
	// off-chain document its URI points at. Image and Description stay empty
	// when the document could not be fetched.
	ResolvedMetadata struct {
		Mint                 string
		MetadataAddress      string
		Name                 string
		Symbol               string
		URI                  string
		SellerFeeBasisPoints uint16
		Creators             []Creator
		PrimarySaleHappened  bool
		IsMutable            bool

		HasOffchain  bool
		OnChainName  string
		Image        string
		Description  string
		ExternalURL  string
		AnimationURL string
		Attributes   []Attribute
	}

	FindAuctionRequest struct {
		Seller string
		Mint   string
	}

	FindDepositRequest struct {
		Auction string
		Bidder  string
	}

	AddressResponse struct {
		Address string
		Bump    uint8
	}

	GetAuctionResponse struct {
		Address         string
		Seller          string
		NftMint         string
		Status          AuctionStatus
		ReservePrice    decimal.Decimal
		CurrentBid      decimal.Decimal
		MinNextBid      decimal.Decimal
		HighestBidder   string
		BidCount        uint32
		StartTime       time.Time
		EndTime         time.Time
		Remaining       time.Duration
		Vault           string
		VaultBalance    decimal.Decimal
		VaultExists     bool
		Metadata        *ResolvedMetadata
		MetadataLoading bool

		// Delegated is set while the auction lives on the ephemeral rollup.
		Delegated bool

		// Settlement is estimated from the current bid once metadata is known.
		Settlement *SettlementEstimate
	}

	SettlementEstimate struct {
		FinalPrice     decimal.Decimal
		ProtocolFee    decimal.Decimal
		Royalties      decimal.Decimal
		SellerReceives decimal.Decimal
	}

	GetDepositResponse struct {
		Address string
		Auction string
		Bidder  string
		Amount  decimal.Decimal
		Exists  bool
	}

	WatchAuctionRequest struct {
		Auction  string
		Duration time.Duration
	}

	GetTransactionRequest struct {
		TxHash string
	}
)
