package types

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

type (
	// AccountReader returns raw account data. A missing account yields
	// (nil, nil), not an error.
	AccountReader interface {
		ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
	}

	// JSONFetcher returns the body of a JSON document. Non-2xx responses and
	// bodies that are not valid JSON are errors.
	JSONFetcher interface {
		FetchJSON(ctx context.Context, uri string) ([]byte, error)
	}

	// Event is a decoded program event.
	Event interface {
		EventName() string
	}

	MetadataSource interface {
		Resolve(ctx context.Context, mint solana.PublicKey) (*ResolvedMetadata, bool)
		Loading(mint solana.PublicKey) bool
	}

	NetworkInterface interface {
		Start() error
		Close() error
		GetType() int
		GetTypeSymbol() string
		CheckAddress(text string) bool
		FindAuction(req *FindAuctionRequest) (*AddressResponse, error)
		FindVault(auction string) (*AddressResponse, error)
		FindDeposit(req *FindDepositRequest) (*AddressResponse, error)
		FindMetadata(mint string) (*AddressResponse, error)
		GetAuction(address string) (*GetAuctionResponse, error)
		GetAuctionsBySeller(seller string) ([]*GetAuctionResponse, error)
		GetDeposit(req *FindDepositRequest) (*GetDepositResponse, error)
		GetAuctionDeposits(auction string) ([]*GetDepositResponse, error)
		GetMetadata(mint string) (*ResolvedMetadata, bool)
		IsMetadataLoading(mint string) bool
		GetTransactionEvents(req *GetTransactionRequest) ([]Event, error)
		WatchAuction(req *WatchAuctionRequest) (*GetAuctionResponse, error)
		TrackAuction(address string) error
		GetTrackedAuction(address string) (*GetAuctionResponse, bool)
		UntrackAuction(address string) error
	}
)
