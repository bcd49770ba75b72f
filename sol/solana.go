package sol

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/outcry-labs/go-outcry/sol/metadata"
	"github.com/outcry-labs/go-outcry/sol/metaplex"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// metadataWait bounds how long auction queries wait for metadata before
// reporting it as loading.
const metadataWait = 2 * time.Second

var addressRegexp = regexp.MustCompile("^[1-9A-HJ-NP-Za-km-z]{32,44}$")

type Solana struct {
	ctx               context.Context
	cfg               *types.Config
	logger            *zap.Logger
	client            *rpc.Client
	commitment        rpc.CommitmentType
	programID         solana.PublicKey
	metadataProgramID solana.PublicKey
	auctions          *auctionReader
	watcher           *Watcher
	cache             *metadata.Cache
	resolver          *metadata.Resolver

	// ws serves L1 subscriptions; ephemeralWS, when configured, serves
	// auctions delegated to the rollup.
	ws          *wsConn
	ephemeralWS *wsConn
}

var (
	_ types.NetworkInterface = (*Solana)(nil)
	_ types.AccountReader    = (*Solana)(nil)
)

func NewSolana(
	ctx context.Context,
	cfg *types.Config,
	logger *zap.Logger,
) (*Solana, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	programID, err := parseProgramID(cfg.ProgramID, outcry.ProgramID)
	if err != nil {
		return nil, err
	}
	metadataProgramID, err := parseProgramID(cfg.MetadataProgramID, metaplex.ProgramID)
	if err != nil {
		return nil, err
	}
	delegationProgramID, err := parseProgramID(cfg.DelegationProgramID, outcry.DelegationProgramID)
	if err != nil {
		return nil, err
	}

	cache, err := metadata.NewCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	client := rpc.New(cfg.RPC)
	commitment := rpc.CommitmentType(lo.If(cfg.Commitment != "", cfg.Commitment).Else(types.CommitmentConfirmed))

	auctions := &auctionReader{
		client:              client,
		delegationProgramID: delegationProgramID,
		commitment:          commitment,
		logger:              logger,
	}
	if cfg.EphemeralRPC != "" {
		auctions.ephemeral = rpc.New(cfg.EphemeralRPC)
	}

	s := &Solana{
		ctx:               ctx,
		cfg:               cfg,
		logger:            logger,
		client:            client,
		commitment:        commitment,
		programID:         programID,
		metadataProgramID: metadataProgramID,
		auctions:          auctions,
		watcher:           newWatcher(auctions, programID, cfg.WatchInterval, logger),
		cache:             cache,
		ws:                &wsConn{url: cfg.WSRPC},
	}
	if cfg.EphemeralWSRPC != "" {
		s.ephemeralWS = &wsConn{url: cfg.EphemeralWSRPC}
	}

	fetcher := metadata.NewHTTPFetcher(
		metadata.WithTimeout(cfg.HTTPTimeout),
		metadata.WithMaxDocumentSize(cfg.MaxDocumentSize),
		metadata.WithGateways(cfg.IPFSGateway, cfg.ArweaveGateway),
	)
	s.resolver = metadata.NewResolver(s, fetcher, cache,
		metadata.WithLogger(logger.Named("metadata")),
		metadata.WithMetadataProgram(metadataProgramID),
	)
	return s, nil
}

func parseProgramID(text string, def solana.PublicKey) (solana.PublicKey, error) {
	if text == "" {
		return def, nil
	}
	pk, err := solana.PublicKeyFromBase58(text)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: program id %q", types.ErrInvalidAddress, text)
	}
	return pk, nil
}

func (s *Solana) Start() error {
	return s.watcher.Start()
}

func (s *Solana) Close() error {
	err := s.watcher.Close()

	s.ws.close()
	if s.ephemeralWS != nil {
		s.ephemeralWS.close()
	}

	s.cache.Close()
	return err
}

func (s *Solana) GetType() int {
	return types.NetworkTypeSol
}

func (s *Solana) GetTypeSymbol() string {
	return "SOL"
}

func (s *Solana) CheckAddress(text string) bool {
	if !addressRegexp.MatchString(text) {
		return false
	}
	_, err := solana.PublicKeyFromBase58(text)
	return err == nil
}

func parseAddress(text string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(text)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q", types.ErrInvalidAddress, text)
	}
	return pk, nil
}

// ReadAccount returns the data of address, or nil when the account does not
// exist.
func (s *Solana) ReadAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	account, err := s.accountInfo(ctx, address)
	if err != nil || account == nil {
		return nil, err
	}
	return account.Data.GetBinary(), nil
}

func (s *Solana) accountInfo(ctx context.Context, address solana.PublicKey) (*rpc.Account, error) {
	account, err := s.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{Commitment: s.commitment})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return account.Value, nil
}

func (s *Solana) FindAuction(req *types.FindAuctionRequest) (*types.AddressResponse, error) {
	seller, err := parseAddress(req.Seller)
	if err != nil {
		return nil, err
	}
	mint, err := parseAddress(req.Mint)
	if err != nil {
		return nil, err
	}
	p, err := outcry.FindAuction(s.programID, seller, mint)
	if err != nil {
		return nil, err
	}
	return &types.AddressResponse{Address: p.Address.String(), Bump: p.Bump}, nil
}

func (s *Solana) FindVault(auction string) (*types.AddressResponse, error) {
	auctionKey, err := parseAddress(auction)
	if err != nil {
		return nil, err
	}
	p, err := outcry.FindVault(s.programID, auctionKey)
	if err != nil {
		return nil, err
	}
	return &types.AddressResponse{Address: p.Address.String(), Bump: p.Bump}, nil
}

func (s *Solana) FindDeposit(req *types.FindDepositRequest) (*types.AddressResponse, error) {
	auction, err := parseAddress(req.Auction)
	if err != nil {
		return nil, err
	}
	bidder, err := parseAddress(req.Bidder)
	if err != nil {
		return nil, err
	}
	p, err := outcry.FindDeposit(s.programID, auction, bidder)
	if err != nil {
		return nil, err
	}
	return &types.AddressResponse{Address: p.Address.String(), Bump: p.Bump}, nil
}

func (s *Solana) FindMetadata(mint string) (*types.AddressResponse, error) {
	mintKey, err := parseAddress(mint)
	if err != nil {
		return nil, err
	}
	p, err := metaplex.FindMetadata(s.metadataProgramID, mintKey)
	if err != nil {
		return nil, err
	}
	return &types.AddressResponse{Address: p.Address.String(), Bump: p.Bump}, nil
}

func (s *Solana) GetMetadata(mint string) (*types.ResolvedMetadata, bool) {
	mintKey, err := parseAddress(mint)
	if err != nil {
		return nil, false
	}
	return s.resolver.Resolve(s.ctx, mintKey)
}

func (s *Solana) IsMetadataLoading(mint string) bool {
	mintKey, err := parseAddress(mint)
	if err != nil {
		return false
	}
	return s.resolver.Loading(mintKey)
}
