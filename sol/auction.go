package sol

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func (s *Solana) GetAuction(address string) (*types.GetAuctionResponse, error) {
	auction, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	vault, err := outcry.FindVault(s.programID, auction)
	if err != nil {
		return nil, err
	}

	account, vaultAccount, delegated, err := s.auctions.readAuction(s.ctx, auction, vault.Address)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: auction %s", types.ErrAccountNotFound, address)
	}

	state, err := outcry.DecodeAuctionState(account.Data.GetBinary())
	if err != nil {
		return nil, err
	}

	vaultLamports, vaultExists := s.auctions.vaultLamports(auction, vaultAccount)
	resp := describeAuction(auction, vault.Address, state, vaultLamports)
	resp.VaultExists = vaultExists
	resp.Delegated = delegated
	s.attachMetadata(resp, state)
	return resp, nil
}

// sellerAuctions lists the auction accounts of seller owned by owner.
func (s *Solana) sellerAuctions(owner, seller solana.PublicKey) (rpc.GetProgramAccountsResult, error) {
	disc := outcry.AuctionStateDiscriminator
	return s.client.GetProgramAccountsWithOpts(
		s.ctx,
		owner,
		&rpc.GetProgramAccountsOpts{
			Commitment: s.commitment,
			Filters: []rpc.RPCFilter{
				{DataSize: outcry.AuctionStateSize},
				{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(disc[:])}},
				{Memcmp: &rpc.RPCFilterMemcmp{Offset: outcry.SellerOffset, Bytes: solana.Base58(seller.Bytes())}},
			},
		},
	)
}

// GetAuctionsBySeller lists a seller's auctions, newest first. Auctions
// delegated to the ephemeral rollup are owned by the delegation program on
// L1 and are read from the rollup.
func (s *Solana) GetAuctionsBySeller(seller string) ([]*types.GetAuctionResponse, error) {
	sellerKey, err := parseAddress(seller)
	if err != nil {
		return nil, err
	}

	owned, err := s.sellerAuctions(s.programID, sellerKey)
	if err != nil {
		return nil, err
	}
	delegated, err := s.sellerAuctions(s.auctions.delegationProgramID, sellerKey)
	if err != nil {
		return nil, err
	}

	keyed := lo.Filter(append(owned, delegated...), func(k *rpc.KeyedAccount, _ int) bool {
		return k != nil && k.Account != nil
	})
	keys := lo.Map(keyed, func(k *rpc.KeyedAccount, _ int) solana.PublicKey { return k.Pubkey })
	accounts := lo.Map(keyed, func(k *rpc.KeyedAccount, _ int) *rpc.Account { return k.Account })
	flags := s.auctions.resolveDelegated(s.ctx, keys, accounts)

	type listed struct {
		resp    *types.GetAuctionResponse
		state   *outcry.AuctionState
		auction solana.PublicKey
		vault   solana.PublicKey
	}
	var items []listed
	for i, account := range accounts {
		state, err := outcry.DecodeAuctionState(account.Data.GetBinary())
		if err != nil {
			s.logger.Warn("skip undecodable auction", zap.Stringer("address", keys[i]), zap.Error(err))
			continue
		}
		vault, err := outcry.FindVault(s.programID, keys[i])
		if err != nil {
			return nil, err
		}
		resp := describeAuction(keys[i], vault.Address, state, 0)
		resp.Delegated = flags[i]
		items = append(items, listed{resp: resp, state: state, auction: keys[i], vault: vault.Address})
	}

	for _, chunk := range lo.Chunk(items, maxMultipleAccounts) {
		vaults, err := s.client.GetMultipleAccountsWithOpts(
			s.ctx,
			lo.Map(chunk, func(it listed, _ int) solana.PublicKey { return it.vault }),
			&rpc.GetMultipleAccountsOpts{Commitment: s.commitment},
		)
		if err != nil {
			return nil, err
		}
		if len(vaults.Value) != len(chunk) {
			return nil, errors.New("getMultipleAccounts returned a short result")
		}
		for i, it := range chunk {
			lamports, ok := s.auctions.vaultLamports(it.auction, vaults.Value[i])
			it.resp.VaultBalance = utils.LamportsToSol(lamports)
			it.resp.VaultExists = ok
		}
	}

	ctx, cancel := context.WithTimeout(s.ctx, metadataWait)
	defer cancel()
	mints := lo.Uniq(lo.Map(items, func(it listed, _ int) solana.PublicKey {
		return it.state.NftMint
	}))
	resolved := s.resolver.ResolveMany(ctx, mints)
	auctions := make([]*types.GetAuctionResponse, 0, len(items))
	for _, it := range items {
		if meta, ok := resolved[it.resp.NftMint]; ok {
			setMetadata(it.resp, it.state, meta)
		} else {
			it.resp.MetadataLoading = s.resolver.Loading(it.state.NftMint)
		}
		auctions = append(auctions, it.resp)
	}

	sort.Slice(auctions, func(i, j int) bool {
		return auctions[i].StartTime.After(auctions[j].StartTime)
	})
	return auctions, nil
}

func (s *Solana) GetDeposit(req *types.FindDepositRequest) (*types.GetDepositResponse, error) {
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

	resp := &types.GetDepositResponse{
		Address: p.Address.String(),
		Auction: auction.String(),
		Bidder:  bidder.String(),
		Amount:  utils.LamportsToSol(0),
	}
	data, err := s.ReadAccount(s.ctx, p.Address)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return resp, nil
	}

	deposit, err := outcry.DecodeBidderDeposit(data)
	if err != nil {
		return nil, err
	}
	resp.Amount = utils.LamportsToSol(deposit.Amount)
	resp.Exists = true
	return resp, nil
}

// GetAuctionDeposits lists every bidder deposit of an auction, largest
// first. The program caps an auction at outcry.MaxBidders depositors.
func (s *Solana) GetAuctionDeposits(address string) ([]*types.GetDepositResponse, error) {
	auction, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	disc := outcry.BidderDepositDiscriminator
	accounts, err := s.client.GetProgramAccountsWithOpts(
		s.ctx,
		s.programID,
		&rpc.GetProgramAccountsOpts{
			Commitment: s.commitment,
			Filters: []rpc.RPCFilter{
				{DataSize: outcry.BidderDepositSize},
				{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(disc[:])}},
				{Memcmp: &rpc.RPCFilterMemcmp{Offset: outcry.DepositAuctionOffset, Bytes: solana.Base58(auction.Bytes())}},
			},
		},
	)
	if err != nil {
		return nil, err
	}

	deposits := make([]*types.GetDepositResponse, 0, len(accounts))
	for _, keyed := range accounts {
		if keyed == nil || keyed.Account == nil {
			continue
		}
		deposit, err := outcry.DecodeBidderDeposit(keyed.Account.Data.GetBinary())
		if err != nil {
			s.logger.Warn("skip undecodable deposit", zap.Stringer("address", keyed.Pubkey), zap.Error(err))
			continue
		}
		deposits = append(deposits, &types.GetDepositResponse{
			Address: keyed.Pubkey.String(),
			Auction: deposit.Auction.String(),
			Bidder:  deposit.Bidder.String(),
			Amount:  utils.LamportsToSol(deposit.Amount),
			Exists:  true,
		})
	}
	if len(deposits) > outcry.MaxBidders {
		s.logger.Warn("auction has more depositors than the program allows",
			zap.String("auction", address), zap.Int("depositors", len(deposits)))
	}

	sort.Slice(deposits, func(i, j int) bool {
		return deposits[i].Amount.GreaterThan(deposits[j].Amount)
	})
	return deposits, nil
}

func describeAuction(address, vault solana.PublicKey, state *outcry.AuctionState, vaultLamports uint64) *types.GetAuctionResponse {
	now := time.Now()

	return &types.GetAuctionResponse{
		Address:       address.String(),
		Seller:        state.Seller.String(),
		NftMint:       state.NftMint.String(),
		Status:        state.Status(),
		ReservePrice:  utils.LamportsToSol(state.ReservePrice),
		CurrentBid:    utils.LamportsToSol(state.CurrentBid),
		MinNextBid:    utils.LamportsToSol(state.MinNextBid()),
		HighestBidder: lo.If(state.HasBids(), state.HighestBidder.String()).Else(""),
		BidCount:      state.BidCount,
		StartTime:     state.Start(),
		EndTime:       state.End(),
		Remaining:     state.Remaining(now),
		Vault:         vault.String(),
		VaultBalance:  utils.LamportsToSol(vaultLamports),
	}
}

// attachMetadata waits briefly for the auctioned mint's metadata. A slow
// resolution keeps running in the background and is reported as loading.
func (s *Solana) attachMetadata(resp *types.GetAuctionResponse, state *outcry.AuctionState) {
	ctx, cancel := context.WithTimeout(s.ctx, metadataWait)
	defer cancel()

	if meta, ok := s.resolver.Resolve(ctx, state.NftMint); ok {
		setMetadata(resp, state, meta)
		return
	}
	resp.MetadataLoading = s.resolver.Loading(state.NftMint)
}

func setMetadata(resp *types.GetAuctionResponse, state *outcry.AuctionState, meta *types.ResolvedMetadata) {
	resp.Metadata = meta
	if !state.HasBids() {
		return
	}
	est := outcry.EstimateSettlement(state.CurrentBid, meta.SellerFeeBasisPoints, meta.Creators)
	resp.Settlement = &types.SettlementEstimate{
		FinalPrice:     utils.LamportsToSol(est.FinalPrice),
		ProtocolFee:    utils.LamportsToSol(est.ProtocolFee),
		Royalties:      utils.LamportsToSol(est.Royalties),
		SellerReceives: utils.LamportsToSol(est.SellerReceives),
	}
}

// TrackAuction adds an auction to the set the watcher polls.
func (s *Solana) TrackAuction(address string) error {
	auction, err := parseAddress(address)
	if err != nil {
		return err
	}
	return s.watcher.Track(auction)
}

func (s *Solana) GetTrackedAuction(address string) (*types.GetAuctionResponse, bool) {
	auction, err := parseAddress(address)
	if err != nil {
		return nil, false
	}
	t, ok := s.watcher.Get(auction)
	if !ok {
		return nil, false
	}
	resp := describeAuction(auction, t.Vault, t.State, t.VaultLamports)
	resp.VaultExists = t.VaultExists
	resp.Delegated = t.Delegated
	if meta, ok := s.cache.Get(s.ctx, t.State.NftMint.String()); ok {
		setMetadata(resp, t.State, meta)
	} else {
		resp.MetadataLoading = s.resolver.Loading(t.State.NftMint)
	}
	return resp, true
}

// UntrackAuction stops polling an auction.
func (s *Solana) UntrackAuction(address string) error {
	auction, err := parseAddress(address)
	if err != nil {
		return err
	}
	s.watcher.Untrack(auction)
	return nil
}
