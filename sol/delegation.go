package sol

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// auctionReader reads auction accounts from L1 and follows delegated ones to
// the ephemeral rollup, where bids land while the auction is live.
type auctionReader struct {
	client              *rpc.Client
	ephemeral           *rpc.Client
	delegationProgramID solana.PublicKey
	commitment          rpc.CommitmentType
	logger              *zap.Logger
}

func (r *auctionReader) delegated(account *rpc.Account) bool {
	return account != nil && account.Owner.Equals(r.delegationProgramID)
}

// resolveDelegated swaps delegated L1 accounts for their rollup copy in
// place and reports which accounts were delegated. Without a rollup client,
// or when the rollup cannot be read, the last committed L1 data is kept.
func (r *auctionReader) resolveDelegated(ctx context.Context, keys []solana.PublicKey, accounts []*rpc.Account) []bool {
	flags := make([]bool, len(accounts))
	var pending []int
	for i, account := range accounts {
		if r.delegated(account) {
			flags[i] = true
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 || r.ephemeral == nil {
		return flags
	}

	for _, chunk := range lo.Chunk(pending, maxMultipleAccounts) {
		chunkKeys := lo.Map(chunk, func(i int, _ int) solana.PublicKey { return keys[i] })
		live, err := r.ephemeral.GetMultipleAccountsWithOpts(ctx, chunkKeys, &rpc.GetMultipleAccountsOpts{Commitment: r.commitment})
		if err != nil || len(live.Value) != len(chunkKeys) {
			r.logger.Warn("ephemeral rollup read failed, using committed state",
				zap.Int("auctions", len(chunkKeys)), zap.Error(err))
			continue
		}
		for j, i := range chunk {
			if account := live.Value[j]; account != nil {
				accounts[i] = account
			}
		}
	}
	return flags
}

// readAuction fetches one auction and its vault from L1, following the
// auction to the rollup when it is delegated.
func (r *auctionReader) readAuction(ctx context.Context, auction, vault solana.PublicKey) (*rpc.Account, *rpc.Account, bool, error) {
	accounts, err := r.client.GetMultipleAccountsWithOpts(
		ctx,
		[]solana.PublicKey{auction, vault},
		&rpc.GetMultipleAccountsOpts{Commitment: r.commitment},
	)
	if err != nil {
		return nil, nil, false, err
	}
	if len(accounts.Value) != 2 || accounts.Value[0] == nil {
		return nil, nil, false, nil
	}

	auctions := accounts.Value[:1]
	delegated := r.resolveDelegated(ctx, []solana.PublicKey{auction}, auctions)
	return auctions[0], accounts.Value[1], delegated[0], nil
}

// vaultLamports returns the balance of a vault account. It reports false when
// the account is missing or is not the vault record of auction.
func (r *auctionReader) vaultLamports(auction solana.PublicKey, account *rpc.Account) (uint64, bool) {
	if account == nil {
		return 0, false
	}
	vault, err := outcry.DecodeAuctionVault(account.Data.GetBinary())
	if err != nil {
		r.logger.Warn("decode auction vault", zap.Stringer("auction", auction), zap.Error(err))
		return 0, false
	}
	if !vault.Auction.Equals(auction) {
		r.logger.Warn("vault belongs to another auction",
			zap.Stringer("auction", auction), zap.Stringer("owner", vault.Auction))
		return 0, false
	}
	return account.Lamports, true
}
