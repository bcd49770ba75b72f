package sol

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/utils"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultWatchInterval = 5 * time.Second

	// maxMultipleAccounts is the getMultipleAccounts key limit.
	maxMultipleAccounts = 100
)

type (
	watcherState uint8

	// TrackedAuction is the latest polled view of an auction.
	TrackedAuction struct {
		Vault         solana.PublicKey
		State         *outcry.AuctionState
		VaultLamports uint64
		VaultExists   bool
		Delegated     bool
		UpdatedAt     time.Time
	}

	// Watcher polls tracked auctions and keeps their latest decoded state.
	Watcher struct {
		reader    *auctionReader
		programID solana.PublicKey
		interval  time.Duration
		logger    *zap.Logger

		mu       sync.RWMutex
		auctions map[solana.PublicKey]*TrackedAuction

		ctx          context.Context
		cancel       context.CancelFunc
		subprocesses utils.Subprocesses

		stateMu sync.Mutex
		state   watcherState
	}
)

const (
	_ watcherState = iota
	watcherStatePending
	watcherStateOpen
	watcherStateClosed
)

func newWatcher(reader *auctionReader, programID solana.PublicKey, interval time.Duration, logger *zap.Logger) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		reader:    reader,
		programID: programID,
		interval:  lo.If(interval > 0, interval).Else(defaultWatchInterval),
		logger:    logger,
		auctions:  make(map[solana.PublicKey]*TrackedAuction),
		ctx:       ctx,
		cancel:    cancel,
		state:     watcherStatePending,
	}
}

func (w *Watcher) Start() error {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	if w.state != watcherStatePending {
		return errors.New("cannot Start() watcher that has already been started")
	}

	w.state = watcherStateOpen
	w.subprocesses.Go(func() {
		w.WatchAuctions(w.interval)
	})
	return nil
}

func (w *Watcher) Close() error {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	if w.state != watcherStateOpen {
		return errors.New("cannot Close() watcher that isn't open")
	}

	w.state = watcherStateClosed
	w.cancel()
	w.subprocesses.Wait()
	return nil
}

func (w *Watcher) Track(auction solana.PublicKey) error {
	vault, err := outcry.FindVault(w.programID, auction)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.auctions[auction]; !ok {
		w.auctions[auction] = &TrackedAuction{Vault: vault.Address}
	}
	return nil
}

func (w *Watcher) Untrack(auction solana.PublicKey) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.auctions, auction)
}

// Get returns the latest polled view of a tracked auction. It reports false
// until the first successful poll.
func (w *Watcher) Get(auction solana.PublicKey) (TrackedAuction, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.auctions[auction]
	if !ok || t.State == nil {
		return TrackedAuction{}, false
	}
	return *t, true
}

func (w *Watcher) WatchAuctions(interval time.Duration) {
	for {
		select {
		case <-time.After(interval):
		case <-w.ctx.Done():
			return
		}

		if err := w.Poll(w.ctx); err != nil {
			w.logger.Warn("poll auctions", zap.Error(err))
		}
	}
}

// Poll refreshes every tracked auction. Delegated auctions are read from the
// ephemeral rollup. Auctions whose account has been closed stop being
// tracked.
func (w *Watcher) Poll(ctx context.Context) error {
	w.mu.RLock()
	auctions := lo.Keys(w.auctions)
	vaults := make(map[solana.PublicKey]solana.PublicKey, len(auctions))
	for _, a := range auctions {
		vaults[a] = w.auctions[a].Vault
	}
	w.mu.RUnlock()

	for _, chunk := range lo.Chunk(auctions, maxMultipleAccounts/2) {
		keys := make([]solana.PublicKey, 0, 2*len(chunk))
		for _, a := range chunk {
			keys = append(keys, a, vaults[a])
		}

		accounts, err := w.reader.client.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{Commitment: w.reader.commitment})
		if err != nil {
			return err
		}
		if len(accounts.Value) != len(keys) {
			return errors.New("getMultipleAccounts returned a short result")
		}

		states := make([]*rpc.Account, len(chunk))
		for i := range chunk {
			states[i] = accounts.Value[2*i]
		}
		delegated := w.reader.resolveDelegated(ctx, chunk, states)

		now := time.Now()
		w.mu.Lock()
		for i, a := range chunk {
			t, ok := w.auctions[a]
			if !ok {
				continue
			}
			account := states[i]
			if account == nil {
				w.logger.Info("auction closed", zap.Stringer("auction", a))
				delete(w.auctions, a)
				continue
			}
			state, err := outcry.DecodeAuctionState(account.Data.GetBinary())
			if err != nil {
				w.logger.Warn("decode auction", zap.Stringer("auction", a), zap.Error(err))
				continue
			}
			t.State = state
			t.Delegated = delegated[i]
			t.VaultLamports, t.VaultExists = w.reader.vaultLamports(a, accounts.Value[2*i+1])
			t.UpdatedAt = now
		}
		w.mu.Unlock()
	}
	return nil
}
