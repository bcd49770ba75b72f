package sol

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"go.uber.org/zap"
)

const reconnectDelay = time.Second

// wsConn is a lazily dialed websocket connection to one endpoint.
type wsConn struct {
	url string

	mu     sync.Mutex
	client *ws.Client
}

func (c *wsConn) get(ctx context.Context) (*ws.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	client, err := ws.Connect(ctx, c.url)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}

func (c *wsConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// WsReconnect drops the current websocket connection and dials a new one,
// retrying until ctx is done.
func (s *Solana) WsReconnect(ctx context.Context) (*ws.Client, error) {
	return s.reconnect(ctx, s.ws)
}

func (s *Solana) reconnect(ctx context.Context, conn *wsConn) (*ws.Client, error) {
	conn.close()
	for {
		client, err := conn.get(ctx)
		if err == nil {
			return client, nil
		}
		s.logger.Warn("websocket reconnect", zap.String("endpoint", conn.url), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Solana) subscribeAccount(ctx context.Context, conn *wsConn, address solana.PublicKey) (*ws.AccountSubscription, error) {
	client, err := conn.get(ctx)
	if err != nil {
		client, err = s.reconnect(ctx, conn)
		if err != nil {
			return nil, err
		}
	}
	sub, err := client.AccountSubscribe(address, s.commitment)
	for err != nil {
		if client, err = s.reconnect(ctx, conn); err != nil {
			return nil, err
		}
		sub, err = client.AccountSubscribe(address, s.commitment)
	}
	return sub, nil
}

// auctionConn picks the connection that sees bids on auction: the rollup
// while the auction is delegated, L1 otherwise.
func (s *Solana) auctionConn(ctx context.Context, auction solana.PublicKey) (*wsConn, bool) {
	if s.ephemeralWS == nil {
		return s.ws, false
	}
	account, err := s.accountInfo(ctx, auction)
	if err != nil {
		s.logger.Warn("check auction delegation", zap.Stringer("auction", auction), zap.Error(err))
		return s.ws, false
	}
	if s.auctions.delegated(account) {
		return s.ephemeralWS, true
	}
	return s.ws, false
}

// WatchAuction waits up to req.Duration for the next change to an auction
// account and returns its new state.
func (s *Solana) WatchAuction(req *types.WatchAuctionRequest) (*types.GetAuctionResponse, error) {
	auction, err := parseAddress(req.Auction)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(s.ctx, req.Duration)
	defer cancel()

	conn, onRollup := s.auctionConn(ctx, auction)
	sub, err := s.subscribeAccount(ctx, conn, auction)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	result, err := sub.Recv(ctx)
	if err != nil {
		return nil, err
	}
	return s.describeNotification(ctx, auction, result, onRollup)
}

// SubscribeAuction calls fn with every change to an auction account until
// ctx is done. Dropped connections are re-established. The subscription
// follows the auction onto the rollup when it is delegated and back to L1
// once bidding there has stopped.
func (s *Solana) SubscribeAuction(ctx context.Context, address string, fn func(*types.GetAuctionResponse)) error {
	auction, err := parseAddress(address)
	if err != nil {
		return err
	}

	settled := false
	for {
		conn, onRollup := s.ws, false
		if !settled {
			conn, onRollup = s.auctionConn(ctx, auction)
		}
		sub, err := s.subscribeAccount(ctx, conn, auction)
		if err != nil {
			return err
		}

		for {
			result, err := sub.Recv(ctx)
			if err != nil {
				sub.Unsubscribe()
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("auction subscription dropped", zap.String("auction", address), zap.Error(err))
				if _, err := s.reconnect(ctx, conn); err != nil {
					return err
				}
				break
			}

			resp, err := s.describeNotification(ctx, auction, result, onRollup)
			if err != nil {
				s.logger.Warn("skip auction notification", zap.String("auction", address), zap.Error(err))
				continue
			}
			fn(resp)

			if onRollup && resp.Status != types.AuctionActive {
				settled = true
			} else if onRollup || s.ephemeralWS == nil || !resp.Delegated {
				continue
			}
			sub.Unsubscribe()
			break
		}
	}
}

func (s *Solana) describeNotification(ctx context.Context, auction solana.PublicKey, result *ws.AccountResult, onRollup bool) (*types.GetAuctionResponse, error) {
	accounts := []*rpc.Account{&result.Value.Account}
	delegated := onRollup || s.auctions.resolveDelegated(ctx, []solana.PublicKey{auction}, accounts)[0]

	state, err := outcry.DecodeAuctionState(accounts[0].Data.GetBinary())
	if err != nil {
		return nil, err
	}
	vault, err := outcry.FindVault(s.programID, auction)
	if err != nil {
		return nil, err
	}
	vaultAccount, err := s.accountInfo(ctx, vault.Address)
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
