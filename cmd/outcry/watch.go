package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type auctionSubscriber interface {
	SubscribeAuction(ctx context.Context, address string, fn func(*types.GetAuctionResponse)) error
}

const defaultWatchOnceTimeout = time.Minute

var (
	watchPoll    bool
	watchOnce    bool
	watchTimeout time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <auction>",
	Short: "Follow an auction as bids land",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchOnce {
			a, err := network.WatchAuction(&types.WatchAuctionRequest{
				Auction:  args[0],
				Duration: lo.If(watchTimeout > 0, watchTimeout).Else(defaultWatchOnceTimeout),
			})
			if err != nil {
				return err
			}
			printUpdate(a)
			return nil
		}

		ctx := cmd.Context()
		if watchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchTimeout)
			defer cancel()
		}

		var err error
		if watchPoll {
			err = pollAuction(ctx, args[0])
		} else {
			err = subscribeAuction(ctx, args[0])
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	},
}

func printUpdate(a *types.GetAuctionResponse) {
	show(a, func() {
		fmt.Printf("%s  %-9s bid=%s SOL bids=%d leader=%s remaining=%s\n",
			time.Now().Format(time.TimeOnly),
			a.Status,
			utils.AbbreviateDecimal(a.CurrentBid),
			a.BidCount,
			utils.ShortAddress(a.HighestBidder),
			a.Remaining.Truncate(time.Second),
		)
	})
}

func subscribeAuction(ctx context.Context, address string) error {
	sub, ok := network.(auctionSubscriber)
	if !ok {
		return types.ErrNotImplemented
	}
	return sub.SubscribeAuction(ctx, address, printUpdate)
}

func pollAuction(ctx context.Context, address string) error {
	if err := network.TrackAuction(address); err != nil {
		return err
	}
	defer func() { _ = network.UntrackAuction(address) }()
	if err := network.Start(); err != nil {
		return err
	}

	ticker := time.NewTicker(lo.If(cfg.WatchInterval > 0, cfg.WatchInterval).Else(5 * time.Second))
	defer ticker.Stop()

	var lastBids uint32
	first := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		a, ok := network.GetTrackedAuction(address)
		if !ok {
			continue
		}
		if first || a.BidCount != lastBids {
			printUpdate(a)
			first = false
			lastBids = a.BidCount
		}
	}
}

func init() {
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "Poll over JSON-RPC instead of subscribing over websocket")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Wait for the next change only")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Stop watching after this long")
	rootCmd.AddCommand(watchCmd)
}
