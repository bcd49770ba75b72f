package main

import (
	"fmt"
	"time"

	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var auctionCmd = &cobra.Command{
	Use:   "auction",
	Short: "Read auction accounts",
}

var auctionShowCmd = &cobra.Command{
	Use:   "show <auction>",
	Short: "Show an auction with its vault balance and lot metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := network.GetAuction(args[0])
		if err != nil {
			return err
		}
		show(a, func() { printAuction(a) })
		if showBid == "" {
			return nil
		}

		bid, err := decimal.NewFromString(showBid)
		if err != nil {
			return fmt.Errorf("bid %q: %w", showBid, err)
		}
		if utils.SolToLamports(bid) < utils.SolToLamports(a.MinNextBid) {
			fmt.Printf("a bid of %s SOL is below the minimum of %s SOL\n", bid, utils.AbbreviateDecimal(a.MinNextBid))
		} else {
			fmt.Printf("a bid of %s SOL meets the minimum\n", bid)
		}
		return nil
	},
}

var auctionListCmd = &cobra.Command{
	Use:   "list <seller>",
	Short: "List the auctions of a seller, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auctions, err := network.GetAuctionsBySeller(args[0])
		if err != nil {
			return err
		}
		show(auctions, func() {
			fmt.Printf("%-12s %-10s %-12s %-6s %-20s %s\n", "AUCTION", "STATUS", "BID (SOL)", "BIDS", "ENDS", "LOT")
			for _, a := range auctions {
				fmt.Printf("%-12s %-10s %-12s %-6d %-20s %s\n",
					utils.ShortAddress(a.Address),
					a.Status,
					utils.AbbreviateDecimal(lo.If(a.BidCount > 0, a.CurrentBid).Else(a.ReservePrice)),
					a.BidCount,
					a.EndTime.Local().Format(time.DateTime),
					lotName(a),
				)
			}
		})
		return nil
	},
}

var auctionDepositCmd = &cobra.Command{
	Use:   "deposit <auction> <bidder>",
	Short: "Show a bidder's deposit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := network.GetDeposit(&types.FindDepositRequest{Auction: args[0], Bidder: args[1]})
		if err != nil {
			return err
		}
		show(d, func() {
			row("Deposit", d.Address)
			row("Auction", d.Auction)
			row("Bidder", d.Bidder)
			row("Amount (SOL)", lo.If(d.Exists, utils.AbbreviateDecimal(d.Amount)).Else("none"))
		})
		return nil
	},
}

var auctionDepositsCmd = &cobra.Command{
	Use:   "deposits <auction>",
	Short: "List every bidder deposit of an auction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deposits, err := network.GetAuctionDeposits(args[0])
		if err != nil {
			return err
		}
		show(deposits, func() {
			fmt.Printf("%-44s %s\n", "BIDDER", "DEPOSIT (SOL)")
			for _, d := range deposits {
				fmt.Printf("%-44s %s\n", d.Bidder, utils.AbbreviateDecimal(d.Amount))
			}
			fmt.Printf("%d of %d depositor slots used\n", len(deposits), outcry.MaxBidders)
		})
		return nil
	},
}

func lotName(a *types.GetAuctionResponse) string {
	switch {
	case a.Metadata != nil:
		return a.Metadata.Name
	case a.MetadataLoading:
		return "(loading)"
	}
	return utils.ShortAddress(a.NftMint)
}

func printAuction(a *types.GetAuctionResponse) {
	row("Auction", a.Address)
	row("Status", a.Status)
	row("Seller", a.Seller)
	row("Mint", a.NftMint)
	row("Lot", lotName(a))
	row("Reserve (SOL)", utils.AbbreviateDecimal(a.ReservePrice))
	row("Current (SOL)", utils.AbbreviateDecimal(a.CurrentBid))
	row("Min next (SOL)", utils.AbbreviateDecimal(a.MinNextBid))
	row("Bids", a.BidCount)
	if a.HighestBidder != "" {
		row("Leader", a.HighestBidder)
	}
	if a.StartTime.Unix() > 0 {
		row("Started", a.StartTime.Local().Format(time.DateTime))
		row("Ends", a.EndTime.Local().Format(time.DateTime))
	}
	if a.Remaining > 0 {
		row("Remaining", a.Remaining.Truncate(time.Second))
	}
	row("Vault", lo.If(a.VaultExists, a.Vault).Else(a.Vault+" (closed)"))
	row("Vault (SOL)", utils.AbbreviateDecimal(a.VaultBalance))
	if a.Delegated {
		row("Bidding on", "ephemeral rollup")
	}
	if st := a.Settlement; st != nil {
		row("Royalties (est)", utils.AbbreviateDecimal(st.Royalties))
		row("Protocol fee", utils.AbbreviateDecimal(st.ProtocolFee))
		row("Seller gets", utils.AbbreviateDecimal(st.SellerReceives))
	}
}

var showBid string

func init() {
	auctionShowCmd.Flags().StringVar(&showBid, "bid", "", "Check whether a bid in SOL would meet the minimum")
	auctionCmd.AddCommand(auctionShowCmd, auctionListCmd, auctionDepositCmd, auctionDepositsCmd)
	rootCmd.AddCommand(auctionCmd)
}
