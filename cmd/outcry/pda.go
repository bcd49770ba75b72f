package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/outcry-labs/go-outcry/sol/pda"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/spf13/cobra"
)

var pdaCmd = &cobra.Command{
	Use:   "pda",
	Short: "Derive program addresses",
}

var pdaAuctionCmd = &cobra.Command{
	Use:   "auction <seller> <mint>",
	Short: "Derive the auction state address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := network.FindAuction(&types.FindAuctionRequest{Seller: args[0], Mint: args[1]})
		if err != nil {
			return err
		}
		printAddress(resp)
		return nil
	},
}

var pdaVaultCmd = &cobra.Command{
	Use:   "vault <auction>",
	Short: "Derive the deposit vault of an auction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := network.FindVault(args[0])
		if err != nil {
			return err
		}
		printAddress(resp)
		return nil
	},
}

var pdaDepositCmd = &cobra.Command{
	Use:   "deposit <auction> <bidder>",
	Short: "Derive a bidder deposit address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := network.FindDeposit(&types.FindDepositRequest{Auction: args[0], Bidder: args[1]})
		if err != nil {
			return err
		}
		printAddress(resp)
		return nil
	},
}

var pdaMetadataCmd = &cobra.Command{
	Use:   "metadata <mint>",
	Short: "Derive the Metaplex metadata address of a mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := network.FindMetadata(args[0])
		if err != nil {
			return err
		}
		printAddress(resp)
		return nil
	},
}

var pdaDeriveCmd = &cobra.Command{
	Use:   "derive <program> <seed>...",
	Short: "Derive an address from arbitrary seeds",
	Long: `Derive a program address from arbitrary seeds. Each seed is prefixed with
its encoding: str:auction, b58:<public key>, hex:0a0b. Seeds without a
prefix are taken as strings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		programID, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return fmt.Errorf("%w: program %q", types.ErrInvalidAddress, args[0])
		}
		seeds := make([][]byte, 0, len(args)-1)
		for _, arg := range args[1:] {
			seed, err := parseSeed(arg)
			if err != nil {
				return err
			}
			seeds = append(seeds, seed)
		}

		p, err := pda.FindProgramAddress(seeds, programID)
		if err != nil {
			return err
		}
		printAddress(&types.AddressResponse{Address: p.Address.String(), Bump: p.Bump})
		return nil
	},
}

func parseSeed(arg string) ([]byte, error) {
	prefix, value, ok := strings.Cut(arg, ":")
	if !ok {
		return []byte(arg), nil
	}
	switch prefix {
	case "str":
		return []byte(value), nil
	case "b58":
		b, err := base58.Decode(value)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", arg, err)
		}
		return b, nil
	case "hex":
		b, err := hex.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", arg, err)
		}
		return b, nil
	}
	return []byte(arg), nil
}

func printAddress(resp *types.AddressResponse) {
	show(resp, func() {
		row("Address", resp.Address)
		row("Bump", resp.Bump)
	})
}

func init() {
	pdaCmd.AddCommand(pdaAuctionCmd, pdaVaultCmd, pdaDepositCmd, pdaMetadataCmd, pdaDeriveCmd)
	rootCmd.AddCommand(pdaCmd)
}
