package main

import (
	"fmt"
	"strings"

	"github.com/outcry-labs/go-outcry/types"
	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <mint>",
	Short: "Resolve the Metaplex metadata of a mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, ok := network.GetMetadata(args[0])
		if !ok {
			return fmt.Errorf("%w: metadata for %s", types.ErrNotFound, args[0])
		}
		show(meta, func() { printMetadata(meta) })
		return nil
	},
}

func printMetadata(meta *types.ResolvedMetadata) {
	row("Mint", meta.Mint)
	row("Metadata", meta.MetadataAddress)
	row("Name", meta.Name)
	if meta.OnChainName != meta.Name {
		row("On-chain name", meta.OnChainName)
	}
	row("Symbol", meta.Symbol)
	row("URI", meta.URI)
	row("Royalty", fmt.Sprintf("%.2f%%", float64(meta.SellerFeeBasisPoints)/100))
	for _, c := range meta.Creators {
		row("Creator", fmt.Sprintf("%s %d%% verified=%t", c.Address, c.Share, c.Verified))
	}
	row("Primary sale", meta.PrimarySaleHappened)
	row("Mutable", meta.IsMutable)
	if !meta.HasOffchain {
		row("Off-chain", "unavailable")
		return
	}
	if meta.Image != "" {
		row("Image", meta.Image)
	}
	if meta.Description != "" {
		row("Description", meta.Description)
	}
	if meta.ExternalURL != "" {
		row("External URL", meta.ExternalURL)
	}
	if meta.AnimationURL != "" {
		row("Animation URL", meta.AnimationURL)
	}
	attrs := make([]string, 0, len(meta.Attributes))
	for _, a := range meta.Attributes {
		attrs = append(attrs, a.TraitType+"="+a.Value)
	}
	if len(attrs) > 0 {
		row("Attributes", strings.Join(attrs, ", "))
	}
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}
