package main

import (
	"fmt"

	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <signature>",
	Short: "Decode the auction events of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := network.GetTransactionEvents(&types.GetTransactionRequest{TxHash: args[0]})
		if err != nil {
			if pe, ok := outcry.AsProgramError(err); ok {
				return fmt.Errorf("transaction failed: %s", pe.Msg)
			}
			return err
		}
		show(events, func() {
			if len(events) == 0 {
				fmt.Println("no auction events")
			}
			for _, e := range events {
				fmt.Printf("%s %+v\n", e.EventName(), e)
			}
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
