package sol

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/outcry-labs/go-outcry/sol/outcry"
	"github.com/outcry-labs/go-outcry/types"
)

var maxSupportedTransactionVersion uint64 = 0

// GetTransactionEvents returns the auction program events a landed
// transaction emitted. Failed transactions return ErrTransactionFailed,
// wrapping the program error when one can be identified.
func (s *Solana) GetTransactionEvents(req *types.GetTransactionRequest) ([]types.Event, error) {
	sig, err := solana.SignatureFromBase58(req.TxHash)
	if err != nil {
		return nil, fmt.Errorf("%w: signature %q", types.ErrInvalidAddress, req.TxHash)
	}

	commitment := s.commitment
	if commitment == rpc.CommitmentProcessed {
		commitment = rpc.CommitmentConfirmed
	}
	tx, err := s.client.GetTransaction(s.ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     commitment,
		MaxSupportedTransactionVersion: &maxSupportedTransactionVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, types.ErrTxNotLand
		}
		return nil, err
	}
	if tx == nil || tx.Meta == nil {
		return nil, types.ErrTxNotLand
	}

	if tx.Meta.Err != nil {
		if pe, ok := outcry.ParseProgramError(tx.Meta.LogMessages); ok {
			return nil, fmt.Errorf("%w: %w", types.ErrTransactionFailed, pe)
		}
		if pe, ok := outcry.ParseTransactionError(tx.Meta.Err); ok {
			return nil, fmt.Errorf("%w: %w", types.ErrTransactionFailed, pe)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrTransactionFailed, tx.Meta.Err)
	}

	return outcry.ParseEvents(tx.Meta.LogMessages, s.programID)
}
