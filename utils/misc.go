package utils

import (
	"math/big"

	"github.com/outcry-labs/go-outcry/types"
)

const BasisPoints = 10000

// CalculateFee returns amount * bps / 10000, rounded down.
func CalculateFee(amount uint64, bps uint16) uint64 {
	fee := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(int64(bps)))
	return fee.Div(fee, big.NewInt(BasisPoints)).Uint64()
}

// CalculateRoyalties splits the royalty on a sale price between creators by
// share. Rounding dust stays with the seller, so the sum of the per-creator
// amounts can be below total.
func CalculateRoyalties(price uint64, sellerFeeBasisPoints uint16, creators []types.Creator) (total uint64, perCreator []uint64) {
	total = CalculateFee(price, sellerFeeBasisPoints)
	perCreator = make([]uint64, len(creators))
	if total == 0 {
		return total, perCreator
	}

	t := new(big.Int).SetUint64(total)
	for i, c := range creators {
		v := new(big.Int).Mul(t, big.NewInt(int64(c.Share)))
		perCreator[i] = v.Div(v, big.NewInt(100)).Uint64()
	}
	return total, perCreator
}
