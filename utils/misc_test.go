package utils

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/stretchr/testify/assert"
)

func TestCalculateFee(t *testing.T) {
	assert.Equal(t, uint64(25_000_000), CalculateFee(1_000_000_000, 250))
	assert.Equal(t, uint64(0), CalculateFee(1_000_000_000, 0))
	assert.Equal(t, uint64(1_000_000_000), CalculateFee(1_000_000_000, 10000))
}

func TestCalculateRoyalties(t *testing.T) {
	creators := []types.Creator{
		{Address: solana.SystemProgramID, Share: 70},
		{Address: solana.TokenProgramID, Share: 30},
	}

	total, per := CalculateRoyalties(2_000_000_000, 500, creators)
	assert.Equal(t, uint64(100_000_000), total)
	assert.Equal(t, []uint64{70_000_000, 30_000_000}, per)

	total, per = CalculateRoyalties(2_000_000_000, 0, creators)
	assert.Zero(t, total)
	assert.Equal(t, []uint64{0, 0}, per)
}
