package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTrimSpace(t *testing.T) {
	assert.Equal(t, "Outcry", TrimSpace("Outcry\x00\x00\x00"))
	assert.Equal(t, "a", TrimSpace("a"))
	assert.Equal(t, "two words", TrimSpace("  two words \x00 \x00"))
	assert.Equal(t, "", TrimSpace("\x00\x00"))
	assert.Equal(t, "", TrimSpace(""))
}

func TestLamportsToSol(t *testing.T) {
	assert.True(t, decimal.RequireFromString("1.5").Equal(LamportsToSol(1_500_000_000)))
	assert.Equal(t, uint64(250_000_000), SolToLamports(decimal.RequireFromString("0.25")))
}

func TestAbbreviateDecimal(t *testing.T) {
	assert.Equal(t, "1.5", AbbreviateDecimal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "2", AbbreviateDecimal(decimal.NewFromInt(2)))
	assert.Equal(t, "0.0₄123", AbbreviateDecimal(decimal.RequireFromString("0.000012345")))
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "J7r5..wPZo", ShortAddress("J7r5mzvVUjSNQteoqn6Hd3LjZ3ksmwoD5xsnUvMJwPZo"))
	assert.Equal(t, "short", ShortAddress("short"))
}
