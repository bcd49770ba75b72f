package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const LamportsPerSol = 1_000_000_000

func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(decimal.NewFromInt(LamportsPerSol))
}

func SolToLamports(sol decimal.Decimal) uint64 {
	return sol.Mul(decimal.NewFromInt(LamportsPerSol)).BigInt().Uint64()
}

func AbbreviateDecimal(v decimal.Decimal) string {
	s := v.StringFixedBank(9)
	ss := strings.Split(s, ".")
	if len(ss) == 1 {
		return s
	}

	fraction := strings.TrimRight(ss[1], "0")
	if fraction == "" {
		return ss[0]
	}

	cnt := 0
	for _, c := range fraction {
		if c != '0' {
			break
		}
		cnt++
	}

	const zero rune = '₀'
	if cnt > 2 {
		fraction = fmt.Sprintf("0%s%s", string(zero+rune(cnt)), fraction[cnt:lo.Min([]int{len(fraction), cnt + 3})])
	} else {
		fraction = fraction[:lo.Min([]int{len(fraction), cnt + 3})]
	}
	return fmt.Sprintf("%s.%s", ss[0], fraction)
}

// TrimSpace strips NUL padding and whitespace from both ends of a fixed-width
// on-chain string.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
}

func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:4] + ".." + address[len(address)-4:]
}
