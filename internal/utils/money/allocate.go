package money

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Cents converts an amount to whole cents, truncating any sub-cent fraction.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromCents converts whole cents back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// AllocateProportional splits poolCents across the given weights using exact
// integer-cent arithmetic: each slot gets floor(poolCents * weight / sum(weights))
// and the rounding residue goes to the slot with the largest weight (the first
// such slot on ties, so the result is deterministic for a fixed input order).
//
// The returned slice is aligned with weights and always satisfies
// sum(allocations) == poolCents exactly; residue reports how many cents were
// folded into the largest slot on top of its floor share.
func AllocateProportional(poolCents int64, weights []int64) (allocations []int64, residue int64, err error) {
	if poolCents < 0 {
		return nil, 0, fmt.Errorf("pool must not be negative, got %d", poolCents)
	}
	if len(weights) == 0 {
		return nil, 0, fmt.Errorf("at least one weight is required")
	}

	var total int64
	largest := 0
	for i, w := range weights {
		if w <= 0 {
			return nil, 0, fmt.Errorf("weight %d must be positive, got %d", i, w)
		}
		total += w
		if w > weights[largest] {
			largest = i
		}
	}

	// big.Int keeps poolCents*weight exact; int64 would overflow for large pools.
	allocations = make([]int64, len(weights))
	bigTotal := big.NewInt(total)
	var allocated int64
	for i, w := range weights {
		share := new(big.Int).Mul(big.NewInt(poolCents), big.NewInt(w))
		share.Div(share, bigTotal)
		allocations[i] = share.Int64()
		allocated += allocations[i]
	}

	residue = poolCents - allocated
	allocations[largest] += residue
	return allocations, residue, nil
}
