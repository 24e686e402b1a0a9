// internal/game/draw/draw.go
package draw

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

// Tolerance accepted on a campaign's total probability mass.
const SumTolerance = 0.01

// Entry is one selectable outcome: a prize's share of the 100%
// probability mass and its remaining stock.
type Entry struct {
	PrizeID     int64
	Probability float64
	Remaining   int
}

// Result of one draw. Won=false means the draw landed in probability
// mass not covered by any in-stock prize.
type Result struct {
	PrizeID int64
	Won     bool
}

// Uniform100 returns a uniform random float in [0, 100) from a CSPRNG.
func Uniform100() (float64, error) {
	// 53 random bits, the full precision of a float64 mantissa.
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return float64(n.Int64()) / (1 << 53) * 100, nil
}

// Select picks one outcome by cumulative-probability sampling over the
// in-stock entries. Zero-stock prizes are excluded from the pool and
// their mass is NOT redistributed: a draw landing in uncovered mass is
// an explicit no-win. The fallback to the last pool entry only covers
// floating-point shortfall when the pool mass is effectively 100%.
func Select(entries []Entry) (Result, error) {
	if len(entries) == 0 {
		return Result{}, fmt.Errorf("prize list is empty: %w", xerrors.ErrInvalidInput)
	}

	pool := make([]Entry, 0, len(entries))
	var total float64
	for _, e := range entries {
		if e.Remaining <= 0 {
			continue
		}
		pool = append(pool, e)
		total += e.Probability
	}
	if len(pool) == 0 {
		return Result{}, fmt.Errorf("all prizes are out of stock: %w", xerrors.ErrOutOfStock)
	}

	r, err := Uniform100()
	if err != nil {
		return Result{}, err
	}

	if r < total {
		var cum float64
		for _, e := range pool {
			cum += e.Probability
			if r < cum {
				return Result{PrizeID: e.PrizeID, Won: true}, nil
			}
		}
		// Unreachable unless accumulation order lost precision.
		last := pool[len(pool)-1]
		return Result{PrizeID: last.PrizeID, Won: true}, nil
	}

	// r landed at or beyond the pool mass. With a full 100% pool this is
	// pure rounding, so the last entry absorbs it.
	if total >= 100-SumTolerance {
		last := pool[len(pool)-1]
		return Result{PrizeID: last.PrizeID, Won: true}, nil
	}
	return Result{Won: false}, nil
}

// ValidateSum checks that probabilities sum to 100 within tolerance.
// Enforced once at game construction, not transactionally on writes.
func ValidateSum(probabilities []float64) error {
	var total float64
	for _, p := range probabilities {
		if p < 0 || p > 100 {
			return fmt.Errorf("probability %v out of range [0,100]: %w", p, xerrors.ErrInvalidInput)
		}
		total += p
	}
	if math.Abs(total-100) > SumTolerance {
		return fmt.Errorf("probabilities sum to %.4f, want 100: %w", total, xerrors.ErrInvalidInput)
	}
	return nil
}
