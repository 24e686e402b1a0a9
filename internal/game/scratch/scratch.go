// internal/game/scratch/scratch.go
package scratch

import (
	"crypto/rand"
	"fmt"
	"math/big"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

// Pattern names how a fully revealed card is judged.
type Pattern string

const (
	// All revealed symbols identical.
	PatternThreeInRow Pattern = "THREE_IN_ROW"
	// Every zone individually flagged winning.
	PatternAllMatch Pattern = "ALL_MATCH"
	// At least 3 zones flagged winning.
	PatternAnyThree Pattern = "ANY_THREE"
)

const zoneCount = 9

var defaultSymbols = []string{"cherry", "lemon", "star", "seven"}

// Zone is one scratchable area of the card.
type Zone struct {
	Index    int    `json:"index"`
	Symbol   string `json:"symbol"`
	Winning  bool   `json:"winning"`
	Revealed bool   `json:"revealed"`
}

// Card is a client-side reveal state machine. The win is decided by the
// server-provided zone layout; Evaluate only reads it back once every
// zone is revealed.
type Card struct {
	pattern Pattern
	zones   []Zone
}

// Build lays out a card for a server-decided outcome. Winning cards
// satisfy the pattern; losing cards are guaranteed not to.
func Build(pattern Pattern, win bool) (*Card, error) {
	switch pattern {
	case PatternThreeInRow, PatternAllMatch, PatternAnyThree:
	default:
		return nil, fmt.Errorf("unknown scratch pattern %q: %w", pattern, xerrors.ErrInvalidInput)
	}

	zones := make([]Zone, zoneCount)
	if win {
		sym := defaultSymbols[secureIntn(len(defaultSymbols))]
		for i := range zones {
			zones[i] = Zone{Index: i, Symbol: sym, Winning: true}
		}
	} else {
		for i := range zones {
			zones[i] = Zone{Index: i, Symbol: defaultSymbols[secureIntn(len(defaultSymbols))]}
		}
		// A losing layout must not accidentally read as all-identical.
		for allSame(zones) {
			zones[zoneCount-1].Symbol = defaultSymbols[secureIntn(len(defaultSymbols))]
		}
	}
	return &Card{pattern: pattern, zones: zones}, nil
}

// NewCard restores a card from a stored layout.
func NewCard(pattern Pattern, zones []Zone) (*Card, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("scratch card needs zones: %w", xerrors.ErrInvalidInput)
	}
	switch pattern {
	case PatternThreeInRow, PatternAllMatch, PatternAnyThree:
	default:
		return nil, fmt.Errorf("unknown scratch pattern %q: %w", pattern, xerrors.ErrInvalidInput)
	}
	return &Card{pattern: pattern, zones: zones}, nil
}

// Reveal marks one zone scratched. Revealing twice is a no-op.
func (c *Card) Reveal(index int) error {
	if index < 0 || index >= len(c.zones) {
		return fmt.Errorf("zone %d out of range: %w", index, xerrors.ErrInvalidInput)
	}
	c.zones[index].Revealed = true
	return nil
}

// AllRevealed reports whether every zone has been scratched.
func (c *Card) AllRevealed() bool {
	for _, z := range c.zones {
		if !z.Revealed {
			return false
		}
	}
	return true
}

// Zones returns the current layout.
func (c *Card) Zones() []Zone { return c.zones }

// Evaluate judges the card by its pattern. It is only valid once all
// zones are revealed.
func (c *Card) Evaluate() (bool, error) {
	if !c.AllRevealed() {
		return false, fmt.Errorf("card not fully revealed: %w", xerrors.ErrConflict)
	}
	switch c.pattern {
	case PatternThreeInRow:
		return allSame(c.zones), nil
	case PatternAllMatch:
		for _, z := range c.zones {
			if !z.Winning {
				return false, nil
			}
		}
		return true, nil
	case PatternAnyThree:
		n := 0
		for _, z := range c.zones {
			if z.Winning {
				n++
			}
		}
		return n >= 3, nil
	}
	return false, fmt.Errorf("unknown scratch pattern %q: %w", c.pattern, xerrors.ErrInvalidInput)
}

func allSame(zones []Zone) bool {
	for _, z := range zones[1:] {
		if z.Symbol != zones[0].Symbol {
			return false
		}
	}
	return true
}

func secureIntn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
