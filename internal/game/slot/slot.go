// internal/game/slot/slot.go
package slot

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"

	xerrors "reviewlottery-service/internal/pkg/errors"
)

const reelCount = 3

// Symbol is one reel symbol with its draw weight.
type Symbol struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Engine resolves 3-reel spins. A server-forced combination is
// reproduced exactly; otherwise each reel draws independently by weight.
type Engine struct {
	reels [reelCount][]Symbol
}

// SpinResult is the client-facing reveal: the combination plus cosmetic
// per-reel stop delays.
type SpinResult struct {
	Symbols      [reelCount]string `json:"symbols"`
	StopDelaysMs [reelCount]int    `json:"stop_delays_ms"`
}

// New builds an engine where every reel shares the same symbol set.
func New(symbols []Symbol) (*Engine, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("slot needs at least one symbol: %w", xerrors.ErrInvalidInput)
	}
	for _, s := range symbols {
		if s.Name == "" {
			return nil, fmt.Errorf("slot symbol with empty name: %w", xerrors.ErrInvalidInput)
		}
		if s.Weight <= 0 {
			return nil, fmt.Errorf("symbol %q has non-positive weight: %w", s.Name, xerrors.ErrInvalidInput)
		}
	}
	var reels [reelCount][]Symbol
	for i := range reels {
		reels[i] = symbols
	}
	return &Engine{reels: reels}, nil
}

// SpinForced reveals exactly the given winning combination.
func (e *Engine) SpinForced(combo [reelCount]string) (SpinResult, error) {
	for i, name := range combo {
		if !e.hasSymbol(i, name) {
			return SpinResult{}, fmt.Errorf("symbol %q not on reel %d: %w", name, i, xerrors.ErrNotFound)
		}
	}
	return SpinResult{Symbols: combo, StopDelaysMs: stopDelays()}, nil
}

// Spin resolves each reel by an independent weighted draw.
func (e *Engine) Spin() (SpinResult, error) {
	var combo [reelCount]string
	for i := range e.reels {
		sym, err := pickWeighted(e.reels[i])
		if err != nil {
			return SpinResult{}, err
		}
		combo[i] = sym
	}
	return SpinResult{Symbols: combo, StopDelaysMs: stopDelays()}, nil
}

func (e *Engine) hasSymbol(reel int, name string) bool {
	for _, s := range e.reels[reel] {
		if s.Name == name {
			return true
		}
	}
	return false
}

func pickWeighted(symbols []Symbol) (string, error) {
	var total int64
	for _, s := range symbols {
		total += int64(s.Weight)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(total))
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	idx := n.Int64()
	var cum int64
	for _, s := range symbols {
		cum += int64(s.Weight)
		if idx < cum {
			return s.Name, nil
		}
	}
	return symbols[len(symbols)-1].Name, nil
}

// stopDelays staggers the reel reveals. Purely cosmetic.
func stopDelays() [reelCount]int {
	var d [reelCount]int
	for i := range d {
		d[i] = 600*(i+1) + mrand.Intn(400)
	}
	return d
}
