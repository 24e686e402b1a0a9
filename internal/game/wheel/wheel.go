// internal/game/wheel/wheel.go
package wheel

import (
	"fmt"
	"math/rand"
	"strings"

	"reviewlottery-service/internal/game/draw"
	xerrors "reviewlottery-service/internal/pkg/errors"
)

// Segment is one slice of the wheel.
type Segment struct {
	ID          int64   `json:"id"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Color       string  `json:"color,omitempty"`
}

// Wheel maps a server-selected outcome to client animation parameters.
// The stop angle is the only semantic output; rotations and duration
// are cosmetic and re-randomized per spin.
type Wheel struct {
	segments []Segment
}

// SpinResult carries everything the client needs to animate one spin.
type SpinResult struct {
	SegmentID     int64   `json:"segment_id"`
	SegmentIndex  int     `json:"segment_index"`
	StopAngle     float64 `json:"stop_angle"`
	TotalRotation float64 `json:"total_rotation"`
	DurationMs    int     `json:"duration_ms"`
}

// New validates the wheel configuration: at least one segment, non-empty
// labels, probabilities summing to 100 (±0.01).
func New(segments []Segment) (*Wheel, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("wheel needs at least one segment: %w", xerrors.ErrInvalidInput)
	}
	probs := make([]float64, len(segments))
	for i, s := range segments {
		if strings.TrimSpace(s.Label) == "" {
			return nil, fmt.Errorf("segment %d has an empty label: %w", i, xerrors.ErrInvalidInput)
		}
		probs[i] = s.Probability
	}
	if err := draw.ValidateSum(probs); err != nil {
		return nil, err
	}
	return &Wheel{segments: segments}, nil
}

// Spin computes the animation for the given winning segment. A zero
// winningSegmentID means no outcome was forced and the wheel draws one
// internally from the segment probabilities.
func (w *Wheel) Spin(winningSegmentID int64) (SpinResult, error) {
	idx := -1
	if winningSegmentID == 0 {
		i, err := w.pick()
		if err != nil {
			return SpinResult{}, err
		}
		idx = i
	} else {
		for i, s := range w.segments {
			if s.ID == winningSegmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return SpinResult{}, fmt.Errorf("segment %d not on wheel: %w", winningSegmentID, xerrors.ErrNotFound)
		}
	}

	segmentAngle := 360.0 / float64(len(w.segments))
	stopAngle := float64(idx)*segmentAngle + segmentAngle/2

	fullRotations := 3 + rand.Intn(5) // [3,7]
	totalRotation := float64(fullRotations)*360 + (360 - stopAngle)
	durationMs := 3000 + rand.Intn(3001) // [3000,6000]

	return SpinResult{
		SegmentID:     w.segments[idx].ID,
		SegmentIndex:  idx,
		StopAngle:     stopAngle,
		TotalRotation: totalRotation,
		DurationMs:    durationMs,
	}, nil
}

func (w *Wheel) pick() (int, error) {
	r, err := draw.Uniform100()
	if err != nil {
		return 0, err
	}
	var cum float64
	for i, s := range w.segments {
		cum += s.Probability
		if r < cum {
			return i, nil
		}
	}
	return len(w.segments) - 1, nil
}
