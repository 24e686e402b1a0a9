// internal/service/play/service.go
package play

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewlottery-service/internal/domain/campaign"
	"reviewlottery-service/internal/domain/participant"
	"reviewlottery-service/internal/domain/prize"
	"reviewlottery-service/internal/domain/shared"
	"reviewlottery-service/internal/domain/winner"
	"reviewlottery-service/internal/game/draw"
	"reviewlottery-service/internal/game/scratch"
	"reviewlottery-service/internal/game/slot"
	"reviewlottery-service/internal/game/wheel"
	xerrors "reviewlottery-service/internal/pkg/errors"
	"reviewlottery-service/internal/repository"
	"reviewlottery-service/internal/service/email"
	ws "reviewlottery-service/internal/websocket"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// loseWheelSegmentID marks the synthetic no-win wheel slice.
const loseWheelSegmentID = -1

var defaultSlotSymbols = []string{"cherry", "lemon", "star", "seven"}

type PlayRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PlayResponse carries the outcome plus the game-specific animation
// payload the widget replays.
type PlayResponse struct {
	Won       bool        `json:"won"`
	PrizeID   int64       `json:"prize_id,omitempty"`
	PrizeName string      `json:"prize_name,omitempty"`
	ClaimCode string      `json:"claim_code,omitempty"`
	Reference string      `json:"reference,omitempty"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
	Game      interface{} `json:"game"`
}

// EventPublisher pushes dashboard events. Satisfied by the websocket hub.
type EventPublisher interface {
	Publish(event *ws.Event)
}

// PlayService resolves one game play end to end: eligibility, the
// server-side draw, stock-safe awarding and the animation payload.
type PlayService struct {
	campaignRepo    repository.CampaignRepository
	participantRepo repository.ParticipantRepository
	prizeRepo       repository.PrizeRepository
	winnerRepo      repository.WinnerRepository
	sender          email.Sender
	hub             EventPublisher
	logger          *zap.Logger
}

func NewPlayService(
	campaignRepo repository.CampaignRepository,
	participantRepo repository.ParticipantRepository,
	prizeRepo repository.PrizeRepository,
	winnerRepo repository.WinnerRepository,
	sender email.Sender,
	hub EventPublisher,
	logger *zap.Logger,
) *PlayService {
	return &PlayService{
		campaignRepo:    campaignRepo,
		participantRepo: participantRepo,
		prizeRepo:       prizeRepo,
		winnerRepo:      winnerRepo,
		sender:          sender,
		hub:             hub,
		logger:          logger,
	}
}

// Play consumes the participant's single play. The outcome is decided
// by the draw before any animation math; the game engines only render
// what was already decided.
func (s *PlayService) Play(ctx context.Context, campaignID int64, req *PlayRequest) (*PlayResponse, error) {
	c, err := s.campaignRepo.FindByIDWithConditions(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !c.Active || !c.IsWithinWindow(now) {
		return nil, xerrors.ErrCampaignInactive
	}

	addr, err := shared.NewEmail(req.Email)
	if err != nil {
		return nil, err
	}

	p, err := s.participantRepo.FindByEmailAndCampaign(ctx, addr.String(), campaignID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("participant not registered: %w", xerrors.ErrConditionsIncomplete)
		}
		return nil, err
	}
	if incompleteRequired(p.CompletedConditions, c.Conditions) {
		return nil, xerrors.ErrConditionsIncomplete
	}

	// Consumes the play atomically; a concurrent duplicate fails here.
	if err := s.participantRepo.MarkPlayed(ctx, p.ID); err != nil {
		return nil, err
	}

	prizes, err := s.prizeRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	entries := make([]draw.Entry, len(prizes))
	for i, pr := range prizes {
		entries[i] = draw.Entry{PrizeID: pr.ID, Probability: pr.Probability, Remaining: pr.Remaining}
	}

	result, err := draw.Select(entries)
	if errors.Is(err, xerrors.ErrOutOfStock) {
		result = draw.Result{Won: false}
	} else if err != nil {
		return nil, err
	}

	resp := &PlayResponse{Won: result.Won}
	var won *prize.Prize

	if result.Won {
		for i := range prizes {
			if prizes[i].ID == result.PrizeID {
				won = &prizes[i]
				break
			}
		}

		w, err := s.award(ctx, c, p.ID, won, now)
		if errors.Is(err, xerrors.ErrOutOfStock) {
			// Lost a stock race after the draw; the play resolves as a loss.
			s.logger.Warn("prize sold out between draw and award",
				zap.Int64("prize_id", won.ID),
				zap.Int64("campaign_id", campaignID),
			)
			resp.Won = false
			won = nil
		} else if err != nil {
			return nil, err
		} else {
			resp.PrizeID = won.ID
			resp.PrizeName = won.Name
			resp.ClaimCode = w.ClaimCode
			resp.Reference = w.Reference
			resp.ExpiresAt = &w.ExpiresAt

			s.notifyWinner(p.Email, won.Name, w.ClaimCode, w.ExpiresAt)
			s.hub.Publish(&ws.Event{
				CampaignID: campaignID,
				Type:       ws.EventPrizeWon,
				Payload: map[string]interface{}{
					"prize_id":   won.ID,
					"prize_name": won.Name,
					"reference":  w.Reference,
				},
			})
		}
	}

	game, err := s.buildGamePayload(c, prizes, won)
	if err != nil {
		return nil, err
	}
	resp.Game = game

	s.hub.Publish(&ws.Event{
		CampaignID: campaignID,
		Type:       ws.EventParticipantPlayed,
		Payload:    map[string]interface{}{"participant_id": p.ID, "won": resp.Won},
	})

	s.logger.Info("play resolved",
		zap.Int64("campaign_id", campaignID),
		zap.Int64("participant_id", p.ID),
		zap.Bool("won", resp.Won),
	)

	return resp, nil
}

// award generates the claim code and runs the stock-safe winner insert
func (s *PlayService) award(ctx context.Context, c *campaign.Campaign, participantID int64, pr *prize.Prize, now time.Time) (*winner.Winner, error) {
	code, err := shared.GenerateClaimCode()
	if err != nil {
		return nil, err
	}

	w := &winner.Winner{
		Reference:     ulid.Make().String(),
		PrizeID:       pr.ID,
		CampaignID:    c.ID,
		ParticipantID: participantID,
		ClaimCode:     code.String(),
		Status:        winner.StatusPending,
		ExpiresAt:     c.ClaimDeadline(now),
	}

	if err := s.winnerRepo.CreateAwardingPrize(ctx, w); err != nil {
		return nil, err
	}

	return w, nil
}

// notifyWinner sends the claim-code email without blocking the play response
func (s *PlayService) notifyWinner(to, prizeName, claimCode string, expiresAt time.Time) {
	go func() {
		body := email.WinnerEmailBody(prizeName, claimCode, expiresAt)
		if err := s.sender.Send(to, "You won: "+prizeName, body); err != nil {
			s.logger.Error("failed to send winner email",
				zap.String("to", to),
				zap.Error(err),
			)
		}
	}()
}

// buildGamePayload renders the decided outcome through the campaign's
// game engine.
func (s *PlayService) buildGamePayload(c *campaign.Campaign, prizes []prize.Prize, won *prize.Prize) (interface{}, error) {
	switch c.GameType {
	case campaign.GameTypeWheel:
		return s.wheelPayload(prizes, won)
	case campaign.GameTypeSlot:
		return s.slotPayload(c, won)
	case campaign.GameTypeScratch:
		return s.scratchPayload(c, won)
	}
	return nil, fmt.Errorf("unknown game type %q: %w", c.GameType, xerrors.ErrInvalidInput)
}

// wheelPayload maps each prize to a wheel segment. When the prize mass
// falls short of 100% a synthetic lose segment absorbs the rest, so the
// wheel geometry always covers the full circle.
func (s *PlayService) wheelPayload(prizes []prize.Prize, won *prize.Prize) (interface{}, error) {
	segments := make([]wheel.Segment, 0, len(prizes)+1)
	var total float64
	for _, p := range prizes {
		segments = append(segments, wheel.Segment{
			ID:          p.ID,
			Label:       p.Name,
			Probability: p.Probability,
			Color:       p.Color,
		})
		total += p.Probability
	}
	// A losing spin must always have a slice to land on, even when the
	// prize mass covers the full circle (stock race losses).
	if total < 100-draw.SumTolerance || won == nil {
		rest := 100 - total
		if rest < 0 {
			rest = 0
		}
		segments = append(segments, wheel.Segment{
			ID:          loseWheelSegmentID,
			Label:       "Try again",
			Probability: rest,
		})
	}

	w, err := wheel.New(segments)
	if err != nil {
		return nil, err
	}

	target := int64(loseWheelSegmentID)
	if won != nil {
		target = won.ID
	}

	spin, err := w.Spin(target)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"segments": segments,
		"spin":     spin,
	}, nil
}

func (s *PlayService) slotPayload(c *campaign.Campaign, won *prize.Prize) (interface{}, error) {
	names := []string(c.SlotSymbols)
	if len(names) == 0 {
		names = defaultSlotSymbols
	}
	symbols := make([]slot.Symbol, len(names))
	for i, n := range names {
		symbols[i] = slot.Symbol{Name: n, Weight: 1}
	}

	engine, err := slot.New(symbols)
	if err != nil {
		return nil, err
	}

	if won != nil {
		sym := names[secureIndex(len(names))]
		return engine.SpinForced([3]string{sym, sym, sym})
	}

	// A losing reveal must not line up three identical symbols.
	for {
		result, err := engine.Spin()
		if err != nil {
			return nil, err
		}
		if result.Symbols[0] != result.Symbols[1] || result.Symbols[1] != result.Symbols[2] {
			return result, nil
		}
	}
}

func (s *PlayService) scratchPayload(c *campaign.Campaign, won *prize.Prize) (interface{}, error) {
	pattern := scratch.PatternThreeInRow
	if c.ScratchPattern.Valid && c.ScratchPattern.String != "" {
		pattern = scratch.Pattern(c.ScratchPattern.String)
	}

	card, err := scratch.Build(pattern, won != nil)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"pattern": pattern,
		"zones":   card.Zones(),
	}, nil
}

// incompleteRequired reports whether any required condition is missing
func incompleteRequired(completed []participant.CompletedCondition, conditions []campaign.Condition) bool {
	done := make(map[int64]bool, len(completed))
	for _, cc := range completed {
		done[cc.ConditionID] = true
	}
	for _, cond := range conditions {
		if cond.IsRequired && !done[cond.ID] {
			return true
		}
	}
	return false
}

func secureIndex(n int) int {
	v, err := draw.Uniform100()
	if err != nil || n <= 0 {
		return 0
	}
	idx := int(v / 100 * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
