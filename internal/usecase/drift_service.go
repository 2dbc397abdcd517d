package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// DefaultDriftRate is the fraction of the gap to the target multiplier
// closed on each drift step.
const DefaultDriftRate = 0.15

// DriftService nudges every league's per-player multiplier snapshot toward
// a target derived from that player's season points, relative to the rest
// of the roster, one bounded step at a time.
type DriftService struct {
	leagueRepo    league.Repository
	playerRepo    player.Repository
	locks         *league.LockRegistry
	driftRate     float64
	minMultiplier float64
	maxMultiplier float64
	logger        *logging.Logger
}

// NewDriftService wires the drift step against leagueRepo/playerRepo. minMultiplier
// and maxMultiplier narrow the working multiplier band (cfg.MultiplierMin /
// cfg.MultiplierMax); passing zero for both falls back to the package-wide
// player.MinMultiplier/player.MaxMultiplier bounds.
func NewDriftService(leagueRepo league.Repository, playerRepo player.Repository, locks *league.LockRegistry, driftRate float64, minMultiplier, maxMultiplier float64, logger *logging.Logger) *DriftService {
	if driftRate <= 0 {
		driftRate = DefaultDriftRate
	}
	if minMultiplier <= 0 {
		minMultiplier = player.MinMultiplier
	}
	if maxMultiplier <= 0 {
		maxMultiplier = player.MaxMultiplier
	}
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = league.NewLockRegistry()
	}
	return &DriftService{
		leagueRepo:    leagueRepo,
		playerRepo:    playerRepo,
		locks:         locks,
		driftRate:     driftRate,
		minMultiplier: minMultiplier,
		maxMultiplier: maxMultiplier,
		logger:        logger,
	}
}

// DriftLeague recomputes and persists the target-drifted multiplier
// snapshot for every player in leagueID's current roster. It holds the
// league's writer lock for the whole step so a concurrent lifecycle
// transition cannot observe a half-written snapshot.
func (s *DriftService) DriftLeague(ctx context.Context, leagueID string, rosterPlayerIDs []string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DriftService.DriftLeague")
	defer span.End()

	unlock := s.locks.Lock(leagueID)
	defer unlock()

	lg, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load league: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if !lg.HasSnapshot() {
		return fmt.Errorf("%w: league %s", ErrSnapshotMissing, leagueID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, rosterPlayerIDs)
	if err != nil {
		return fmt.Errorf("load roster players: %w", err)
	}

	scores := make([]float64, 0, len(players))
	for _, p := range players {
		scores = append(scores, p.Aggregates.TotalPoints)
	}
	if distinctCount(scores) < 3 {
		s.logger.InfoContext(ctx, "skipping drift, fewer than 3 distinct scores", "league_id", leagueID)
		return nil
	}

	worst, median, best := scoreLandmarks(scores)

	next := make(map[string]float64, len(players))
	for _, p := range players {
		target := TargetMultiplier(p.Aggregates.TotalPoints, worst, median, best, s.minMultiplier, s.maxMultiplier)
		prior := lg.MultipliersSnapshot[p.ID]
		if prior == 0 {
			prior = p.BaselineMultiplier
		}
		next[p.ID] = player.ClampMultiplier(prior*(1-s.driftRate)+target*s.driftRate, s.minMultiplier, s.maxMultiplier)
	}

	for id, m := range lg.MultipliersSnapshot {
		if _, ok := next[id]; !ok {
			next[id] = m
		}
	}

	if err := s.leagueRepo.CaptureSnapshot(ctx, leagueID, next, *lg.MultipliersFrozenAt, lg.Status); err != nil {
		return fmt.Errorf("persist drifted snapshot: %w", err)
	}
	return nil
}

// TargetMultiplier maps a player's total points onto the [minMultiplier,
// maxMultiplier] band via two piecewise-linear legs: the worst performer in
// the roster targets maxMultiplier, the median targets 1.0, and the best
// targets minMultiplier. A score below the median drifts the multiplier up
// toward the worst-performer leg; a score above it drifts down toward the
// best-performer leg.
func TargetMultiplier(score, worst, median, best, minMultiplier, maxMultiplier float64) float64 {
	switch {
	case median == worst && median == best:
		return 1.0
	case score <= median:
		if median == worst {
			return 1.0
		}
		frac := (median - score) / (median - worst)
		return player.ClampMultiplier(1.0+frac*(maxMultiplier-1.0), minMultiplier, maxMultiplier)
	default:
		if best == median {
			return 1.0
		}
		frac := (score - median) / (best - median)
		return player.ClampMultiplier(1.0+frac*(minMultiplier-1.0), minMultiplier, maxMultiplier)
	}
}

func scoreLandmarks(scores []float64) (worst, median, best float64) {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	worst = sorted[0]
	best = sorted[len(sorted)-1]

	n := len(sorted)
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return worst, median, best
}

func distinctCount(scores []float64) int {
	seen := make(map[float64]struct{}, len(scores))
	for _, s := range scores {
		seen[s] = struct{}{}
	}
	return len(seen)
}
