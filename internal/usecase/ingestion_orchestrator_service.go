package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/identity"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/league"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/performance"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/roster"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/id"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// ScorecardSource is the provider contract the orchestrator depends on.
// external/scraper.Client satisfies it directly.
type ScorecardSource interface {
	ListRecentMatches(ctx context.Context, club string, since time.Time) ([]ExternalMatchSummary, error)
	FetchScorecard(ctx context.Context, matchID string) (ExternalScorecard, error)
}

// IngestionOrchestratorConfig names the clubs and scoring ruleset for one
// ingestion pass and bounds its worker concurrency.
type IngestionOrchestratorConfig struct {
	Clubs        []string
	MaxWorkers   int
	RulesetVersion string
}

// IngestionRunResult summarizes one pass across every configured club.
type IngestionRunResult struct {
	RunID         string
	MatchesFound  int
	MatchesScored int
	Ambiguous     []string
	Errors        []string
}

// IngestionOrchestratorService pulls recently completed matches for every
// configured club, resolves each scorecard row to a known or newly created
// player, scores it through the aggregator, and triggers a drift step for
// every league whose roster was touched.
type IngestionOrchestratorService struct {
	source       ScorecardSource
	matcher      identity.MatchStrategy
	rosterRepo   roster.Repository
	playerRepo   player.Repository
	leagueRepo   league.Repository
	aggregator   *AggregatorService
	drift        *DriftService
	runRepo      jobscheduler.Repository
	idGen        id.Generator
	cfg          IngestionOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewIngestionOrchestratorService(
	source ScorecardSource,
	matcher identity.MatchStrategy,
	rosterRepo roster.Repository,
	playerRepo player.Repository,
	leagueRepo league.Repository,
	aggregator *AggregatorService,
	drift *DriftService,
	runRepo jobscheduler.Repository,
	idGen id.Generator,
	cfg IngestionOrchestratorConfig,
	logger *logging.Logger,
) *IngestionOrchestratorService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	return &IngestionOrchestratorService{
		source:     source,
		matcher:    matcher,
		rosterRepo: rosterRepo,
		playerRepo: playerRepo,
		leagueRepo: leagueRepo,
		aggregator: aggregator,
		drift:      drift,
		runRepo:    runRepo,
		idGen:      idGen,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Run fans out across the configured clubs' recent matches, one worker-pool
// slot per match, each scoring every row on its own scorecard independently
// so a bad row in one match never blocks another.
func (s *IngestionOrchestratorService) Run(ctx context.Context, since time.Time, trigger string) (IngestionRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionOrchestratorService.Run")
	defer span.End()

	runID, err := s.idGen.NewID()
	if err != nil {
		return IngestionRunResult{}, fmt.Errorf("generate run id: %w", err)
	}
	startedAt := s.now()
	s.recordRun(ctx, jobscheduler.IngestionRunEvent{
		RunID: runID, Trigger: trigger, Clubs: s.cfg.Clubs,
		Status: jobscheduler.StatusRunning, StartedAt: startedAt,
	})

	// Listing fans out per club on a bounded pool. conc's pool recovers a
	// panicking listing goroutine and re-raises it from Wait instead of
	// silently losing it, which a raw sync.WaitGroup would do.
	var matchesMu sync.Mutex
	var matches []ExternalMatchSummary
	listPool := pool.New().WithMaxGoroutines(s.cfg.MaxWorkers)
	for _, club := range s.cfg.Clubs {
		club := club
		listPool.Go(func() {
			found, err := s.source.ListRecentMatches(ctx, club, since)
			if err != nil {
				s.logger.WarnContext(ctx, "list recent matches failed", "club", club, "error", err)
				return
			}
			matchesMu.Lock()
			matches = append(matches, found...)
			matchesMu.Unlock()
		})
	}
	listPool.Wait()

	result := IngestionRunResult{RunID: runID, MatchesFound: len(matches)}
	if len(matches) == 0 {
		s.recordRun(ctx, jobscheduler.IngestionRunEvent{
			RunID: runID, Trigger: trigger, Clubs: s.cfg.Clubs,
			Status: jobscheduler.StatusCompleted, StartedAt: startedAt, FinishedAt: s.now(),
		})
		return result, nil
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(matches) {
		workerCount = len(matches)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var scoredCount atomic.Int32
	ambiguousCh := make(chan string, len(matches))
	errCh := make(chan string, len(matches))
	touchedCh := make(chan string, len(matches)*11)

	var workers sync.WaitGroup
	for _, m := range matches {
		m := m
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if ctx.Err() != nil {
				errCh <- fmt.Sprintf("%s: cancelled", m.MatchID)
				return
			}

			n, ambiguous, touched, err := s.ingestMatch(ctx, m)
			scoredCount.Add(int32(n))
			for _, a := range ambiguous {
				ambiguousCh <- a
			}
			for _, pid := range touched {
				touchedCh <- pid
			}
			if err != nil {
				errCh <- fmt.Sprintf("%s: %v", m.MatchID, err)
			}
		}); err != nil {
			workers.Done()
			errCh <- fmt.Sprintf("%s: submit failed: %v", m.MatchID, err)
		}
	}
	workers.Wait()
	close(ambiguousCh)
	close(errCh)
	close(touchedCh)

	for a := range ambiguousCh {
		result.Ambiguous = append(result.Ambiguous, a)
	}
	for e := range errCh {
		result.Errors = append(result.Errors, e)
	}
	touchedPlayers := make(map[string]bool)
	for pid := range touchedCh {
		touchedPlayers[pid] = true
	}
	sort.Strings(result.Ambiguous)
	sort.Strings(result.Errors)
	result.MatchesScored = int(scoredCount.Load())

	s.driftAffectedLeagues(ctx, touchedPlayers)

	status := jobscheduler.StatusCompleted
	errMsg := ""
	if len(result.Errors) > 0 {
		status = jobscheduler.StatusFailed
		errMsg = fmt.Sprintf("%d match(es) failed", len(result.Errors))
	}
	s.recordRun(ctx, jobscheduler.IngestionRunEvent{
		RunID: runID, Trigger: trigger, Clubs: s.cfg.Clubs,
		Status: status, MatchesFound: result.MatchesFound, MatchesScored: result.MatchesScored,
		ErrorMessage: errMsg, StartedAt: startedAt, FinishedAt: s.now(),
	})

	return result, nil
}

// ingestMatch resolves and scores every row of one match's scorecard. It
// returns the count of rows successfully scored, any names that matched
// ambiguously and were skipped rather than guessed at, and the ids of every
// player touched so the caller can decide which leagues need to drift.
func (s *IngestionOrchestratorService) ingestMatch(ctx context.Context, m ExternalMatchSummary) (int, []string, []string, error) {
	sc, err := s.source.FetchScorecard(ctx, m.MatchID)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("fetch scorecard: %w", err)
	}

	candidates, err := s.clubCandidates(ctx, m.Club)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("load club roster: %w", err)
	}

	scored := 0
	var ambiguous []string
	var touched []string

	facets := mergeFacetsByName(sc)
	for name, f := range facets {
		outcome := s.matcher.Match(name, candidates)
		if outcome.Ambiguous {
			ambiguous = append(ambiguous, fmt.Sprintf("%s@%s", name, m.Club))
			continue
		}

		playerID := outcome.PlayerID
		if !outcome.Matched {
			playerID, err = s.createPlayer(ctx, name, m.Club)
			if err != nil {
				return scored, ambiguous, touched, fmt.Errorf("create player for %s: %w", name, err)
			}
		} else {
			s.promoteIfLegacy(ctx, playerID)
		}

		rec := performance.Record{
			MatchID:        m.MatchID,
			PlayerID:       playerID,
			RulesetVersion: s.cfg.RulesetVersion,
			Batting:        f.batting,
			Bowling:        f.bowling,
			Fielding:       f.fielding,
			ScoredAt:       s.now(),
		}
		if err := s.aggregator.UpsertPerformance(ctx, rec); err != nil {
			return scored, ambiguous, touched, fmt.Errorf("score %s: %w", playerID, err)
		}
		scored++
		touched = append(touched, playerID)
	}

	return scored, ambiguous, touched, nil
}

// driftAffectedLeagues runs a drift step for every active or locked league
// whose roster intersects the set of players this ingestion run scored.
// Draft and completed leagues are skipped by the status check.
func (s *IngestionOrchestratorService) driftAffectedLeagues(ctx context.Context, touched map[string]bool) {
	if s.drift == nil || s.leagueRepo == nil || len(touched) == 0 {
		return
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to list leagues for post-ingestion drift", "error", err)
		return
	}

	for _, lg := range leagues {
		if lg.Status != league.StatusActive && lg.Status != league.StatusLocked {
			continue
		}
		affected := false
		for _, pid := range lg.RosterPlayerIDs {
			if touched[pid] {
				affected = true
				break
			}
		}
		if !affected {
			continue
		}
		if err := s.drift.DriftLeague(ctx, lg.ID, lg.RosterPlayerIDs); err != nil {
			s.logger.WarnContext(ctx, "post-ingestion drift failed", "league_id", lg.ID, "error", err)
		}
	}
}

type mergedFacet struct {
	batting  *performance.BattingFacet
	bowling  *performance.BowlingFacet
	fielding performance.FieldingFacet
}

func mergeFacetsByName(sc ExternalScorecard) map[string]mergedFacet {
	out := make(map[string]mergedFacet)
	for _, b := range sc.Batting {
		f := out[b.PlayerName]
		f.batting = &performance.BattingFacet{Runs: b.Runs, BallsFaced: b.BallsFaced, Dismissed: b.Dismissed}
		out[b.PlayerName] = f
	}
	for _, b := range sc.Bowling {
		f := out[b.PlayerName]
		f.bowling = &performance.BowlingFacet{BallsBowled: b.BallsBowled, RunsConceded: b.RunsConceded, Wickets: b.Wickets, Maidens: b.Maidens}
		out[b.PlayerName] = f
	}
	for _, fr := range sc.Fielding {
		f := out[fr.PlayerName]
		f.fielding.Catches += fr.Catches
		f.fielding.Stumpings += fr.Stumpings
		f.fielding.Runouts += fr.Runouts
		out[fr.PlayerName] = f
	}
	return out
}

func (s *IngestionOrchestratorService) clubCandidates(ctx context.Context, club string) ([]identity.Candidate, error) {
	players, err := s.playerRepo.FindByClub(ctx, club)
	if err != nil {
		return nil, err
	}
	entries, err := s.rosterRepo.ListByClub(ctx, club)
	if err != nil {
		return nil, err
	}
	legacy := make(map[string]bool, len(entries))
	for _, e := range entries {
		legacy[e.PlayerID] = e.Status == roster.StatusLegacy
	}

	out := make([]identity.Candidate, 0, len(players))
	for _, p := range players {
		out = append(out, identity.Candidate{PlayerID: p.ID, Name: p.Name, IsLegacy: legacy[p.ID]})
	}
	return out, nil
}

func (s *IngestionOrchestratorService) createPlayer(ctx context.Context, name, club string) (string, error) {
	newID, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate player id: %w", err)
	}
	p := player.Player{
		ID:                 newID,
		Name:               name,
		Club:               club,
		RealTeam:           club,
		Role:               player.RoleAllRounder,
		BaselineMultiplier: 1.0,
	}
	if err := s.playerRepo.Upsert(ctx, p); err != nil {
		return "", err
	}
	if err := s.rosterRepo.Upsert(ctx, roster.Entry{PlayerID: newID, Club: club, Status: roster.StatusActive, ImportedAt: s.now()}); err != nil {
		return "", err
	}
	return newID, nil
}

func (s *IngestionOrchestratorService) promoteIfLegacy(ctx context.Context, playerID string) {
	entry, found, err := s.rosterRepo.GetByPlayer(ctx, playerID)
	if err != nil || !found || entry.Status != roster.StatusLegacy {
		return
	}
	if err := s.rosterRepo.Upsert(ctx, entry.Promote(s.now())); err != nil {
		s.logger.WarnContext(ctx, "failed to promote legacy roster entry", "player_id", playerID, "error", err)
	}
}

func (s *IngestionOrchestratorService) recordRun(ctx context.Context, event jobscheduler.IngestionRunEvent) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record ingestion run event", "run_id", event.RunID, "error", err)
	}
}
