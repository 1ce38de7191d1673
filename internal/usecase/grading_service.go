package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
	"github.com/riskibarqy/matchday-engine/internal/domain/userstats"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/riskibarqy/matchday-engine/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

type GradingConfig struct {
	Rules prediction.Rules
	// InterMatchDelay spaces provider lookups in GradeAllPending.
	InterMatchDelay time.Duration
}

type GradeCounts struct {
	Graded  int `json:"graded"`
	Correct int `json:"correct"`
	Failed  int `json:"failed"`
}

func (c *GradeCounts) add(other GradeCounts) {
	c.Graded += other.Graded
	c.Correct += other.Correct
	c.Failed += other.Failed
}

type GradeMatchResult struct {
	Sport       match.Sport `json:"sport"`
	MatchID     int64       `json:"match_id"`
	Ready       bool        `json:"ready"`
	Winner      GradeCounts `json:"winner"`
	Score       GradeCounts `json:"score"`
	Users       int         `json:"users"`
	UsersFailed int         `json:"users_failed"`
	Bonuses     int         `json:"bonuses"`
}

type GradeAllResult struct {
	Sport       match.Sport `json:"sport"`
	Candidates  int         `json:"candidates"`
	Processed   int         `json:"processed"`
	NotReady    int         `json:"not_ready"`
	FetchFailed int         `json:"fetch_failed"`
	Graded      int         `json:"graded"`
	Correct     int         `json:"correct"`
	Failed      int         `json:"failed"`
	Users       int         `json:"users"`
	Skipped     bool        `json:"skipped"`
	Reason      string      `json:"reason,omitempty"`
}

// GradingService turns finished match results into points and streak
// updates for one sport. All progress lives in the prediction status
// column, so a failed item is simply retried on the next run.
type GradingService struct {
	sport       match.Sport
	provider    MatchProvider
	predictions prediction.Repository
	stats       userstats.Repository
	rules       prediction.Rules
	delay       time.Duration
	metrics     EngineMetrics
	logger      *logging.Logger
	now         func() time.Time
	sleep       func(context.Context, time.Duration) error
	flight      resilience.SingleFlight[gradedMatch]
}

// NewGradingService wires one sport. predictions and stats may be nil, in
// which case grading reports the store as not configured.
func NewGradingService(
	provider MatchProvider,
	predictions prediction.Repository,
	stats userstats.Repository,
	metrics EngineMetrics,
	cfg GradingConfig,
	logger *logging.Logger,
) *GradingService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	rules := cfg.Rules
	if rules.StreakBonuses == nil {
		rules = prediction.DefaultRules()
	}
	return &GradingService{
		sport:       provider.Sport(),
		provider:    provider,
		predictions: predictions,
		stats:       stats,
		rules:       rules,
		delay:       max(cfg.InterMatchDelay, 0),
		metrics:     metrics,
		logger:      logger.Named("grading").With("sport", string(provider.Sport())),
		now:         time.Now,
		sleep:       sleepContext,
	}
}

func (s *GradingService) Sport() match.Sport {
	return s.sport
}

func (s *GradingService) configured() bool {
	return s.predictions != nil && s.stats != nil
}

// ListMatchesAwaitingGrading returns the sorted union of match ids held by
// pending winner or score predictions.
func (s *GradingService) ListMatchesAwaitingGrading(ctx context.Context) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.ListMatchesAwaitingGrading")
	defer span.End()

	if !s.configured() {
		return nil, ErrStoreNotConfigured
	}

	seen := make(map[int64]struct{})
	for _, kind := range []prediction.Kind{prediction.KindWinner, prediction.KindScore} {
		ids, err := s.predictions.ListPendingMatchIDs(ctx, s.sport, kind)
		if err != nil {
			return nil, fmt.Errorf("list pending %s match ids: %w", kind, err)
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// FetchResult returns nil while the match has not reached a finished code.
func (s *GradingService) FetchResult(ctx context.Context, matchID int64) (*prediction.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.FetchResult")
	defer span.End()

	item, ok, err := s.provider.FetchByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch result match_id=%d: %v", ErrDependencyUnavailable, matchID, err)
	}
	if !ok || !match.IsFinishedCode(s.sport, item.StatusShort) {
		return nil, nil
	}
	if !item.HasScore() {
		s.logger.WarnContext(ctx, "finished match has no score", "match_id", matchID, "status_short", item.StatusShort)
		return nil, nil
	}

	home, away := *item.HomeScore, *item.AwayScore
	return &prediction.Result{
		MatchID:    matchID,
		HomeScore:  home,
		AwayScore:  away,
		Winner:     prediction.OutcomeOf(home, away),
		LeagueName: item.League.Name,
	}, nil
}

// GradeWinnerPredictions grades every pending winner prediction on the match.
// Only predictions this call moved to graded appear in the returned partials.
func (s *GradingService) GradeWinnerPredictions(ctx context.Context, matchID int64, result prediction.Result) (map[string]prediction.Partial, GradeCounts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.GradeWinnerPredictions")
	defer span.End()

	var counts GradeCounts
	pending, err := s.predictions.ListPendingWinner(ctx, s.sport, matchID)
	if err != nil {
		return nil, counts, fmt.Errorf("list pending winner predictions match_id=%d: %w", matchID, err)
	}

	partials := make(map[string]prediction.Partial, len(pending))
	for _, item := range pending {
		correct, points := s.rules.GradeWinner(item.PredictedResult, result)
		patch := prediction.GradePatch{
			IsCorrect:    correct,
			PointsEarned: points,
			ActualResult: result.Winner,
			ActualHome:   result.HomeScore,
			ActualAway:   result.AwayScore,
			GradedAt:     s.now().UTC(),
		}
		if !s.markGraded(ctx, prediction.KindWinner, item.ID, patch, &counts) {
			continue
		}
		email := userstats.NormalizeEmail(item.Email)
		partials[email] = mergePartial(partials[email], prediction.Partial{Points: points, IsCorrect: correct})
	}
	return partials, counts, nil
}

// GradeScorePredictions grades every pending score prediction on the match.
// Only an exact match of both scores is correct.
func (s *GradingService) GradeScorePredictions(ctx context.Context, matchID int64, result prediction.Result) (map[string]prediction.Partial, GradeCounts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.GradeScorePredictions")
	defer span.End()

	var counts GradeCounts
	pending, err := s.predictions.ListPendingScore(ctx, s.sport, matchID)
	if err != nil {
		return nil, counts, fmt.Errorf("list pending score predictions match_id=%d: %w", matchID, err)
	}

	partials := make(map[string]prediction.Partial, len(pending))
	for _, item := range pending {
		correct, points := s.rules.GradeScore(item.PredictedHomeScore, item.PredictedAwayScore, result)
		patch := prediction.GradePatch{
			IsCorrect:    correct,
			PointsEarned: points,
			ActualResult: result.Winner,
			ActualHome:   result.HomeScore,
			ActualAway:   result.AwayScore,
			GradedAt:     s.now().UTC(),
		}
		if !s.markGraded(ctx, prediction.KindScore, item.ID, patch, &counts) {
			continue
		}
		email := userstats.NormalizeEmail(item.Email)
		partials[email] = mergePartial(partials[email], prediction.Partial{Points: points, IsCorrect: correct})
	}
	return partials, counts, nil
}

func (s *GradingService) markGraded(ctx context.Context, kind prediction.Kind, id int64, patch prediction.GradePatch, counts *GradeCounts) bool {
	transitioned, err := s.predictions.MarkGraded(ctx, kind, id, patch)
	if err != nil {
		counts.Failed++
		s.logger.WarnContext(ctx, "grade prediction failed", "kind", string(kind), "prediction_id", id, "error", err)
		return false
	}
	if !transitioned {
		// Already graded by a concurrent run; its stats were counted there.
		return false
	}
	counts.Graded++
	if patch.IsCorrect {
		counts.Correct++
	}
	s.metrics.PredictionGraded(s.sport, kind, patch.IsCorrect)
	return true
}

func mergePartial(current, next prediction.Partial) prediction.Partial {
	return prediction.Partial{
		Points:    current.Points + next.Points,
		IsCorrect: current.IsCorrect || next.IsCorrect,
	}
}

// UpdateUserStatsPerMatch folds one user's graded predictions for a single
// match into their stats. Either partial may be nil. It returns the streak
// bonus awarded.
func (s *GradingService) UpdateUserStatsPerMatch(ctx context.Context, email string, winner, score *prediction.Partial) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.UpdateUserStatsPerMatch")
	defer span.End()

	var outcome userstats.MatchOutcome
	for _, partial := range []*prediction.Partial{winner, score} {
		if partial == nil {
			continue
		}
		outcome.Predictions++
		outcome.Points += partial.Points
		if partial.IsCorrect {
			outcome.Correct++
		}
	}
	if outcome.Predictions == 0 {
		return 0, nil
	}

	var bonus int
	next, err := s.stats.Apply(ctx, userstats.NormalizeEmail(email), func(current userstats.Stats) userstats.Stats {
		var folded userstats.Stats
		folded, bonus = current.ApplyMatch(outcome, s.rules.StreakBonuses)
		folded.UpdatedAt = s.now().UTC()
		return folded
	})
	if err != nil {
		return 0, fmt.Errorf("apply user stats: %w", err)
	}
	if bonus > 0 {
		s.metrics.StreakBonus(next.CurrentStreak)
	}
	return bonus, nil
}

// GradeAllPending walks every match with pending predictions. Matches that
// are not finished yet are skipped and picked up by a later run.
func (s *GradingService) GradeAllPending(ctx context.Context) (GradeAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.GradeAllPending", sportAttr(s.sport))
	defer span.End()

	result := GradeAllResult{Sport: s.sport}
	if !s.configured() {
		result.Skipped = true
		result.Reason = reasonStoreNotConfigured
		return result, nil
	}

	matchIDs, err := s.ListMatchesAwaitingGrading(ctx)
	if err != nil {
		return result, err
	}
	result.Candidates = len(matchIDs)

	users := make(map[string]struct{})
	for i, matchID := range matchIDs {
		if i > 0 && s.delay > 0 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return result, err
			}
		}

		res, err := s.FetchResult(ctx, matchID)
		if err != nil {
			result.FetchFailed++
			s.logger.WarnContext(ctx, "fetch match result failed", "match_id", matchID, "error", err)
			continue
		}
		if res == nil {
			result.NotReady++
			continue
		}

		graded, emails := s.gradeMatch(ctx, matchID, *res)
		result.Processed++
		result.Graded += graded.Winner.Graded + graded.Score.Graded
		result.Correct += graded.Winner.Correct + graded.Score.Correct
		result.Failed += graded.Winner.Failed + graded.Score.Failed + graded.UsersFailed
		for _, email := range emails {
			users[email] = struct{}{}
		}
	}
	result.Users = len(users)

	s.logger.InfoContext(ctx, "pending predictions graded",
		"candidates", result.Candidates,
		"processed", result.Processed,
		"not_ready", result.NotReady,
		"graded", result.Graded,
		"correct", result.Correct,
		"failed", result.Failed,
	)
	return result, nil
}

// GradeMatch grades one match on demand without consulting the pending list.
func (s *GradingService) GradeMatch(ctx context.Context, matchID int64) (GradeMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.GradeMatch",
		sportAttr(s.sport),
		attribute.Int64("match.id", matchID),
	)
	defer span.End()

	result := GradeMatchResult{Sport: s.sport, MatchID: matchID}
	if matchID <= 0 {
		return result, fmt.Errorf("%w: match id must be > 0", ErrInvalidInput)
	}
	if !s.configured() {
		return result, ErrStoreNotConfigured
	}

	res, err := s.FetchResult(ctx, matchID)
	if err != nil {
		return result, err
	}
	if res == nil {
		return result, nil
	}

	graded, _ := s.gradeMatch(ctx, matchID, *res)
	return graded, nil
}

// gradeMatch is serialized per match so a manual trigger and a scheduled
// run in this process never interleave on the same predictions.
func (s *GradingService) gradeMatch(ctx context.Context, matchID int64, res prediction.Result) (GradeMatchResult, []string) {
	key := string(s.sport) + ":" + strconv.FormatInt(matchID, 10)
	out, _, _ := s.flight.Do(key, func() (gradedMatch, error) {
		result, emails := s.gradeMatchOnce(ctx, matchID, res)
		return gradedMatch{result: result, emails: emails}, nil
	})
	return out.result, out.emails
}

type gradedMatch struct {
	result GradeMatchResult
	emails []string
}

func (s *GradingService) gradeMatchOnce(ctx context.Context, matchID int64, res prediction.Result) (GradeMatchResult, []string) {
	result := GradeMatchResult{Sport: s.sport, MatchID: matchID, Ready: true}

	winners, winnerCounts, err := s.GradeWinnerPredictions(ctx, matchID, res)
	if err != nil {
		s.logger.WarnContext(ctx, "grade winner predictions failed", "match_id", matchID, "error", err)
	}
	result.Winner.add(winnerCounts)

	scores, scoreCounts, err := s.GradeScorePredictions(ctx, matchID, res)
	if err != nil {
		s.logger.WarnContext(ctx, "grade score predictions failed", "match_id", matchID, "error", err)
	}
	result.Score.add(scoreCounts)

	emails := make([]string, 0, len(winners)+len(scores))
	for email := range winners {
		emails = append(emails, email)
	}
	for email := range scores {
		if _, ok := winners[email]; !ok {
			emails = append(emails, email)
		}
	}
	sort.Strings(emails)

	for _, email := range emails {
		var winner, score *prediction.Partial
		if p, ok := winners[email]; ok {
			winner = &p
		}
		if p, ok := scores[email]; ok {
			score = &p
		}

		bonus, err := s.UpdateUserStatsPerMatch(ctx, email, winner, score)
		if err != nil {
			result.UsersFailed++
			s.logger.WarnContext(ctx, "update user stats failed", "match_id", matchID, "email", email, "error", err)
			continue
		}
		result.Users++
		result.Bonuses += bonus
	}
	return result, emails
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
