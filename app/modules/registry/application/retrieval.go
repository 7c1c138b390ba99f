package registryservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
)

// GetScore returns the score of one address within an account-scoped
// community. A missing score row and an internal query failure are reported
// identically; only the log distinguishes them.
func (s *RegistryService) GetScore(ctx context.Context, accountID, scorerID int64, address string) (registrydomain.ScoreView, error) {
	ctx, span := s.tracer.Start(ctx, "GetScore")
	defer span.End()

	community, err := s.communityRepo.GetForAccount(ctx, scorerID, accountID)
	if err != nil {
		if errors.Is(err, accountdb.ErrCommunityNotFound) {
			return registrydomain.ScoreView{}, registrydomain.ErrNotFound
		}
		return registrydomain.ScoreView{}, fmt.Errorf("failed to resolve community: %w", err)
	}

	score, err := s.scoreRepo.GetByAddress(ctx, lowerAddress(address), community.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "error getting passport score",
			slog.Int64("scorer_id", scorerID),
			slog.Any("error", err),
		)
		return registrydomain.ScoreView{}, registrydomain.ErrInvalidCommunityScoreRequest
	}

	return scoreToView(score), nil
}

// ListScores returns a community's scores with offset pagination, optionally
// narrowed to one address.
func (s *RegistryService) ListScores(ctx context.Context, accountID, scorerID int64, address string, limit, offset int) ([]registrydomain.ScoreView, error) {
	ctx, span := s.tracer.Start(ctx, "ListScores")
	defer span.End()

	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	community, err := s.communityRepo.GetForAccount(ctx, scorerID, accountID)
	if err != nil {
		if errors.Is(err, accountdb.ErrCommunityNotFound) {
			return nil, registrydomain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve community: %w", err)
	}

	scores, err := s.scoreRepo.ListByCommunity(ctx, community.ID, lowerAddress(address), limit, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "error listing passport scores",
			slog.Int64("scorer_id", scorerID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	return scoresToViews(scores), nil
}

// ListScoresAnalytics walks every score across communities in ascending id
// order. Restricted to researcher accounts at the HTTP boundary.
func (s *RegistryService) ListScoresAnalytics(ctx context.Context, token string, limit int) (ScorePage, error) {
	ctx, span := s.tracer.Start(ctx, "ListScoresAnalytics")
	defer span.End()

	return s.scorePage(ctx, registrydb.ScoreCursorFilter{}, token, limit)
}

// ListCommunityScoresAnalytics walks one community's scores in ascending id
// order, without account scoping.
func (s *RegistryService) ListCommunityScoresAnalytics(ctx context.Context, scorerID int64, address, token string, limit int) (ScorePage, error) {
	ctx, span := s.tracer.Start(ctx, "ListCommunityScoresAnalytics")
	defer span.End()

	community, err := s.communityRepo.Get(ctx, scorerID)
	if err != nil {
		if errors.Is(err, accountdb.ErrCommunityNotFound) {
			return ScorePage{}, registrydomain.ErrNotFound
		}
		return ScorePage{}, fmt.Errorf("failed to resolve community: %w", err)
	}

	filter := registrydb.ScoreCursorFilter{CommunityID: &community.ID}
	if address != "" {
		filter.Address = lowerAddress(address)
	}

	return s.scorePage(ctx, filter, token, limit)
}

// scorePage runs the ascending-id variant of the cursor protocol over scores.
func (s *RegistryService) scorePage(ctx context.Context, filter registrydb.ScoreCursorFilter, token string, limit int) (ScorePage, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return ScorePage{}, err
	}

	direction := registrydomain.DirectionNone
	var anchorID int64
	if token != "" {
		direction, anchorID, err = s.codec.Decode(token)
		if err != nil {
			return ScorePage{}, err
		}
	}

	scores, err := s.scoreRepo.ListCursorAsc(ctx, filter, direction, anchorID, limit)
	if err != nil {
		return ScorePage{}, fmt.Errorf("failed to fetch score page: %w", err)
	}

	page := ScorePage{Scores: scoresToViews(scores)}
	if len(scores) == 0 {
		return page, nil
	}

	nextID := scores[len(scores)-1].ID
	prevID := scores[0].ID

	hasMore, err := s.scoreRepo.ExistsAbove(ctx, filter, nextID)
	if err != nil {
		return ScorePage{}, fmt.Errorf("failed to probe next score page: %w", err)
	}
	hasPrev, err := s.scoreRepo.ExistsBelow(ctx, filter, prevID)
	if err != nil {
		return ScorePage{}, fmt.Errorf("failed to probe prev score page: %w", err)
	}

	if hasMore {
		page.NextToken = s.codec.Encode(registrydomain.DirectionNext, nextID)
	}
	if hasPrev {
		page.PrevToken = s.codec.Encode(registrydomain.DirectionPrev, prevID)
	}

	return page, nil
}
