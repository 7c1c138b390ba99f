package registryservice

import (
	"context"
	"fmt"

	registrydomain "github.com/trustvector/scorer/app/modules/registry/domain"
)

// stampVersion is the envelope version of the stamp listing payload.
const stampVersion = "1.0.0"

// GetStamps returns one page of an address's stamps, newest first, with
// cursor tokens for the adjacent pages. hasMore/hasPrev are decided by
// existence probes against the page boundaries, never by over-fetching.
func (s *RegistryService) GetStamps(ctx context.Context, address, token string, limit int) (StampPage, error) {
	ctx, span := s.tracer.Start(ctx, "GetStamps")
	defer span.End()

	limit, err := normalizeLimit(limit)
	if err != nil {
		return StampPage{}, err
	}

	address = lowerAddress(address)

	direction := registrydomain.DirectionNone
	var anchorID int64
	if token != "" {
		direction, anchorID, err = s.codec.Decode(token)
		if err != nil {
			return StampPage{}, err
		}
	}

	stamps, err := s.stampRepo.ListCursorDesc(ctx, address, direction, anchorID, limit)
	if err != nil {
		return StampPage{}, fmt.Errorf("failed to fetch stamp page: %w", err)
	}

	page := StampPage{Stamps: make([]registrydomain.StampCredential, 0, len(stamps))}
	for _, stamp := range stamps {
		page.Stamps = append(page.Stamps, registrydomain.StampCredential{
			Version:    stampVersion,
			Credential: stamp.Credential,
		})
	}

	if len(stamps) == 0 {
		return page, nil
	}

	// Descending order: the last row shown has the smallest id, the first
	// the largest.
	nextID := stamps[len(stamps)-1].ID
	prevID := stamps[0].ID

	hasMore, err := s.stampRepo.ExistsBelow(ctx, address, nextID)
	if err != nil {
		return StampPage{}, fmt.Errorf("failed to probe next stamp page: %w", err)
	}
	hasPrev, err := s.stampRepo.ExistsAbove(ctx, address, prevID)
	if err != nil {
		return StampPage{}, fmt.Errorf("failed to probe prev stamp page: %w", err)
	}

	if hasMore {
		page.NextToken = s.codec.Encode(registrydomain.DirectionNext, nextID)
	}
	if hasPrev {
		page.PrevToken = s.codec.Encode(registrydomain.DirectionPrev, prevID)
	}

	return page, nil
}
