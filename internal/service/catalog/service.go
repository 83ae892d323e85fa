package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/internal/repository"
	apperrors "github.com/salonbook/booking-api/pkg/errors"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service resolves catalog entries to duration/price snapshots at
// booking time. Reads go through a short-lived cache; the snapshot
// semantics make slightly stale entries harmless, since the price is
// frozen into the line item anyway.
type Service struct {
	repo  repository.ServiceRepository
	cache *gocache.Cache
}

func NewService(repo repository.ServiceRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

// Resolve returns the services for the given ids in request order.
// It fails if the id set is empty, contains repeats, or any id is
// unknown. The selection is a set; allowing repeats would double the
// booked duration and price for the same service.
func (s *Service) Resolve(ctx context.Context, ids []uuid.UUID) ([]*model.Service, error) {
	if len(ids) == 0 {
		return nil, apperrors.Validation("at least one service must be selected")
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, apperrors.Validation("each service may be selected only once")
		}
		seen[id] = struct{}{}
	}

	found := make(map[uuid.UUID]*model.Service, len(ids))
	var misses []uuid.UUID
	for _, id := range ids {
		if cached, ok := s.cache.Get(id.String()); ok {
			found[id] = cached.(*model.Service)
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		services, err := s.repo.GetByIDs(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve services: %w", err)
		}
		for _, svc := range services {
			found[svc.ID] = svc
			s.cache.Set(svc.ID.String(), svc, gocache.DefaultExpiration)
		}
	}

	resolved := make([]*model.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := found[id]
		if !ok {
			return nil, apperrors.NotFound("service")
		}
		resolved = append(resolved, svc)
	}
	return resolved, nil
}
