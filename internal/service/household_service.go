package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/terra-do-sol/checkin-api/internal/form"
	"github.com/terra-do-sol/checkin-api/internal/models"
	"github.com/terra-do-sol/checkin-api/internal/search"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
)

const listCacheKey = "families:list"

type householdRepository interface {
	List(ctx context.Context) ([]models.Household, error)
	FindByID(ctx context.Context, id int64) (*models.Household, error)
	Create(ctx context.Context, rec *models.Household) error
	Update(ctx context.Context, rec *models.Household) error
	Delete(ctx context.Context, id int64) error
}

type listCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SubmitCheckinRequest is the intake payload: the raw form working copy plus
// the photo URL obtained from a prior upload call. The photo upload and the
// record insert are two independent calls: if the insert fails after a
// successful upload, the stored photo is orphaned and nobody cleans it up.
type SubmitCheckinRequest struct {
	form.State
	HousePhotoURL string `json:"foto_casa_url"`
}

// UpdateHouseholdRequest rewrites every mutable field of an existing record.
// An empty foto_casa_url keeps the photo already on file.
type UpdateHouseholdRequest struct {
	form.State
	HousePhotoURL string `json:"foto_casa_url"`
}

// HouseholdEditView hydrates the admin edit form from a persisted record.
type HouseholdEditView struct {
	ID            int64      `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	Form          form.State `json:"form"`
	HousePhotoURL string     `json:"foto_casa_url"`
}

// HouseholdService handles intake submissions and the admin review use-cases.
type HouseholdService struct {
	repo    householdRepository
	cache   listCache
	metrics *MetricsService
	logger  *zap.Logger

	cacheEnabled bool
	listTTL      time.Duration
}

// NewHouseholdService constructs the household service. cache and metrics may
// be nil; the service then runs uncached and unobserved.
func NewHouseholdService(repo householdRepository, cache listCache, metrics *MetricsService, logger *zap.Logger, cacheEnabled bool, listTTL time.Duration) *HouseholdService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HouseholdService{
		repo:         repo,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		listTTL:      listTTL,
	}
}

// Submit maps and persists a new check-in. On a mapping failure nothing is
// written; on success the cached list is invalidated.
func (s *HouseholdService) Submit(ctx context.Context, req SubmitCheckinRequest) (*models.Household, error) {
	rec, err := form.ToRecord(req.State)
	if err != nil {
		return nil, err
	}
	rec.HousePhotoURL = req.HousePhotoURL

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save check-in")
	}
	s.invalidateList(ctx)
	s.logger.Info("check-in saved", zap.Int64("id", rec.ID))
	return rec, nil
}

// List returns records newest first, filtered by the free-text query. The
// unfiltered list is served from cache when possible; the search itself always
// runs in memory over the full list. The returned bool reports a cache hit.
func (s *HouseholdService) List(ctx context.Context, query string) ([]models.Household, bool, error) {
	records, hit, err := s.loadAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list families")
	}
	return search.Filter(records, query), hit, nil
}

// Get returns one record by id.
func (s *HouseholdService) Get(ctx context.Context, id int64) (*models.Household, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "family record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load family record")
	}
	return rec, nil
}

// GetForEdit hydrates the working form state for the admin edit flow,
// defaulting any null persisted field and preserving child order.
func (s *HouseholdService) GetForEdit(ctx context.Context, id int64) (*HouseholdEditView, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HouseholdEditView{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		Form:          form.FromRecord(rec),
		HousePhotoURL: rec.HousePhotoURL,
	}, nil
}

// Update fully replaces the mutable fields of an existing record.
func (s *HouseholdService) Update(ctx context.Context, id int64, req UpdateHouseholdRequest) (*models.Household, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := form.ToRecord(req.State)
	if err != nil {
		return nil, err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.HousePhotoURL = req.HousePhotoURL
	if rec.HousePhotoURL == "" {
		rec.HousePhotoURL = existing.HousePhotoURL
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update family record")
	}
	s.invalidateList(ctx)
	return rec, nil
}

// Delete permanently removes a record. The cached list is only invalidated
// after the store confirms the delete, so a failed delete leaves the listing
// untouched.
func (s *HouseholdService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete family record")
	}
	s.invalidateList(ctx)
	return nil
}

func (s *HouseholdService) loadAll(ctx context.Context) ([]models.Household, bool, error) {
	if s.cacheEnabled && s.cache != nil {
		start := time.Now()
		var cached []models.Household
		err := s.cache.Get(ctx, listCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true, time.Since(start))
			return cached, true, nil
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("family list cache read failed", zap.Error(err))
		}
	}

	start := time.Now()
	records, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("households_list", time.Since(start))
	if err != nil {
		return nil, false, err
	}

	if s.cacheEnabled && s.cache != nil {
		writeStart := time.Now()
		if err := s.cache.Set(ctx, listCacheKey, records, s.listTTL); err != nil {
			s.logger.Warn("family list cache write failed", zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(writeStart))
	}
	return records, false, nil
}

func (s *HouseholdService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("family list cache invalidation failed", zap.Error(err))
	}
}
