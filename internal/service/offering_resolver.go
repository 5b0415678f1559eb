package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

// OfferingSource loads the raw course_id -> offering code table.
type OfferingSource interface {
	ListOfferings(ctx context.Context) (map[string]string, error)
}

// OfferingCache memoizes the offering table for the process lifetime.
// The table is loaded on Init or on first lookup and dropped by Invalidate.
type OfferingCache struct {
	source OfferingSource
	logger *zap.Logger

	mu       sync.RWMutex
	table    map[string]models.OfferingCode
	loadedAt time.Time
}

// NewOfferingCache constructs an empty cache over source.
func NewOfferingCache(source OfferingSource, logger *zap.Logger) *OfferingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferingCache{source: source, logger: logger}
}

// Init loads the table, replacing any cached copy.
func (c *OfferingCache) Init(ctx context.Context) error {
	if c.source == nil {
		return appErrors.Clone(appErrors.ErrDataSource, "offering source not configured")
	}
	raw, err := c.source.ListOfferings(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "failed to load offering table")
	}
	table := make(map[string]models.OfferingCode, len(raw))
	for courseID, value := range raw {
		code, err := models.ParseOfferingCode(value)
		if err != nil {
			c.logger.Warn("dropping offering entry", zap.String("course_id", courseID), zap.Error(err))
			continue
		}
		table[courseID] = code
	}

	c.mu.Lock()
	c.table = table
	c.loadedAt = time.Now().UTC()
	c.mu.Unlock()

	c.logger.Info("offering table loaded", zap.Int("courses", len(table)))
	return nil
}

// Invalidate drops the cached table; the next lookup reloads it.
func (c *OfferingCache) Invalidate() {
	c.mu.Lock()
	c.table = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// Loaded reports whether a table is cached and when it was loaded.
func (c *OfferingCache) Loaded() (bool, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table != nil, c.loadedAt
}

// Lookup returns the offering code for courseID. found is false when the course has no entry.
func (c *OfferingCache) Lookup(ctx context.Context, courseID string) (models.OfferingCode, bool, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return "", false, err
	}
	c.mu.RLock()
	code, found := c.table[courseID]
	c.mu.RUnlock()
	return code, found, nil
}

func (c *OfferingCache) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.table != nil
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Init(ctx)
}

// OfferingResolver answers whether and when courses are offered.
type OfferingResolver struct {
	cache *OfferingCache
}

// NewOfferingResolver wraps an offering cache.
func NewOfferingResolver(cache *OfferingCache) *OfferingResolver {
	return &OfferingResolver{cache: cache}
}

// Cache exposes the underlying cache for init and invalidation.
func (r *OfferingResolver) Cache() *OfferingCache {
	return r.cache
}

// IsOffered applies the course's recurrence rule. Courses without a known code are not offered.
func (r *OfferingResolver) IsOffered(ctx context.Context, courseID string, semester models.Semester) (bool, error) {
	code, found, err := r.cache.Lookup(ctx, courseID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return code.OfferedIn(semester), nil
}

// Code returns the recurrence rule for courseID or ErrOfferingNotFound.
func (r *OfferingResolver) Code(ctx context.Context, courseID string) (models.OfferingCode, error) {
	code, found, err := r.cache.Lookup(ctx, courseID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", appErrors.Clone(appErrors.ErrOfferingNotFound, fmt.Sprintf("offering information not found for course %s", courseID))
	}
	return code, nil
}

// NextOffering returns the nearest semester, starting with Spring of fromYear, in which courseID runs.
func (r *OfferingResolver) NextOffering(ctx context.Context, courseID string, fromYear int) (models.Semester, models.OfferingCode, error) {
	code, err := r.Code(ctx, courseID)
	if err != nil {
		return models.Semester{}, "", err
	}
	next, ok := code.NextOffering(models.Semester{Season: models.SeasonSpring, Year: fromYear})
	if !ok {
		return models.Semester{}, code, appErrors.Clone(appErrors.ErrOfferingNotFound, fmt.Sprintf("no upcoming offering for course %s", courseID))
	}
	return next, code, nil
}

// ExplainNextOffering renders a suggestion such as "CS 301 is next offered Fall 2027 (odd-year falls)".
// label names the course in the sentence; the course id is used when it is empty.
func (r *OfferingResolver) ExplainNextOffering(ctx context.Context, courseID, label string, fromYear int) (string, error) {
	next, code, err := r.NextOffering(ctx, courseID, fromYear)
	if err != nil {
		return "", err
	}
	if label == "" {
		label = courseID
	}
	if code == models.OfferingEverySemester {
		return fmt.Sprintf("%s is offered every semester; next offered %s", label, next), nil
	}
	return fmt.Sprintf("%s is next offered %s (%s)", label, next, code.Description()), nil
}
