// Package service provides the assessment use case layer: it ties the
// processing pipeline to caching and history storage and owns assessment
// identity and timestamps.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/cache"
	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/history"
)

// ErrAssessmentNotFound is returned when no assessment exists for an ID.
var ErrAssessmentNotFound = errors.New("assessment not found")

// Processor runs the scoring pipeline for one profile.
type Processor interface {
	Process(ctx context.Context, profile *domain.HealthProfile) (*domain.SynthesizedResult, error)
}

// ResultCache holds completed assessments keyed by profile hash.
type ResultCache interface {
	Get(ctx context.Context, key string) (*domain.Assessment, bool)
	Set(ctx context.Context, key string, assessment *domain.Assessment)
}

// AssessmentService orchestrates one assessment end to end. Cache and
// store are optional; a nil dependency disables that concern.
type AssessmentService struct {
	logger    *logrus.Logger
	processor Processor
	store     history.Store
	cache     ResultCache
}

// NewAssessmentService creates the assessment service.
func NewAssessmentService(logger *logrus.Logger, processor Processor, store history.Store, resultCache ResultCache) *AssessmentService {
	return &AssessmentService{
		logger:    logger,
		processor: processor,
		store:     store,
		cache:     resultCache,
	}
}

// Assess runs the pipeline for a profile. An identical profile seen
// before is answered from cache and marked Cached; fresh results get a
// new assessment ID and UTC timestamp and are persisted.
func (s *AssessmentService) Assess(ctx context.Context, profile *domain.HealthProfile) (*domain.Assessment, error) {
	start := time.Now()

	key, err := cache.ProfileKey(profile)
	if err != nil {
		return nil, fmt.Errorf("assess: %w", err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.logger.WithFields(logrus.Fields{
				"user_id":       profile.UserID,
				"assessment_id": cached.ID,
			}).Info("Assessment served from cache")

			hit := *cached
			hit.Cached = true
			return &hit, nil
		}
	}

	result, err := s.processor.Process(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("assess: %w", err)
	}

	assessment := &domain.Assessment{
		ID:          uuid.New().String(),
		UserID:      profile.UserID,
		ProfileHash: key,
		Result:      result,
		CreatedAt:   time.Now().UTC(),
	}

	if s.store != nil {
		// The result is already computed; a storage fault costs history,
		// not the response.
		if err := s.store.Save(ctx, assessment); err != nil {
			s.logger.WithError(err).WithField("assessment_id", assessment.ID).
				Error("Failed to persist assessment")
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, assessment)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":       profile.UserID,
		"assessment_id": assessment.ID,
		"confidence":    string(result.Confidence),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Assessment completed")

	return assessment, nil
}

// GetAssessment retrieves a stored assessment by ID.
func (s *AssessmentService) GetAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	if s.store == nil {
		return nil, ErrAssessmentNotFound
	}

	assessment, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	return assessment, nil
}

// ListAssessments returns a user's assessment history, newest first.
func (s *AssessmentService) ListAssessments(ctx context.Context, userID string, limit, offset int) ([]*domain.Assessment, error) {
	if s.store == nil {
		return nil, nil
	}

	list, err := s.store.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return list, nil
}
