package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"afyaconnect_back_end_go/cache"
	"afyaconnect_back_end_go/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const statisticsCacheKey = "afyaconnect:statistics"

type StatisticsService struct {
	db    *sql.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewStatisticsService builds the service. c may be nil, in which case every
// call hits the database.
func NewStatisticsService(db *sql.DB, c cache.Cache, ttl time.Duration) *StatisticsService {
	return &StatisticsService{db: db, cache: c, ttl: ttl}
}

func (s *StatisticsService) Get(ctx context.Context) (*models.Statistics, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, statisticsCacheKey); err == nil {
			var stats models.Statistics
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			log.WithError(err).Warn("statistics cache read failed")
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		data, _ := json.Marshal(stats)
		if err := s.cache.Set(ctx, statisticsCacheKey, data, s.ttl); err != nil {
			log.WithError(err).Warn("statistics cache write failed")
		}
	}
	return stats, nil
}

func (s *StatisticsService) compute(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	var satisfied int
	err := s.db.QueryRowContext(ctx, `
	SELECT
		(SELECT COUNT(*) FROM hospitals),
		(SELECT COUNT(*) FROM testimonials WHERE status = 'approved'),
		(SELECT COUNT(*) FROM inquiries),
		(SELECT COUNT(DISTINCT LOWER(country)) FROM testimonials WHERE status = 'approved'),
		(SELECT COALESCE(AVG(rating_average), 0) FROM hospitals),
		(SELECT COUNT(*) FROM testimonials WHERE status = 'approved' AND rating >= 4)`,
	).Scan(
		&stats.Hospitals,
		&stats.Testimonials,
		&stats.Inquiries,
		&stats.CountriesServed,
		&stats.AverageRating,
		&satisfied,
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute statistics")
	}

	stats.AverageRating = round1(stats.AverageRating)
	if stats.Testimonials > 0 {
		stats.SatisfactionRate = round1(float64(satisfied) * 100 / float64(stats.Testimonials))
	}
	return &stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
