package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/snehachill/meal-booking/internal/apperr"
	"github.com/snehachill/meal-booking/internal/config"
	"github.com/snehachill/meal-booking/internal/model"
	"github.com/snehachill/meal-booking/internal/stats"
)

// UserCounter counts users by role.
type UserCounter interface {
	CountByRole(ctx context.Context, role model.Role) (int64, error)
}

// BookingCounter answers the booking totals the dashboard needs.
type BookingCounter interface {
	Count(ctx context.Context) (int64, error)
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

// FeedbackStats answers the rating totals the dashboard needs.
type FeedbackStats interface {
	Count(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
}

// DashboardService composes the admin dashboard from independent reads.
type DashboardService struct {
	Users     UserCounter
	Meals     MealStore
	Bookings  BookingCounter
	Feedback  FeedbackStats
	TrendMode string // config.TrendHistory or config.TrendEstimate
	Location  *time.Location
	Now       func() time.Time
	Rand      *rand.Rand // estimate mode only; seeded from the clock when nil
}

// Stats loads the totals and every meal and builds the dashboard payload.
func (s *DashboardService) Stats(ctx context.Context) (stats.Dashboard, error) {
	var (
		t   stats.Totals
		err error
	)
	if t.Users, err = s.Users.CountByRole(ctx, model.RoleUser); err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "count users")
	}
	if t.Meals, err = s.Meals.Count(ctx); err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "count meals")
	}
	if t.Attendance, err = s.Bookings.Count(ctx); err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "count bookings")
	}
	if t.Feedback, err = s.Feedback.Count(ctx); err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "count feedback")
	}
	if t.AvgRating, err = s.Feedback.AverageRating(ctx); err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "average rating")
	}

	meals, err := s.Meals.ListWithBookings(ctx, time.Time{})
	if err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "list meals")
	}
	trend, err := s.trend(ctx, t.Attendance)
	if err != nil {
		return stats.Dashboard{}, apperr.Wrap(err, apperr.Internal, "attendance trend")
	}
	return stats.Compose(t, meals, trend), nil
}

func (s *DashboardService) trend(ctx context.Context, total int64) ([]stats.TrendPoint, error) {
	now := s.now()
	if s.TrendMode == config.TrendEstimate {
		rng := s.Rand
		if rng == nil {
			seed := uint64(now.UnixNano())
			rng = rand.New(rand.NewPCG(seed, seed>>1))
		}
		return stats.EstimateTrend(total, now, rng), nil
	}
	times, err := s.Bookings.CreatedSince(ctx, stats.TrendSince(now))
	if err != nil {
		return nil, err
	}
	return stats.HistoryTrend(times, now), nil
}

func (s *DashboardService) now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	if s.Now != nil {
		return s.Now().In(loc)
	}
	return time.Now().In(loc)
}
