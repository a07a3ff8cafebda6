package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snehachill/meal-booking/internal/apperr"
	"github.com/snehachill/meal-booking/internal/model"
	"github.com/snehachill/meal-booking/internal/queue"
	"github.com/snehachill/meal-booking/internal/repository"
)

const publishTimeout = 5 * time.Second

// MealGetter loads a single meal.
type MealGetter interface {
	GetByID(ctx context.Context, id uint64) (model.Meal, error)
}

// AttendanceCreator inserts a booking, failing with
// repository.ErrAlreadyBooked when the pair already exists.
type AttendanceCreator interface {
	Create(ctx context.Context, userID, mealID uint64, now time.Time) (model.Attendance, error)
}

// FeedbackCreator inserts a rating, failing with
// repository.ErrFeedbackExists when the pair already exists.
type FeedbackCreator interface {
	Create(ctx context.Context, f *model.Feedback) error
}

// EventPublisher delivers booking events.
type EventPublisher interface {
	PublishMealBooked(ctx context.Context, ev queue.MealBookedEvent) error
}

// BookingService admits bookings and ratings.
type BookingService struct {
	Meals      MealGetter
	Attendance AttendanceCreator
	Feedback   FeedbackCreator
	Events     EventPublisher // optional
	Now        func() time.Time
	Log        logrus.FieldLogger
}

// Book reserves mealID for userID.  Past meals are refused before the
// store is touched; a second booking of the same meal is reported by the
// store's unique index and surfaces as a Conflict.
func (s *BookingService) Book(ctx context.Context, userID, mealID uint64) (model.Attendance, error) {
	if mealID == 0 {
		return model.Attendance{}, apperr.New(apperr.Validation, "mealId is required")
	}
	meal, err := s.Meals.GetByID(ctx, mealID)
	if errors.Is(err, repository.ErrMealNotFound) {
		return model.Attendance{}, apperr.Wrap(err, apperr.NotFound, "meal not found")
	}
	if err != nil {
		return model.Attendance{}, apperr.Wrap(err, apperr.Internal, "load meal")
	}

	now := s.now()
	if meal.Date.Before(now) {
		return model.Attendance{}, apperr.New(apperr.Validation, "cannot book past meals")
	}

	a, err := s.Attendance.Create(ctx, userID, mealID, now)
	if errors.Is(err, repository.ErrAlreadyBooked) {
		return model.Attendance{}, apperr.Wrap(err, apperr.Conflict, "already booked")
	}
	if err != nil {
		return model.Attendance{}, apperr.Wrap(err, apperr.Internal, "create booking")
	}

	s.publish(ctx, queue.MealBookedEvent{
		AttendanceID: a.ID,
		UserID:       userID,
		MealID:       mealID,
		MealTitle:    meal.Title,
		MealType:     string(meal.Type),
		MealDate:     meal.Date.UTC().Format(time.RFC3339),
		BookedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
	})
	return a, nil
}

// publish sends ev in the background.  Failures are logged only.
func (s *BookingService) publish(ctx context.Context, ev queue.MealBookedEvent) {
	if s.Events == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	go func() {
		defer cancel()
		if err := s.Events.PublishMealBooked(pctx, ev); err != nil {
			s.logger().WithError(err).WithField("attendance_id", ev.AttendanceID).Warn("publish meal.booked failed")
		}
	}()
}

// Rate stores a 1..5 rating for a meal.  One rating per user and meal.
func (s *BookingService) Rate(ctx context.Context, userID, mealID uint64, rating int, comment string) (model.Feedback, error) {
	if rating < 1 || rating > 5 {
		return model.Feedback{}, apperr.New(apperr.Validation, "rating must be between 1 and 5")
	}
	if _, err := s.Meals.GetByID(ctx, mealID); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return model.Feedback{}, apperr.Wrap(err, apperr.NotFound, "meal not found")
		}
		return model.Feedback{}, apperr.Wrap(err, apperr.Internal, "load meal")
	}

	f := model.Feedback{
		UserID:    userID,
		MealID:    mealID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: s.now(),
	}
	if err := s.Feedback.Create(ctx, &f); err != nil {
		if errors.Is(err, repository.ErrFeedbackExists) {
			return model.Feedback{}, apperr.Wrap(err, apperr.Conflict, "feedback already submitted")
		}
		return model.Feedback{}, apperr.Wrap(err, apperr.Internal, "create feedback")
	}
	return f, nil
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *BookingService) logger() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}
