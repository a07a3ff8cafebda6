package model

import "time"

// Attendance records a user's booking of a meal.  There is at most one
// row per (UserID, MealID).  Attended starts false and is flipped by the
// check-in desk once the meal is eaten.
type Attendance struct {
	ID        uint64    // attendance.id
	UserID    uint64    // attendance.user_id
	MealID    uint64    // attendance.meal_id
	Attended  bool      // attendance.has_eaten
	CreatedAt time.Time // attendance.created_at
}

// AttendanceDetail is an attendance row joined with its meal, used for
// a user's booking history.
type AttendanceDetail struct {
	ID       uint64    `json:"id"`
	MealID   uint64    `json:"mealId"`
	Title    string    `json:"mealTitle"`
	Type     MealType  `json:"mealType"`
	MealDate time.Time `json:"mealDate"`
	Attended bool      `json:"attended"`
	BookedAt time.Time `json:"bookedAt"`
}

// Feedback is a user's rating of a meal they were served.
type Feedback struct {
	ID        uint64    // feedback.id
	UserID    uint64    // feedback.user_id
	MealID    uint64    // feedback.meal_id
	Rating    int       // feedback.rating (1..5)
	Comment   string    // feedback.comment
	CreatedAt time.Time // feedback.created_at
}
