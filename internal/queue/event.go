// Package queue defines the messages exchanged over the broker and the
// consumer that keeps the booking ledger.
package queue

// MealBookedQueue is the durable queue booking events are published to.
const MealBookedQueue = "meal.booked"

// MealBookedEvent is published after a booking is stored.  It carries
// enough of the meal for the ledger to be written without a database
// lookup.
type MealBookedEvent struct {
	AttendanceID uint64 `json:"attendance_id"`
	UserID       uint64 `json:"user_id"`
	MealID       uint64 `json:"meal_id"`
	MealTitle    string `json:"meal_title"`
	MealType     string `json:"meal_type"`
	MealDate     string `json:"meal_date"`
	BookedAt     string `json:"booked_at"`
}
