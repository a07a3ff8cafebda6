// Package repository holds the SQL data access layer.  Sentinel errors
// defined here let services tell store outcomes apart without parsing
// driver messages themselves.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrMealNotFound is returned when no meal has the requested id.
	ErrMealNotFound = errors.New("meal not found")

	// ErrAlreadyBooked is returned when the (user, meal) unique index
	// rejects a booking insert.
	ErrAlreadyBooked = errors.New("already booked")

	// ErrEmailExists is returned when registering an email twice.
	ErrEmailExists = errors.New("email already exists")

	// ErrFeedbackExists is returned when a user rates the same meal twice.
	ErrFeedbackExists = errors.New("feedback already submitted")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-constraint violation.  The
// SQLite message is matched so the same code runs against the test store.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
