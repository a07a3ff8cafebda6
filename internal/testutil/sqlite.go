// Package testutil opens throwaway SQLite databases carrying the same
// tables as the MySQL schema, for repository and handler tests.
package testutil

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/snehachill/meal-booking/internal/database"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

var dbSeq atomic.Int64

// NewDB returns an in-memory SQLite database with the schema applied and
// foreign keys enforced.  It is closed when the test ends.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("test%d", dbSeq.Add(1))
	db, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_foreign_keys=1")
	if err != nil {
		t.Fatalf("could not open database connection: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range database.Statements(sqliteSchema) {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("could not execute schema: %v", err)
		}
	}
	return db
}

// MustExec runs a fixture statement and returns the inserted row id.
func MustExec(t *testing.T, db *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("fixture %q failed: %v", query, err)
	}
	id, _ := res.LastInsertId()
	return id
}
