package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated: http.StatusUnauthorized,
		Forbidden:       http.StatusForbidden,
		NotFound:        http.StatusNotFound,
		Conflict:        http.StatusConflict,
		Validation:      http.StatusBadRequest,
		Internal:        http.StatusInternalServerError,
	}
	for k, want := range cases {
		if got := k.Status(); got != want {
			t.Errorf("%s: expected %d, got %d", k, want, got)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("book: %w", New(Conflict, "already booked"))
	if KindOf(err) != Conflict {
		t.Errorf("expected conflict, got %s", KindOf(err))
	}
	if PublicMessage(err) != "already booked" {
		t.Errorf("unexpected message %q", PublicMessage(err))
	}
}

func TestInternalHidesCause(t *testing.T) {
	err := Wrap(sql.ErrConnDone, Internal, "load meals")
	if PublicMessage(err) != "internal server error" {
		t.Errorf("internal detail leaked: %q", PublicMessage(err))
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Error("cause should stay reachable through Unwrap")
	}
	if KindOf(errors.New("plain")) != Internal {
		t.Error("plain errors should be internal")
	}
}
