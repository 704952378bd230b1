package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"dependency", Dependency("db", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", Forbidden("no")), http.StatusForbidden},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.want, got)
		}
	}
}

func TestErrorMessagePrefersMessageOverCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Dependency("Error submitting labels", cause)
	if err.Error() != "Error submitting labels" {
		t.Fatalf("message: got=%q", err.Error())
	}
	if err.Cause() != "connection reset" {
		t.Fatalf("cause: got=%q", err.Cause())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is: expected cause in chain")
	}
}
