package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("missing field"), http.StatusBadRequest},
		{Auth("bad credentials"), http.StatusUnauthorized},
		{NotFound("no such user"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Server("boom"), http.StatusInternalServerError},
		{errors.New("raw store error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("refresh session: %w", Auth("refresh token mismatch"))
	if got := KindOf(wrapped); got != KindAuth {
		t.Fatalf("expected KindAuth, got %v", got)
	}
}

func TestDetailsCarried(t *testing.T) {
	err := Validation("please provide all fields", "username is required", "password is required")
	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("expected *Error")
	}
	if len(appErr.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(appErr.Details))
	}
}
