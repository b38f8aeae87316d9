package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("open register: %w", NewConflictError("Register is already open"))
	if !errors.Is(err, ErrConflict) {
		t.Error("expected conflict to match ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("conflict must not match ErrNotFound")
	}
	if !errors.Is(NewFieldError("total", "mismatch"), ErrValidation) {
		t.Error("field error should be a validation error")
	}
}

func TestPersistenceErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError(cause)

	if !errors.Is(err, cause) {
		t.Error("cause not reachable through errors.Is")
	}
	if err.Message != "Storage unavailable" {
		t.Errorf("client message leaked cause: %q", err.Message)
	}
	if err.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", err.Code)
	}
}

func TestGetAppError(t *testing.T) {
	if got := GetAppError(NewNotFoundError("Register session")); got.Code != http.StatusNotFound {
		t.Errorf("code = %d", got.Code)
	}
	got := GetAppError(errors.New("boom"))
	if got.Code != http.StatusInternalServerError || got.Message != "Storage unavailable" {
		t.Errorf("unexpected %+v", got)
	}
}
