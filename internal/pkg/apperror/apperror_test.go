package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"conflict", Conflict("duplicate"), http.StatusBadRequest},
		{"auth", Auth("denied"), http.StatusUnauthorized},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"internal", Internal("boom", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("repository call: %w", Internal("lookup failed", cause))

	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("As() did not find AppError in chain")
	}
	if appErr.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", appErr.Kind)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped cause lost from chain")
	}
}

func TestAsOnForeignError(t *testing.T) {
	if _, ok := As(errors.New("plain")); ok {
		t.Error("As() matched a non-AppError")
	}
}

func TestInternalErrorKeepsCause(t *testing.T) {
	err := Internal("lookup failed", errors.New("dsn secret"))
	if err.Message != "lookup failed" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() == err.Message {
		t.Error("Error() should include the wrapped cause")
	}
}
