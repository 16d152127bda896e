package errors

import (
	"fmt"
	"testing"
)

func TestErdeError_Error(t *testing.T) {
	err := &ErdeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "not found: 01J",
	}

	expected := "NOT_FOUND: not found: 01J"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("prompt is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "prompt is required" {
		t.Errorf("Message = %q, want %q", err.Message, "prompt is required")
	}
}

func TestNewUserExists(t *testing.T) {
	err := NewUserExists("a@b.c")

	if err.Code != ErrUserExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrUserExists)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["email"] != "a@b.c" {
		t.Errorf("Details[email] = %v, want %q", err.Details["email"], "a@b.c")
	}
}

func TestNewInvalidCredentials(t *testing.T) {
	err := NewInvalidCredentials()

	if err.Code != ErrInvalidCredentials {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidCredentials)
	}
	if err.Status != 401 {
		t.Errorf("Status = %d, want 401", err.Status)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HX")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01HX" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01HX")
	}
}

func TestNewOptimizationBlocked(t *testing.T) {
	err := NewOptimizationBlocked("fix warnings first", 2)

	if err.Code != ErrOptimizationBlocked {
		t.Errorf("Code = %q, want %q", err.Code, ErrOptimizationBlocked)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Message != "fix warnings first" {
		t.Errorf("Message = %q, want reason verbatim", err.Message)
	}
	if err.Details["warnings"] != 2 {
		t.Errorf("Details[warnings] = %v, want 2", err.Details["warnings"])
	}
}

func TestNewMissingCredential(t *testing.T) {
	err := NewMissingCredential()

	if err.Code != ErrMissingCredential {
		t.Errorf("Code = %q, want %q", err.Code, ErrMissingCredential)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
}

func TestNewProviderExhausted(t *testing.T) {
	t.Run("carries last error message", func(t *testing.T) {
		err := NewProviderExhausted(fmt.Errorf("429 quota exceeded"), []string{"a", "b"})

		if err.Code != ErrProviderExhausted {
			t.Errorf("Code = %q, want %q", err.Code, ErrProviderExhausted)
		}
		if err.Message != "429 quota exceeded" {
			t.Errorf("Message = %q, want last error message", err.Message)
		}
		if c, ok := err.Details["candidates"].([]string); !ok || len(c) != 2 {
			t.Errorf("Details[candidates] = %v, want 2 candidates", err.Details["candidates"])
		}
	})

	t.Run("generic message without error", func(t *testing.T) {
		err := NewProviderExhausted(nil, nil)
		if err.Message == "" {
			t.Error("Message should not be empty")
		}
	})
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		if !Is(NewNotFound("x"), ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		if Is(NewNotFound("x"), ErrUserExists) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if Is(fmt.Errorf("plain error"), ErrNotFound) {
			t.Error("Is() = true, want false for plain error")
		}
	})

	t.Run("wrapped ErdeError", func(t *testing.T) {
		wrapped := fmt.Errorf("optimize: %w", NewMissingCredential())
		if !Is(wrapped, ErrMissingCredential) {
			t.Error("Is() = false, want true for wrapped ErdeError")
		}
	})
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", NewUserExists("x@y.z"))
	if got := As(wrapped); got.Code != ErrUserExists {
		t.Errorf("As().Code = %q, want %q", got.Code, ErrUserExists)
	}

	if got := As(fmt.Errorf("boom")); got.Code != ErrInternal {
		t.Errorf("As().Code = %q, want %q", got.Code, ErrInternal)
	}
}
