package validators

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type sample struct {
	Email string `validate:"required,email"`
	Count int    `validate:"min=1,max=10"`
}

func TestValidateOK(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(&sample{Email: "a@b.com", Count: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFailure(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&sample{Email: "nope", Count: 0})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err = %T, want *echo.HTTPError", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", httpErr.Code)
	}
}
