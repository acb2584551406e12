package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
)

func TestQueryIntDefault(t *testing.T) {
	r := httptest.NewRequest("GET", "/prices?page=3&limit=abc", nil)

	if got := QueryIntDefault(r, "page", 1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := QueryIntDefault(r, "limit", 20); got != 20 {
		t.Fatalf("malformed int should fall back to default, got %d", got)
	}
	if got := QueryIntDefault(r, "missing", 7); got != 7 {
		t.Fatalf("missing param should fall back to default, got %d", got)
	}
}

func TestQueryStringTrims(t *testing.T) {
	r := httptest.NewRequest("GET", "/prices?registrar=%20Namecheap%20", nil)
	if got := QueryString(r, "registrar"); got != "Namecheap" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestValidateStructOneof(t *testing.T) {
	type query struct {
		SortBy string `json:"sortBy" validate:"omitempty,oneof=registrar extension price"`
	}

	if err := ValidateStruct(query{SortBy: "price"}); err != nil {
		t.Fatalf("valid value rejected: %v", err)
	}
	if err := ValidateStruct(query{}); err != nil {
		t.Fatalf("empty value should pass omitempty: %v", err)
	}

	err := ValidateStruct(query{SortBy: "bogus"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected coded validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["sortBy"] == "" {
		t.Fatalf("expected field detail keyed by json tag, got %v", typed.Details())
	}
}
