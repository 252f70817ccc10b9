package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestKindMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		code   string
		status int
	}{
		{KindValidation, "VALIDATION_ERROR", http.StatusBadRequest},
		{KindNotFound, "NOT_FOUND", http.StatusNotFound},
		{KindConflict, "CONFLICT", http.StatusBadRequest},
		{KindStore, "STORE_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.kind.Code(); got != tc.code {
			t.Errorf("code for %v: got %s, want %s", tc.kind, got, tc.code)
		}
		if got := tc.kind.Status(); got != tc.status {
			t.Errorf("status for %v: got %d, want %d", tc.kind, got, tc.status)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NotFound("x")) || IsNotFound(Validation("x")) {
		t.Error("IsNotFound misclassifies")
	}
	if !IsValidation(Validation("x")) || IsValidation(Conflict("x")) {
		t.Error("IsValidation misclassifies")
	}
	if !IsConflict(Conflict("x")) || IsConflict(Store(errors.New("x"))) {
		t.Error("IsConflict misclassifies")
	}
	// Predicates see through wrapping.
	wrapped := fmt.Errorf("listing: %w", NotFound("rien"))
	if !IsNotFound(wrapped) {
		t.Error("expected predicate to unwrap")
	}
}

func TestStoreKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store(cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if err.Message != "erreur interne du serveur" {
		t.Errorf("store message must stay generic, got %q", err.Message)
	}
}

func errorHandlerResponse(t *testing.T, err error) (int, Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(zerolog.Nop())(err, c)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return rec.Code, env
}

func TestHTTPErrorHandler_AppErrors(t *testing.T) {
	status, env := errorHandlerResponse(t, NotFound("rendez-vous abc introuvable"))
	if status != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", status)
	}
	if env.Success || env.Code != "NOT_FOUND" || !strings.Contains(env.Error, "introuvable") {
		t.Errorf("wrong envelope: %+v", env)
	}

	status, env = errorHandlerResponse(t, Conflict("code déjà utilisé"))
	if status != http.StatusBadRequest || env.Code != "CONFLICT" {
		t.Errorf("conflict mapping wrong: %d %+v", status, env)
	}
}

func TestHTTPErrorHandler_StoreHidesCause(t *testing.T) {
	status, env := errorHandlerResponse(t, Store(errors.New("pq: relation does not exist")))
	if status != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if strings.Contains(env.Error, "relation") {
		t.Error("driver internals must not reach the caller")
	}
	if env.Error != "erreur interne du serveur" || env.Code != "STORE_ERROR" {
		t.Errorf("wrong envelope: %+v", env)
	}
}

func TestHTTPErrorHandler_EchoAndUnknown(t *testing.T) {
	status, env := errorHandlerResponse(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	if status != http.StatusMethodNotAllowed || env.Code != "HTTP_ERROR" {
		t.Errorf("echo error mapping wrong: %d %+v", status, env)
	}

	status, env = errorHandlerResponse(t, errors.New("boom"))
	if status != http.StatusInternalServerError || env.Success {
		t.Errorf("unknown error mapping wrong: %d %+v", status, env)
	}
	if strings.Contains(env.Error, "boom") {
		t.Error("unexpected error detail leaked to the caller")
	}
}
