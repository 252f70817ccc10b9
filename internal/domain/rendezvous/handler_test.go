package rendezvous

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
)

func newTestHandler(t *testing.T) (*echo.Echo, *Handler, *Service, uuid.UUID) {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(zerolog.Nop())
	svc, _, progID := newTestService()
	return e, NewHandler(svc), svc, progID
}

func TestHandlerCreate_ReturnsEnvelope(t *testing.T) {
	e, h, _, progID := newTestHandler(t)

	body := `{
		"programmeId": "` + progID.String() + `",
		"client": {"nom": "Dupont", "prenom": "Marie", "email": "marie@example.com"},
		"type": "positionnement",
		"date": "2025-03-01T10:00:00Z",
		"heure": "10:00",
		"lieu": "distanciel"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rendezvous", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rec.Code)
	}

	var env struct {
		Success bool       `json:"success"`
		Data    RendezVous `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
	if env.Data.Statut != StatutEnAttente {
		t.Errorf("expected default statut, got %s", env.Data.Statut)
	}
	if env.Data.Date != "2025-03-01" {
		t.Errorf("expected truncated date, got %s", env.Data.Date)
	}
}

func TestHandlerCreate_ValidationMapsTo400(t *testing.T) {
	e, h, _, _ := newTestHandler(t)

	body := `{"client": {"nom": "Dupont", "email": "m@example.com"}, "type": "suivi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rendezvous", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	e.HTTPErrorHandler(err, c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	var env apperr.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if env.Success || env.Code != "VALIDATION_ERROR" || env.Error == "" {
		t.Errorf("wrong error envelope: %+v", env)
	}
}

func TestHandlerGet_NotFoundMapsTo404(t *testing.T) {
	e, h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rendezvous/unknown-id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("unknown-id")

	err := h.Get(c)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}

	e.HTTPErrorHandler(err, c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	var env apperr.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if env.Success || env.Code != "NOT_FOUND" {
		t.Errorf("wrong error envelope: %+v", env)
	}
}

func TestHandlerList_EmptyAndStats(t *testing.T) {
	e, h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rendezvous", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var env struct {
		Success bool         `json:"success"`
		Data    ListResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
	if env.Data.RendezVous == nil {
		t.Error("empty list must serialize as [], not null")
	}
	if env.Data.Total != 0 || env.Data.Stats.Total != 0 {
		t.Errorf("expected empty totals, got %+v", env.Data)
	}
}

func TestHandlerList_RejectsBadFilters(t *testing.T) {
	e, h, _, _ := newTestHandler(t)

	cases := map[string]string{
		"bad programmeId": "/api/v1/rendezvous?programmeId=not-a-uuid",
		"bad dateDebut":   "/api/v1/rendezvous?dateDebut=01/03/2025",
		"bad dateFin":     "/api/v1/rendezvous?dateFin=demain",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if err := h.List(c); !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestHandlerUpdate_PatchBody(t *testing.T) {
	e, h, svc, progID := newTestHandler(t)

	rdv := validInput(progID)
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"statut": "confirme"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rendezvous/"+rdv.ID.String(), strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rdv.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var env struct {
		Success bool       `json:"success"`
		Data    RendezVous `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if env.Data.Statut != StatutConfirme {
		t.Errorf("expected statut confirme, got %s", env.Data.Statut)
	}
	if env.Data.Client.Nom != "Dupont" {
		t.Error("patch must not clear unrelated fields")
	}
}

func TestHandlerDelete_MessageEnvelope(t *testing.T) {
	e, h, svc, progID := newTestHandler(t)

	rdv := validInput(progID)
	if err := svc.Create(context.Background(), rdv); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rendezvous/"+rdv.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rdv.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var env apperr.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !env.Success || env.Message != "rendez-vous supprimé" {
		t.Errorf("wrong delete envelope: %+v", env)
	}
}
