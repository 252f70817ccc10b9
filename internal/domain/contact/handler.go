package contact

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gestionmax/formation-api/internal/platform/apperr"
	"github.com/gestionmax/formation-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the unauthenticated submission endpoint.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/contacts", h.Submit)
}

// RegisterAdminRoutes mounts the triage endpoints on the authenticated group.
func (h *Handler) RegisterAdminRoutes(api *echo.Group) {
	api.GET("/contacts", h.List)
	api.GET("/contacts/:id", h.Get)
	api.PUT("/contacts/:id/statut", h.SetStatut)
	api.DELETE("/contacts/:id", h.Delete)
}

type ListResponse struct {
	Contacts []*Contact `json:"contacts"`
	Total    int        `json:"total"`
}

func (h *Handler) Submit(c echo.Context) error {
	var m Contact
	if err := c.Bind(&m); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	if err := h.svc.Submit(c.Request().Context(), &m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, apperr.OKMessage("message envoyé"))
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Statut: c.QueryParam("statut"),
		Search: c.QueryParam("search"),
	}
	pg := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Contact{}
	}
	return c.JSON(http.StatusOK, apperr.OK(ListResponse{Contacts: items, Total: total}))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(m))
}

func (h *Handler) SetStatut(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body struct {
		Statut string `json:"statut"`
	}
	if err := c.Bind(&body); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	m, err := h.svc.SetStatut(c.Request().Context(), id, body.Statut)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(m))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OKMessage("message supprimé"))
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("identifiant invalide: %s", c.Param("id"))
	}
	return id, nil
}
