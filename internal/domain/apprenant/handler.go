package apprenant

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/apprenants", h.List)
	api.POST("/apprenants", h.Create)
	api.GET("/apprenants/:id", h.Get)
	api.PUT("/apprenants/:id", h.Update)
	api.DELETE("/apprenants/:id", h.Delete)
}

type ListResponse struct {
	Apprenants []*Apprenant `json:"apprenants"`
	Total      int          `json:"total"`
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Statut: c.QueryParam("statut"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("programmeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("programmeId invalide: %s", raw)
		}
		f.ProgrammeID = &id
	}
	pg := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Apprenant{}
	}
	return c.JSON(http.StatusOK, apperr.OK(ListResponse{Apprenants: items, Total: total}))
}

func (h *Handler) Create(c echo.Context) error {
	var a Apprenant
	if err := c.Bind(&a); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, apperr.OK(&a))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(a))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var p Patch
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	a, err := h.svc.Update(c.Request().Context(), id, &p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(a))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OKMessage("apprenant supprimé"))
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("identifiant invalide: %s", c.Param("id"))
	}
	return id, nil
}
