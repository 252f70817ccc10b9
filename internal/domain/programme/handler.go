package programme

import (
	"net/http"
	"strconv"

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
	api.GET("/programmes", h.List)
	api.POST("/programmes", h.Create)
	api.GET("/programmes/:id", h.Get)
	api.PUT("/programmes/:id", h.Update)
	api.DELETE("/programmes/:id", h.Delete)
}

type ListResponse struct {
	Programmes []*Programme `json:"programmes"`
	Total      int          `json:"total"`
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		Niveau: c.QueryParam("niveau"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("publie"); raw != "" {
		publie, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.Validation("publie invalide: %s", raw)
		}
		f.Publie = &publie
	}
	pg := pagination.FromContext(c)

	items, total, err := h.svc.List(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Programme{}
	}
	return c.JSON(http.StatusOK, apperr.OK(ListResponse{Programmes: items, Total: total}))
}

func (h *Handler) Create(c echo.Context) error {
	var p Programme
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, apperr.OK(&p))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(p))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	p, err := h.svc.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(p))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OKMessage("programme supprimé"))
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("identifiant invalide: %s", c.Param("id"))
	}
	return id, nil
}
