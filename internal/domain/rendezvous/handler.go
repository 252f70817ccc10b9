package rendezvous

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
	api.GET("/rendezvous", h.List)
	api.POST("/rendezvous", h.Create)
	api.GET("/rendezvous/:id", h.Get)
	api.PUT("/rendezvous/:id", h.Update)
	api.DELETE("/rendezvous/:id", h.Delete)
}

// ListResponse is the payload of the list endpoint: the page of matching
// appointments, the total match count and the recomputed statistics.
type ListResponse struct {
	RendezVous []*RendezVous `json:"rendezVous"`
	Total      int           `json:"total"`
	Stats      Stats         `json:"stats"`
}

func (h *Handler) List(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	ctx := c.Request().Context()
	items, total, err := h.svc.List(ctx, f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	stats, err := h.svc.StatsFor(ctx, f)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*RendezVous{}
	}
	return c.JSON(http.StatusOK, apperr.OK(ListResponse{
		RendezVous: items,
		Total:      total,
		Stats:      stats,
	}))
}

func (h *Handler) Create(c echo.Context) error {
	var rdv RendezVous
	if err := c.Bind(&rdv); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	if err := h.svc.Create(c.Request().Context(), &rdv); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, apperr.OK(&rdv))
}

func (h *Handler) Get(c echo.Context) error {
	rdv, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(rdv))
}

func (h *Handler) Update(c echo.Context) error {
	var p Patch
	if err := c.Bind(&p); err != nil {
		return apperr.Validation("corps de requête invalide: %v", err)
	}
	rdv, err := h.svc.Update(c.Request().Context(), c.Param("id"), &p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OK(rdv))
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apperr.OKMessage("rendez-vous supprimé"))
}

func filterFromQuery(c echo.Context) (Filter, error) {
	f := Filter{
		Statut: c.QueryParam("statut"),
		Type:   c.QueryParam("type"),
		Lieu:   c.QueryParam("lieu"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("programmeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filter{}, apperr.Validation("programmeId invalide: %s", raw)
		}
		f.ProgrammeID = &id
	}
	// Range bounds follow the same truncation rule as stored dates so the
	// string comparisons stay consistent.
	if raw := c.QueryParam("dateDebut"); raw != "" {
		date, err := NormalizeDate(raw)
		if err != nil {
			return Filter{}, apperr.Validation("dateDebut: %v", err)
		}
		f.DateDebut = date
	}
	if raw := c.QueryParam("dateFin"); raw != "" {
		date, err := NormalizeDate(raw)
		if err != nil {
			return Filter{}, apperr.Validation("dateFin: %v", err)
		}
		f.DateFin = date
	}
	return f, nil
}
