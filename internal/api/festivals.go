package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/falahalshidi/shrfa-app/internal/catalog"
	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/models"
	"github.com/falahalshidi/shrfa-app/internal/utils"
)

// festivalRequest is the admin form payload. Activities arrive as free text
// and are split server-side.
type festivalRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	WorkingHours string `json:"working_hours"`
	Activities   string `json:"activities"`
	PriceBaisa   int64  `json:"price_baisa"`
	ImageURL     string `json:"image_url"`
}

func (h *Handler) ListFestivals(w http.ResponseWriter, r *http.Request) {
	festivals := h.Catalog.List(r.Context())
	h.respond(w, http.StatusOK, utils.SuccessResponse("festivals", festivals))
}

// AdminListFestivals persists the seed list into an empty store before
// listing, making it the durable source of truth.
func (h *Handler) AdminListFestivals(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.EnsureSeeded(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	festivals := h.Catalog.List(r.Context())
	h.respond(w, http.StatusOK, utils.SuccessResponse("festivals", festivals))
}

func (h *Handler) SaveFestival(w http.ResponseWriter, r *http.Request) {
	var req festivalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &errs.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	festival := models.Festival{
		ID:           req.ID,
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		WorkingHours: req.WorkingHours,
		Activities:   catalog.ParseActivities(req.Activities),
		PriceBaisa:   req.PriceBaisa,
		ImageURL:     req.ImageURL,
	}

	if err := h.Catalog.Save(r.Context(), &festival); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, utils.SuccessResponse("festival saved", festival))
}

func (h *Handler) DeleteFestival(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "festivalID")
	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, utils.SuccessResponse("festival deleted", nil))
}
