package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/quota"
	"github.com/falahalshidi/shrfa-app/internal/utils"
)

type purchaseRequest struct {
	FestivalID string `json:"festival_id"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) PurchaseBooking(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &errs.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	festival, err := h.Catalog.Get(r.Context(), req.FestivalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if festival == nil {
		h.respond(w, http.StatusNotFound, utils.ErrorResponse("festival not found", "not_found"))
		return
	}

	result, err := h.Booking.Purchase(r.Context(), user, festival, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.respond(w, http.StatusCreated, utils.SuccessResponse("booking created", result))
}

// GetBooking returns one booking with its issued tickets.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	result, err := h.Booking.Booking(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		h.respond(w, http.StatusNotFound, utils.ErrorResponse("booking not found", "not_found"))
		return
	}
	if result.Booking.UserID != user.ID && !user.IsAdmin {
		h.respond(w, http.StatusForbidden, utils.ErrorResponse("not your booking", "forbidden"))
		return
	}
	h.respond(w, http.StatusOK, utils.SuccessResponse("booking", result))
}

func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}
	tickets := h.Booking.TicketsByUser(r.Context(), user.ID)
	h.respond(w, http.StatusOK, utils.SuccessResponse("tickets", tickets))
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	ticket, err := h.Booking.Ticket(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		h.respond(w, http.StatusNotFound, utils.ErrorResponse("ticket not found", "not_found"))
		return
	}
	if ticket.UserID != user.ID && !user.IsAdmin {
		h.respond(w, http.StatusForbidden, utils.ErrorResponse("not your ticket", "forbidden"))
		return
	}
	h.respond(w, http.StatusOK, utils.SuccessResponse("ticket", ticket))
}

// TicketQR serves the stored scannable image for one ticket.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	ticket, err := h.Booking.Ticket(r.Context(), chi.URLParam(r, "ticketID"))
	if err != nil {
		h.respond(w, http.StatusNotFound, utils.ErrorResponse("ticket not found", "not_found"))
		return
	}
	if ticket.UserID != user.ID && !user.IsAdmin {
		h.respond(w, http.StatusForbidden, utils.ErrorResponse("not your ticket", "forbidden"))
		return
	}
	if len(ticket.QRCode) == 0 {
		h.respond(w, http.StatusNotFound, utils.ErrorResponse("no QR stored for ticket", "not_found"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(ticket.QRCode)
}

// RemainingQuota reports how many tickets the user may still book today.
func (h *Handler) RemainingQuota(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}
	remaining := h.Quota.Remaining(r.Context(), user.ID)
	h.respond(w, http.StatusOK, utils.SuccessResponse("quota", map[string]int{
		"daily_cap": quota.DailyCap,
		"remaining": remaining,
	}))
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Admin.Stats(r.Context())
	h.respond(w, http.StatusOK, utils.SuccessResponse("stats", stats))
}
