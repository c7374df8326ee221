// Package api is the HTTP surface: stateless handlers wired to the catalog,
// booking, quota and admin services.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/falahalshidi/shrfa-app/internal/admin"
	"github.com/falahalshidi/shrfa-app/internal/auth"
	"github.com/falahalshidi/shrfa-app/internal/booking"
	"github.com/falahalshidi/shrfa-app/internal/catalog"
	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/identity"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/models"
	"github.com/falahalshidi/shrfa-app/internal/quota"
	"github.com/falahalshidi/shrfa-app/internal/utils"
)

const minPasswordLength = 6

type Handler struct {
	Auth     auth.Provider
	Identity *identity.Service
	Catalog  *catalog.Service
	Booking  *booking.Service
	Quota    *quota.Service
	Admin    *admin.Service
	Logger   *logger.Logger
}

func (h *Handler) respond(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("failed to write response: %v", err))
	}
}

// writeError maps the typed error kinds to statuses and specific messages.
// Only unclassified transient failures get a generic message.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validation *errs.ValidationError
	var quotaErr *errs.QuotaExceededError
	var duplicate *errs.DuplicateAccountError
	var partial *errs.PartialFailureError

	switch {
	case errors.As(err, &validation):
		h.respond(w, http.StatusBadRequest, utils.ErrorResponse(validation.Error(), "validation_error"))
	case errors.As(err, &quotaErr):
		h.respond(w, http.StatusUnprocessableEntity, utils.ErrorResponse(quotaErr.Error(), "quota_exceeded"))
	case errors.As(err, &duplicate):
		h.respond(w, http.StatusConflict, utils.ErrorResponse(duplicate.Error(), "duplicate_account"))
	case errors.As(err, &partial):
		h.respond(w, http.StatusInternalServerError, utils.ErrorResponse(partial.Error(), "partial_failure"))
	default:
		h.Logger.Error("HTTP", fmt.Sprintf("unclassified error: %v", err))
		h.respond(w, http.StatusInternalServerError, utils.ErrorResponse("request failed, please retry", "internal_error"))
	}
}

// resolveUser turns the request's authenticated principal into an application
// user, or writes 401 and returns nil.
func (h *Handler) resolveUser(w http.ResponseWriter, r *http.Request) *models.User {
	principal := auth.PrincipalFrom(r.Context())
	if principal == nil {
		h.respond(w, http.StatusUnauthorized, utils.ErrorResponse("not authenticated", "unauthorized"))
		return nil
	}
	user, err := h.Identity.Resolve(r.Context(), principal)
	if err != nil || user == nil {
		h.respond(w, http.StatusUnauthorized, utils.ErrorResponse("session could not be resolved", "unauthorized"))
		return nil
	}
	return user
}

// RequireAdmin guards the admin route group.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := h.resolveUser(w, r)
		if user == nil {
			return
		}
		if !user.IsAdmin {
			h.respond(w, http.StatusForbidden, utils.ErrorResponse("admin access required", "forbidden"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------- AUTH ----------------

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &errs.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	if !strings.Contains(req.Email, "@") {
		h.writeError(w, &errs.ValidationError{Field: "email", Reason: "must be a valid email address"})
		return
	}
	if len(req.Password) < minPasswordLength {
		h.writeError(w, &errs.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
		return
	}

	session, err := h.Auth.SignUp(r.Context(), req.Email, req.Password, auth.Metadata{
		FullName: req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.Identity.Resolve(r.Context(), session.Principal)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.Logger.LogAuth("REGISTERED", req.Email)
	h.respond(w, http.StatusCreated, utils.SuccessResponse("account created",
		sessionResponse{User: user, AccessToken: session.AccessToken}))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &errs.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	session, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var transient *errs.TransientIOError
		if errors.As(err, &transient) {
			h.writeError(w, err)
			return
		}
		h.respond(w, http.StatusUnauthorized, utils.ErrorResponse("invalid email or password", "invalid_credentials"))
		return
	}

	user, err := h.Identity.Resolve(r.Context(), session.Principal)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.Logger.LogAuth("SIGNED_IN", req.Email)
	h.respond(w, http.StatusOK, utils.SuccessResponse("signed in",
		sessionResponse{User: user, AccessToken: session.AccessToken}))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.SignOut(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.respond(w, http.StatusOK, utils.SuccessResponse("signed out", nil))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}
	h.respond(w, http.StatusOK, utils.SuccessResponse("session resolved", user))
}
