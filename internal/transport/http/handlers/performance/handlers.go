package performancehandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"perfdash/internal/domain/performance"
	"perfdash/internal/requestctx"
	"perfdash/internal/transport/http/api"
	"perfdash/internal/transport/http/middleware"
	"perfdash/internal/transport/http/view"
)

type ProfileService interface {
	Directory(ctx context.Context) (performance.Directory, error)
	Profile(ctx context.Context, employeeID int64) (performance.Profile, error)
}

type Handler struct {
	Service ProfileService
	View    *view.Renderer
}

func NewHandler(service ProfileService, renderer *view.Renderer) *Handler {
	return &Handler{Service: service, View: renderer}
}

// RegisterRoutes mounts the HTML pages. Non-numeric ids never match and fall
// through to the router's not-found handler.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/profile/{empID:[0-9]+}", h.handleProfile)
	r.Get("/profile/{empID:[0-9]+}/pdf", h.handleProfilePDF)
}

func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/employees", h.handleListEmployees)
	r.Get("/employees/{empID:[0-9]+}/profile", h.handleGetProfile)
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	dir, err := h.Service.Directory(r.Context())
	if err != nil {
		h.RenderError(w, r, http.StatusInternalServerError, "Employees could not be loaded.")
		return
	}
	h.render(w, r, http.StatusOK, view.PageIndex, view.IndexPage{Directory: dir, RequestID: middleware.GetRequestID(r.Context())})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, view.PageProfile, view.ProfilePage{Profile: profile, RequestID: middleware.GetRequestID(r.Context())})
}

func (h *Handler) handleProfilePDF(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := performance.WriteProfilePDF(&buf, profile); err != nil {
		requestctx.Logger(r.Context()).Error("profile pdf failed", "employeeId", profile.Employee.ID, "err", err)
		h.RenderError(w, r, http.StatusInternalServerError, "The profile could not be exported.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="employee-%d-profile.pdf"`, profile.Employee.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (performance.Profile, bool) {
	employeeID, err := parseEmployeeID(r)
	if err != nil {
		h.RenderError(w, r, http.StatusNotFound, "Employee not found.")
		return performance.Profile{}, false
	}

	profile, err := h.Service.Profile(r.Context(), employeeID)
	if errors.Is(err, performance.ErrEmployeeNotFound) {
		h.RenderError(w, r, http.StatusNotFound, "Employee not found.")
		return performance.Profile{}, false
	}
	if err != nil {
		h.RenderError(w, r, http.StatusInternalServerError, "The profile could not be loaded.")
		return performance.Profile{}, false
	}
	return profile, true
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	dir, err := h.Service.Directory(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list employees", reqID)
		return
	}
	api.Success(w, dir, reqID)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, err := parseEmployeeID(r)
	if err != nil {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", reqID)
		return
	}

	profile, err := h.Service.Profile(r.Context(), employeeID)
	if errors.Is(err, performance.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to load profile", reqID)
		return
	}
	api.Success(w, profile, reqID)
}

// RenderError writes the HTML error page, falling back to plain text when the
// page itself cannot be rendered.
func (h *Handler) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := view.ErrorPage{Status: status, Message: message, RequestID: middleware.GetRequestID(r.Context())}
	if err := h.View.Render(w, status, view.PageError, page); err != nil {
		requestctx.Logger(r.Context()).Error("render error page failed", "err", err)
		http.Error(w, message, status)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.View.Render(w, status, page, data); err != nil {
		requestctx.Logger(r.Context()).Error("render page failed", "page", page, "err", err)
		h.RenderError(w, r, http.StatusInternalServerError, "The page could not be rendered.")
	}
}

// parseEmployeeID rejects ids that overflow int64; the route pattern has
// already guaranteed digits only.
func parseEmployeeID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "empID"), 10, 64)
}
