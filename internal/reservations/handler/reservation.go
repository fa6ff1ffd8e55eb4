package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"inspirehub/internal/reservations/service"
	httputil "inspirehub/pkg/http"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/middleware"
	"inspirehub/pkg/model"
)

type ReservationHandler struct {
	service  service.ReservationService
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

func NewReservationHandler(service service.ReservationService, verifier middleware.TokenVerifier, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service:  service,
		verifier: verifier,
		log:      log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &reservation); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	status := query.Get("status")
	kind := model.ProductKind(query.Get("kind"))

	reservations, total, err := h.service.GetAll(r.Context(), status, kind, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// Occupancy serves the seat/office map: the set of resource ids held by
// active reservations for one product kind.
func (h *ReservationHandler) Occupancy(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	kind := model.ProductKind(r.URL.Query().Get("kind"))

	occupied, err := h.service.OccupiedResources(r.Context(), kind)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Occupancy", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"kind":     kind,
		"occupied": occupied,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Occupancy", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Extend(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req model.ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Extend", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	extended, err := h.service.Extend(r.Context(), id, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Extend", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, extended); err != nil {
		h.log.Error("failed to write success response", "handler", "Extend", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Deactivate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	authed := func(route httprouter.Handle) httprouter.Handle {
		return wrap(middleware.Auth(h.verifier, h.log), route)
	}
	// Deactivation and deletion are destructive; they additionally demand a
	// fresh re-authentication token.
	destructive := func(route httprouter.Handle) httprouter.Handle {
		return authed(wrap(middleware.RequireReauth(h.verifier, h.log), route))
	}

	router.POST("/api/v1/reservations", authed(h.Create))
	router.GET("/api/v1/reservations", authed(h.GetAll))
	router.GET("/api/v1/reservations/occupancy", authed(h.Occupancy))
	router.GET("/api/v1/reservations/id/:id", authed(h.GetByID))
	router.PATCH("/api/v1/reservations/id/:id", authed(h.Update))
	router.POST("/api/v1/reservations/id/:id/extend", authed(h.Extend))
	router.POST("/api/v1/reservations/id/:id/deactivate", destructive(h.Deactivate))
	router.DELETE("/api/v1/reservations/id/:id", destructive(h.Delete))
}

// wrap bridges an http.Handler middleware onto an httprouter route.
func wrap(mw func(http.Handler) http.Handler, route httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route(w, r, ps)
		})).ServeHTTP(w, r)
	}
}
