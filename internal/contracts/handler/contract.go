package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"inspirehub/internal/contracts/service"
	httputil "inspirehub/pkg/http"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/middleware"
	"inspirehub/pkg/model"
)

type ContractHandler struct {
	service  service.ContractService
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

func NewContractHandler(service service.ContractService, verifier middleware.TokenVerifier, log *logger.Logger) *ContractHandler {
	return &ContractHandler{
		service:  service,
		verifier: verifier,
		log:      log,
	}
}

type renderRequest struct {
	Overrides map[string]string `json:"overrides"`
}

func (h *ContractHandler) Text(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind := model.ProductKind(ps.ByName("kind"))
	reservationID := r.URL.Query().Get("reservation_id")

	document, err := h.service.RenderText(r.Context(), kind, reservationID, bearerToken(r), nil)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Text", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		h.log.Error("failed to write document body", "handler", "Text", "error", err)
	}
}

// TextWithOverrides is the POST variant accepting custom variables.
func (h *ContractHandler) TextWithOverrides(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind := model.ProductKind(ps.ByName("kind"))
	reservationID := r.URL.Query().Get("reservation_id")

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "TextWithOverrides", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	document, err := h.service.RenderText(r.Context(), kind, reservationID, bearerToken(r), req.Overrides)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TextWithOverrides", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		h.log.Error("failed to write document body", "handler", "TextWithOverrides", "error", err)
	}
}

func (h *ContractHandler) PDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind := model.ProductKind(ps.ByName("kind"))
	reservationID := r.URL.Query().Get("reservation_id")

	document, err := h.service.RenderPDF(r.Context(), kind, reservationID, bearerToken(r), nil)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PDF", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="contract-`+reservationID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		h.log.Error("failed to write PDF body", "handler", "PDF", "error", err)
	}
}

func (h *ContractHandler) RegisterRoutes(router *httprouter.Router) {
	authed := func(route httprouter.Handle) httprouter.Handle {
		return wrap(middleware.Auth(h.verifier, h.log), route)
	}

	router.GET("/api/v1/contracts/:kind/text", authed(h.Text))
	router.POST("/api/v1/contracts/:kind/text", authed(h.TextWithOverrides))
	router.GET("/api/v1/contracts/:kind/pdf", authed(h.PDF))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// wrap bridges an http.Handler middleware onto an httprouter route.
func wrap(mw func(http.Handler) http.Handler, route httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route(w, r, ps)
		})).ServeHTTP(w, r)
	}
}
