package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"inspirehub/internal/auth/service"
	httputil "inspirehub/pkg/http"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/middleware"
	"inspirehub/pkg/model"
)

type AuthHandler struct {
	service  service.AuthService
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

func NewAuthHandler(service service.AuthService, verifier middleware.TokenVerifier, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		verifier: verifier,
		log:      log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Login", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	session, err := h.service.Login(r.Context(), &creds)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

// Reauth exchanges a fresh password check for a short-lived reauth token. The
// caller must already hold a valid session.
func (h *AuthHandler) Reauth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReauthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Reauth", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	userID := middleware.UserIDFrom(r.Context())
	reauthToken, err := h.service.Reauthenticate(r.Context(), userID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reauth", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"reauth_token": reauthToken}); err != nil {
		h.log.Error("failed to write success response", "handler", "Reauth", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	authed := func(route httprouter.Handle) httprouter.Handle {
		return wrap(middleware.Auth(h.verifier, h.log), route)
	}

	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/reauth", authed(h.Reauth))
}

// wrap bridges an http.Handler middleware onto an httprouter route.
func wrap(mw func(http.Handler) http.Handler, route httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route(w, r, ps)
		})).ServeHTTP(w, r)
	}
}
