// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
)

// Handler implements the authentication endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /auth. loginLimiter throttles
// password guessing and may be nil.
func (handler *Handler) Routes(loginLimiter *middleware.RateLimiter) chi.Router {
	router := chi.NewRouter()

	login := http.HandlerFunc(handler.login)
	if loginLimiter != nil {
		router.Method(http.MethodPost, "/login", loginLimiter.Handler(login))
	} else {
		router.Post("/login", login)
	}

	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/logout", handler.logout)

	return router
}

type loginRequest struct {
	Password string `json:"password"`
}

/*
POST /api/v1/auth/login.

Request:
  - password: string

Response:
  - 200: Session
  - 401: ErrUnauthorized
  - 429: ErrRateLimited
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password == "" {
		respond.Error(writer, request, validate.FieldError("password", "This field is required"))
		return
	}

	session, err := handler.service.Login(request.Context(), input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}

// POST /api/v1/auth/logout revokes the bearer token of the request.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
