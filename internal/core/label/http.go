// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// # Handler Implementation

// Handler exposes labels over HTTP. One handler serves both namespaces.
type Handler struct {
	service *Service
}

// NewHandler constructs a new label [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /tags or /categories.
func (handler *Handler) Routes(namespace Namespace) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listLabels(namespace))
	router.Get("/{id}", handler.getLabel(namespace))
	router.Get("/by-slug/{slug}", handler.getLabelBySlug(namespace))

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Patch("/{id}", handler.updateLabel(namespace))
	})

	return router
}

// tagRequest is the body of PUT /{kind}/{id}/{namespace}.
type tagRequest struct {
	Names []string `json:"names"`
}

// labelDetail is a canonical label with the items that carry it.
type labelDetail struct {
	*Label
	Items []ContentSummary `json:"items"`
}

/*
GET /api/v1/{namespace}.

Description: Lists canonical labels followed by names used on content
that have no canonical row (derived: true).

Response:
  - 200: []Label
*/
func (handler *Handler) listLabels(namespace Namespace) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		labels, err := handler.service.All(request.Context(), namespace)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, labels)
	}
}

func (handler *Handler) getLabel(namespace Namespace) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		found, err := handler.service.Get(request.Context(), namespace, requestutil.Param(request, "id"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, found)
	}
}

/*
GET /api/v1/{namespace}/by-slug/{slug}.

Description: Detail page payload. Drafts are listed only for the admin.

Response:
  - 200: labelDetail
  - 404: ErrNotFound
*/
func (handler *Handler) getLabelBySlug(namespace Namespace) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		found, err := handler.service.GetBySlug(ctx, namespace, requestutil.Param(request, "slug"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		items, err := handler.service.ItemsFor(ctx, namespace, found, ctxutil.IsAdmin(ctx))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, labelDetail{Label: found, Items: items})
	}
}

/*
PATCH /api/v1/{namespace}/{id}.

Request:
  - description: *string (empty clears)
  - color: *string ("#rrggbb", "auto", or empty to clear)
  - featured: *bool

Response:
  - 200: Label
  - 400: ErrValidation
*/
func (handler *Handler) updateLabel(namespace Namespace) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var patch MetadataPatch
		if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
			respond.Error(writer, request, err)
			return
		}

		updated, err := handler.service.UpdateMetadata(request.Context(), namespace, requestutil.Param(request, "id"), patch)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, updated)
	}
}

// # Content Endpoints

// ContentLabels serves GET /{kind}/{id}/{namespace} for the given kind.
func (handler *Handler) ContentLabels(kind ContentKind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		namespace, err := ParseNamespace(requestutil.Param(request, "namespace"))
		if err != nil {
			respond.Error(writer, request, apperr.NotFound("Resource"))
			return
		}

		ref := ContentRef{Kind: kind, ID: requestutil.Param(request, "id")}
		labels, err := handler.service.LabelsFor(request.Context(), ref, namespace)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, labels)
	}
}

/*
TagContent serves PUT /{kind}/{id}/{namespace}: the tagging operation.

Request:
  - names: []string (full replacement set; [] clears)

Response:
  - 200: []Label (the canonical labels now carried by the item)
  - 400: ErrValidation
  - 404: ErrNotFound
*/
func (handler *Handler) TagContent(kind ContentKind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		namespace, err := ParseNamespace(requestutil.Param(request, "namespace"))
		if err != nil {
			respond.Error(writer, request, apperr.NotFound("Resource"))
			return
		}

		var body tagRequest
		if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}

		ref := ContentRef{Kind: kind, ID: requestutil.Param(request, "id")}
		labels, err := handler.service.Tag(request.Context(), ref, namespace, body.Names)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, labels)
	}
}
