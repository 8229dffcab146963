// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/core/label"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/pkg/pagination"
	"github.com/taibuivan/folio/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for articles.
type Handler struct {
	service *Service
	labels  *label.Handler
}

// NewHandler constructs a new article [Handler]. The label handler serves
// the per-article label endpoints.
func NewHandler(service *Service, labels *label.Handler) *Handler {
	return &Handler{service: service, labels: labels}
}

// Routes returns the router mounted at /articles.
//
//   - Public: listing and reading published articles and their labels.
//   - Admin: drafts, authoring, and tagging.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listArticles)
	router.Get("/{id}", handler.getArticle)
	router.Get("/{id}/{namespace}", handler.labels.ContentLabels(label.KindArticle))

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createArticle)
		admin.Patch("/{id}", handler.updateArticle)
		admin.Delete("/{id}", handler.deleteArticle)
		admin.Put("/{id}/{namespace}", handler.labels.TagContent(label.KindArticle))
	})

	return router
}

/*
GET /api/v1/articles.

Request:
  - tag: string
  - category: string
  - featured: bool
  - published: bool (admin only)
  - q: string (title and excerpt search)
  - page, limit: int

Response:
  - 200: []Article (without content) with pagination meta
*/
func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	values := request.URL.Query()

	filter := Filter{
		Tag:      values.Get("tag"),
		Category: values.Get("category"),
		Featured: query.OptionalBool(values.Get("featured")),
		Query:    values.Get("q"),
	}

	isAdmin := ctxutil.IsAdmin(ctx)
	if isAdmin {
		filter.Published = query.OptionalBool(values.Get("published"))
	}

	articles, meta, err := handler.service.List(ctx, filter, pagination.FromRequest(request), isAdmin)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, articles, meta)
}

// GET /api/v1/articles/{id} accepts a UUID or a slug.
func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	found, err := handler.service.Get(ctx, requestutil.Param(request, "id"), ctxutil.IsAdmin(ctx))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

/*
POST /api/v1/articles.

Request: Input. format is "html" (default) or "markdown".

Response:
  - 201: Article
  - 400: ErrValidation
  - 409: ErrConflict (slug taken)
*/
func (handler *Handler) createArticle(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateArticle(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteArticle(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
