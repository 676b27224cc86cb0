package handler

import (
	"net/http"

	"chai-duka/internal/model"
	"chai-duka/internal/service"

	"github.com/rs/zerolog"
)

// BlogHandler serves the public blog.
type BlogHandler struct {
	blog   service.BlogService
	logger zerolog.Logger
}

// NewBlogHandler creates a new blog handler.
func NewBlogHandler(blog service.BlogService, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		blog:   blog,
		logger: logger.With().Str("handler", "blog").Logger(),
	}
}

// List handles GET /api/posts.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	posts, err := h.blog.ListPublished(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}

	writeJSON(w, http.StatusOK, posts)
}

// Get handles GET /api/posts/{slug}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, model.ErrPostNotFound, h.logger)
		return
	}

	post, err := h.blog.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
