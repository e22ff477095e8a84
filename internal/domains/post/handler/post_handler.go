package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
)

// =====================================================
// POST HANDLER
// =====================================================

type PostHandler struct {
	postService    service.PostService
	strictNotFound bool
}

// NewPostHandler creates the handler. With strictNotFound, missing or malformed
// ids answer 404; otherwise GET answers 500 and PUT/DELETE answer 204.
func NewPostHandler(postService service.PostService, strictNotFound bool) *PostHandler {
	return &PostHandler{
		postService:    postService,
		strictNotFound: strictNotFound,
	}
}

// List returns every post
// GET /posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postService.ListPosts(c.Request.Context())
	if err != nil {
		h.respondError(c, "list", err)
		return
	}

	response.OK(c, model.SerializeAll(posts))
}

// Get returns one post
// GET /posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get", err)
		return
	}

	response.OK(c, model.Serialize(post))
}

// Create inserts a post
// POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	// Step 1: Bind request body, an empty body is an empty object
	var req model.CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "create", err)
		return
	}

	// Step 2: Call service
	post, err := h.postService.CreatePost(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "create", err)
		return
	}

	// Step 3: Return created post
	response.Created(c, model.Serialize(post))
}

// Update applies a partial update
// PUT /posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req model.UpdatePostRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update", err)
		return
	}

	err := h.postService.UpdatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil && !h.tolerateMissing(err) {
		h.respondError(c, "update", err)
		return
	}

	response.NoContent(c)
}

// Delete removes a post
// DELETE /posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	err := h.postService.DeletePost(c.Request.Context(), c.Param("id"))
	if err != nil && !h.tolerateMissing(err) {
		h.respondError(c, "delete", err)
		return
	}

	response.NoContent(c)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// bindJSON decodes the body into dest. A null field is left unset, so it
// reads as absent.
func bindJSON(c *gin.Context, dest interface{}) error {
	err := c.ShouldBindJSON(dest)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &model.RequestError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Invalid `%s` in request body", typeErr.Field),
		}
	}
	return &model.RequestError{Message: "Request body must be a JSON object"}
}

// tolerateMissing reports whether a PUT or DELETE on a missing post still
// answers 204, which is the non-strict behavior.
func (h *PostHandler) tolerateMissing(err error) bool {
	return !h.strictNotFound && errors.Is(err, model.ErrPostNotFound)
}

// respondError maps a service error to the response.
// Storage errors are logged and hidden behind the generic 500 body.
func (h *PostHandler) respondError(c *gin.Context, op string, err error) {
	var reqErr *model.RequestError
	if errors.As(err, &reqErr) {
		log.Warn().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("op", op).
			Str("field", reqErr.Field).
			Msg(reqErr.Message)
		response.BadRequest(c, reqErr.Message)
		return
	}

	if h.strictNotFound && model.IsNotFound(err) {
		response.NotFound(c)
		return
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("op", op).
		Str("post_id", c.Param("id")).
		Msg("post storage operation failed")
	response.InternalServerError(c)
}
