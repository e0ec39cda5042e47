// Package posts exposes the community feed posts and reactions.
package posts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sklink/internal/contextutils"
	"sklink/internal/models"
	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles feed post endpoints.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the posts controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// Create handles POST /api/v1/posts. Multipart bodies carry the JSON
// payload in the "payload" field plus an optional "media" file, which is
// uploaded before the database write.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	req, err := c.decodePostRequest(r)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	req.OfficialID = actor.ID

	post, err := c.services.Feed.CreatePost(r.Context(), req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, post)
}

// Get handles GET /api/v1/posts/{id}. Works for anonymous viewers; an
// authenticated viewer additionally sees their own reaction.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid post id")
		return
	}

	post, err := c.services.Feed.GetPost(r.Context(), id, viewer(r))
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, post)
}

// List handles GET /api/v1/posts.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	params := response.ParsePagination(r, "created_at", "updated_at", "id")

	posts, meta, err := c.services.Feed.ListPosts(r.Context(), viewer(r), params)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WritePaginated(w, r, posts, &meta)
}

// Update handles PUT /api/v1/posts/{id}. Only the authoring official may
// edit.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid post id")
		return
	}

	var req services.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.PostID = id
	req.OfficialID = actor.ID

	post, err := c.services.Feed.UpdatePost(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, post)
}

// Delete handles DELETE /api/v1/posts/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid post id")
		return
	}

	if err := c.services.Feed.DeletePost(r.Context(), id, actor.ID); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

// React handles POST /api/v1/posts/{id}/reactions. Reacting twice with a
// different type switches the reaction in place.
func (c *Controller) React(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid post id")
		return
	}

	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	reaction, err := c.services.Feed.React(r.Context(), id, actor, body.Type)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, reaction)
}

// Unreact handles DELETE /api/v1/posts/{id}/reactions.
func (c *Controller) Unreact(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid post id")
		return
	}

	if err := c.services.Feed.Unreact(r.Context(), id, actor); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

func (c *Controller) decodePostRequest(r *http.Request) (*services.CreatePostRequest, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var req services.CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, services.NewValidationError("invalid request body", err)
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		return nil, services.NewValidationError("invalid multipart body", err)
	}

	var req services.CreatePostRequest
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &req); err != nil {
		return nil, services.NewValidationError("invalid payload field", err)
	}

	file, header, err := r.FormFile("media")
	if err == http.ErrMissingFile {
		return &req, nil
	}
	if err != nil {
		return nil, services.NewValidationError("invalid media file", err)
	}
	defer file.Close()

	if c.services.File == nil {
		return nil, services.NewBusinessError("file uploads are not configured", "UPLOADS_DISABLED")
	}

	result, err := c.services.File.Upload(r.Context(), file, header, "posts")
	if err != nil {
		return nil, err
	}

	mediaType := "image"
	req.MediaType = &mediaType
	req.MediaURL = &result.URL
	return &req, nil
}

// viewer resolves the optional authenticated actor for read endpoints.
func viewer(r *http.Request) *models.Actor {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		return nil
	}
	return &actor
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
