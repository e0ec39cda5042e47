// Package comments exposes the threaded discussion under feed posts,
// including the officials' moderation tools.
package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sklink/internal/contextutils"
	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles comment and moderation endpoints.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the comments controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// Create handles POST /api/v1/comments. Replies carry parent_comment_id.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.Author = actor

	comment, err := c.services.Feed.CreateComment(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, comment)
}

// ListByPost handles GET /api/v1/posts/{id}/comments. Comments come back
// as trees; replies hang off their parent's replies list.
func (c *Controller) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid post id")
		return
	}

	forest, err := c.services.Feed.GetCommentForest(r.Context(), postID)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, forest)
}

// Update handles PUT /api/v1/comments/{id}. Only the author may edit.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid comment id")
		return
	}

	var req services.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.CommentID = id
	req.Author = actor

	comment, err := c.services.Feed.UpdateComment(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, comment)
}

// Delete handles DELETE /api/v1/comments/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid comment id")
		return
	}

	if err := c.services.Feed.DeleteComment(r.Context(), id, actor); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

// Hide handles POST /api/v1/comments/{id}/hide. Hidden comments drop out
// of the forest; their replies surface as top-level comments.
func (c *Controller) Hide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid comment id")
		return
	}

	var body struct {
		Reason *string `json:"reason,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			c.response.WriteBadRequest(w, r, "invalid request body")
			return
		}
	}

	if err := c.services.Feed.HideComment(r.Context(), id, body.Reason); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "comment hidden"})
}

// Unhide handles POST /api/v1/comments/{id}/unhide.
func (c *Controller) Unhide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid comment id")
		return
	}

	if err := c.services.Feed.UnhideComment(r.Context(), id); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "comment restored"})
}

// Ban handles POST /api/v1/moderation/bans.
func (c *Controller) Ban(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.ModerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := c.services.Feed.BanActor(r.Context(), &req, actor.ID); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, map[string]string{"message": "actor banned"})
}

// Unban handles DELETE /api/v1/moderation/bans.
func (c *Controller) Unban(w http.ResponseWriter, r *http.Request) {
	var req services.ModerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	if err := c.services.Feed.UnbanActor(r.Context(), req.Actor); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

// ListBans handles GET /api/v1/moderation/bans.
func (c *Controller) ListBans(w http.ResponseWriter, r *http.Request) {
	bans, err := c.services.Feed.ListBans(r.Context())
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, bans)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
