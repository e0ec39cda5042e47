// Package feedback exposes feedback forms published by officials and the
// youths' replies to them.
package feedback

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

// Controller handles feedback form and reply endpoints.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the feedback controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// CreateForm handles POST /api/v1/feedback.
func (c *Controller) CreateForm(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	var req services.FeedbackFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.OfficialID = actor.ID

	form, err := c.services.Feedback.CreateForm(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, form)
}

// GetForm handles GET /api/v1/feedback/{id}.
func (c *Controller) GetForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid form id")
		return
	}

	form, err := c.services.Feedback.GetForm(r.Context(), id)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, form)
}

// ListForms handles GET /api/v1/feedback.
func (c *Controller) ListForms(w http.ResponseWriter, r *http.Request) {
	params := response.ParsePagination(r, "created_at", "updated_at", "id")

	forms, meta, err := c.services.Feedback.ListForms(r.Context(), params)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WritePaginated(w, r, forms, &meta)
}

// UpdateForm handles PUT /api/v1/feedback/{id}. Only the publishing
// official may edit.
func (c *Controller) UpdateForm(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid form id")
		return
	}

	var req services.FeedbackFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.FormID = id
	req.OfficialID = actor.ID

	form, err := c.services.Feedback.UpdateForm(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, form)
}

// DeleteForm handles DELETE /api/v1/feedback/{id}.
func (c *Controller) DeleteForm(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid form id")
		return
	}

	if err := c.services.Feedback.DeleteForm(r.Context(), id, actor.ID); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

// Reply handles POST /api/v1/feedback/{id}/replies. Re-submitting
// overwrites the youth's previous reply to the same form.
func (c *Controller) Reply(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid form id")
		return
	}

	var req services.FeedbackReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.FormID = id
	req.YouthID = actor.ID

	reply, err := c.services.Feedback.Reply(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, reply)
}

// ListReplies handles GET /api/v1/feedback/{id}/replies.
func (c *Controller) ListReplies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid form id")
		return
	}

	replies, err := c.services.Feedback.ListReplies(r.Context(), id)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, replies)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
