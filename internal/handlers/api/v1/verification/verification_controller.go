// Package verification exposes the official-side youth verification queue.
package verification

import (
	"net/http"
	"strconv"

	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles the verification workflow endpoints.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the verification controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// ListPending handles GET /api/v1/verification.
func (c *Controller) ListPending(w http.ResponseWriter, r *http.Request) {
	params := response.ParsePagination(r, "created_at", "updated_at", "username", "id")

	youths, meta, err := c.services.Verification.ListPending(r.Context(), params)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WritePaginated(w, r, youths, &meta)
}

// GetDetail handles GET /api/v1/verification/{id}.
func (c *Controller) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid youth id")
		return
	}

	youth, err := c.services.Verification.GetDetail(r.Context(), id)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, youth)
}

// Verify handles POST /api/v1/verification/{id}/verify.
func (c *Controller) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid youth id")
		return
	}

	if err := c.services.Verification.Verify(r.Context(), id); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "youth verified"})
}

// Remove handles DELETE /api/v1/verification/{id}.
func (c *Controller) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid youth id")
		return
	}

	if err := c.services.Verification.Remove(r.Context(), id); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

// Restore handles POST /api/v1/verification/{id}/restore.
func (c *Controller) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid youth id")
		return
	}

	if err := c.services.Verification.Restore(r.Context(), id); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "youth restored"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
