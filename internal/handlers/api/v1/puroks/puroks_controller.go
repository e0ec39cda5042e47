// Package puroks manages the barangay's purok list.
package puroks

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles purok endpoints.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the puroks controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

type purokRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/v1/puroks.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req purokRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	purok, err := c.services.Purok.Create(r.Context(), req.Name)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, purok)
}

// Get handles GET /api/v1/puroks/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid purok id")
		return
	}

	purok, err := c.services.Purok.Get(r.Context(), id)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, purok)
}

// List handles GET /api/v1/puroks. Each purok carries its live resident
// count.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	puroks, err := c.services.Purok.List(r.Context())
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, puroks)
}

// Update handles PUT /api/v1/puroks/{id}.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid purok id")
		return
	}

	var req purokRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	purok, err := c.services.Purok.Update(r.Context(), id, req.Name)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, purok)
}

// Delete handles DELETE /api/v1/puroks/{id}.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid purok id")
		return
	}

	if err := c.services.Purok.Delete(r.Context(), id); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteNoContent(w, r)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
