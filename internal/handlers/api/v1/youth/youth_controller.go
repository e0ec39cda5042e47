// Package youth exposes the official-side registry listings and admin add.
package youth

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles registry endpoints for officials.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the youth controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// List handles GET /api/v1/youths. The deleted=true query switches the
// listing to the soft-deleted records; purok_id narrows by purok.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	params := response.ParsePagination(r, "created_at", "updated_at", "username", "id")

	var opts services.YouthListOptions
	opts.Deleted = r.URL.Query().Get("deleted") == "true"
	if raw := r.URL.Query().Get("purok_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.response.WriteBadRequest(w, r, "invalid purok_id")
			return
		}
		opts.PurokID = &id
	}

	youths, meta, err := c.services.Youth.List(r.Context(), opts, params)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WritePaginated(w, r, youths, &meta)
}

// GetDetail handles GET /api/v1/youths/{id}.
func (c *Controller) GetDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid youth id")
		return
	}

	detail, err := c.services.Youth.GetDetail(r.Context(), id)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, detail)
}

// Create handles POST /api/v1/youths. The record is created already
// verified since an official vouches for it.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterYouthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}

	youth, err := c.services.Registration.AdminAdd(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, youth)
}

// UpdateProfile handles PUT /api/v1/youths/{id}. Officials correct profile
// slices on a youth's behalf; nil sections stay untouched.
func (c *Controller) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid youth id")
		return
	}

	var req services.UpdateYouthProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.YouthID = id

	if err := c.services.Registration.UpdateProfile(r.Context(), &req); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "profile updated"})
}
