// Package profile exposes the authenticated principal's own record.
package profile

import (
	"encoding/json"
	"net/http"

	"sklink/internal/contextutils"
	"sklink/internal/models"
	"sklink/internal/response"
	"sklink/internal/services"

	"go.uber.org/zap"
)

// Controller handles the /profile endpoints for both principal kinds.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the profile controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// Get handles GET /api/v1/profile. The shape of the payload follows the
// principal kind.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	principal, err := c.services.Profile.Get(r.Context(), actor)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, principal)
}

// Update handles PUT /api/v1/profile, dispatching on the principal kind.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	switch actor.Kind {
	case models.ActorOfficial:
		c.updateOfficial(w, r, actor.ID)
	case models.ActorYouth:
		c.updateYouth(w, r, actor.ID)
	default:
		c.response.WriteUnauthorized(w, r, "unknown principal kind")
	}
}

func (c *Controller) updateOfficial(w http.ResponseWriter, r *http.Request, officialID int64) {
	var official models.Official
	if err := json.NewDecoder(r.Body).Decode(&official); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	official.ID = officialID

	if err := c.services.Profile.UpdateOfficial(r.Context(), &official); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "profile updated"})
}

func (c *Controller) updateYouth(w http.ResponseWriter, r *http.Request, youthID int64) {
	var req services.UpdateYouthProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	req.YouthID = youthID

	if err := c.services.Registration.UpdateProfile(r.Context(), &req); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "profile updated"})
}

// AddAttachment handles POST /api/v1/profile/attachments. Youth only; the
// file lands in external storage and the record keeps the URL.
func (c *Controller) AddAttachment(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		c.response.WriteBadRequest(w, r, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("attachment")
	if err != nil {
		c.response.WriteBadRequest(w, r, "attachment file is required")
		return
	}
	defer file.Close()

	if c.services.File == nil {
		c.response.WriteError(w, r, services.NewBusinessError("file uploads are not configured", "UPLOADS_DISABLED"))
		return
	}

	result, err := c.services.File.Upload(r.Context(), file, header, "profiles")
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}

	att := &models.YouthAttachment{
		FileURL:   result.URL,
		PublicID:  result.PublicID,
		Format:    &result.Format,
		SizeBytes: &result.Size,
	}
	if err := c.services.Profile.AddYouthAttachment(r.Context(), actor.ID, att); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteCreated(w, r, att)
}
