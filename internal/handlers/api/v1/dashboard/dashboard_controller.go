// Package dashboard serves the officials' registry statistics.
package dashboard

import (
	"net/http"

	"sklink/internal/response"
	"sklink/internal/services"

	"go.uber.org/zap"
)

// Controller handles the dashboard endpoint.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the dashboard controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{services: svc, logger: logger, response: builder}
}

// Summary handles GET /api/v1/dashboard.
func (c *Controller) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.services.Dashboard.Summary(r.Context())
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, summary)
}
