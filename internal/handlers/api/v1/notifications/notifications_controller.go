// Package notifications serves the inbox and the live websocket stream.
package notifications

import (
	"net/http"
	"strconv"
	"time"

	"sklink/internal/contextutils"
	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Controller handles notification endpoints.
type Controller struct {
	services *services.ServiceCollection
	logger   *zap.Logger
	response *response.Builder
	upgrader websocket.Upgrader
}

// NewController creates the notifications controller.
func NewController(svc *services.ServiceCollection, logger *zap.Logger, builder *response.Builder) *Controller {
	return &Controller{
		services: svc,
		logger:   logger,
		response: builder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers are already gated by the CORS middleware; the
			// upgrade itself authenticates via the session token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// List handles GET /api/v1/notifications. Unread entries sort first.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	params := response.ParsePagination(r, "created_at", "id")

	items, meta, err := c.services.Notification.List(r.Context(), actor, params)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WritePaginated(w, r, items, &meta)
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (c *Controller) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		c.response.WriteBadRequest(w, r, "invalid notification id")
		return
	}

	if err := c.services.Notification.MarkRead(r.Context(), id, actor); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "notification read"})
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (c *Controller) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	if err := c.services.Notification.MarkAllRead(r.Context(), actor); err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]string{"message": "all notifications read"})
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (c *Controller) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	count, err := c.services.Notification.CountUnread(r.Context(), actor)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}
	c.response.WriteSuccess(w, r, map[string]int64{"unread": count})
}

// Stream handles GET /api/v1/notifications/ws. Each pushed frame is one
// notification encoded as JSON. Slow consumers miss frames rather than
// block the fan-out; the inbox remains the source of truth.
func (c *Controller) Stream(w http.ResponseWriter, r *http.Request) {
	actor, ok := contextutils.GetActor(r.Context())
	if !ok {
		c.response.WriteUnauthorized(w, r, "authentication required")
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ch, cancel := c.services.Notification.Subscribe(actor)
	defer cancel()

	// Read pump: discard client frames, detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case n, open := <-ch:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
