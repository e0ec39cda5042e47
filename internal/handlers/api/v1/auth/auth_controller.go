// Package auth exposes login, logout and youth self-registration.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"sklink/internal/config"
	"sklink/internal/models"
	"sklink/internal/response"
	"sklink/internal/services"

	"go.uber.org/zap"
)

// Controller handles authentication endpoints.
type Controller struct {
	services *services.ServiceCollection
	authCfg  config.AuthConfig
	logger   *zap.Logger
	response *response.Builder
}

// NewController creates the auth controller.
func NewController(
	svc *services.ServiceCollection,
	authCfg config.AuthConfig,
	logger *zap.Logger,
	builder *response.Builder,
) *Controller {
	return &Controller{
		services: svc,
		authCfg:  authCfg,
		logger:   logger,
		response: builder,
	}
}

// Login handles POST /api/v1/auth/login.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.response.WriteBadRequest(w, r, "invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		c.response.WriteBadRequest(w, r, "identifier and password are required")
		return
	}
	if req.Kind == "" {
		req.Kind = models.ActorYouth
	}

	resp, err := c.services.Auth.Login(r.Context(), &req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}

	c.setSessionCookie(w, resp)
	c.response.WriteSuccess(w, r, resp)
}

// Logout handles POST /api/v1/auth/logout.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.authCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	c.response.WriteSuccess(w, r, map[string]string{"message": "logged out"})
}

// Register handles POST /api/v1/auth/register. Multipart bodies carry the
// JSON payload in the "payload" field plus an optional "attachment" file,
// which is uploaded before the registration transaction opens.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	req, err := c.decodeRegisterRequest(r)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}

	resp, err := c.services.Registration.Register(r.Context(), req)
	if err != nil {
		c.response.WriteError(w, r, err)
		return
	}

	c.setSessionCookie(w, resp)
	c.response.WriteCreated(w, r, resp)
}

func (c *Controller) decodeRegisterRequest(r *http.Request) (*services.RegisterYouthRequest, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var req services.RegisterYouthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, services.NewValidationError("invalid request body", err)
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, services.NewValidationError("invalid multipart body", err)
	}

	var req services.RegisterYouthRequest
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &req); err != nil {
		return nil, services.NewValidationError("invalid payload field", err)
	}

	file, header, err := r.FormFile("attachment")
	if err == http.ErrMissingFile {
		return &req, nil
	}
	if err != nil {
		return nil, services.NewValidationError("invalid attachment", err)
	}
	defer file.Close()

	if c.services.File == nil {
		return nil, services.NewBusinessError("file uploads are not configured", "UPLOADS_DISABLED")
	}

	result, err := c.services.File.Upload(r.Context(), file, header, "registrations")
	if err != nil {
		return nil, err
	}

	req.Attachment = &models.YouthAttachment{
		FileURL:   result.URL,
		PublicID:  result.PublicID,
		Format:    &result.Format,
		SizeBytes: &result.Size,
	}
	return &req, nil
}

func (c *Controller) setSessionCookie(w http.ResponseWriter, resp *services.AuthResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.authCfg.CookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		Secure:   c.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
