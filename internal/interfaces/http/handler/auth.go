package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wwi/backend/internal/application/identity"
)

// AuthHandler serves login and branch discovery. Both routes run outside the
// branch gate: login originates the browser's branch choice and validates the
// one in its body itself.
type AuthHandler struct {
	BaseHandler
	svc *identity.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(svc *identity.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login validates the credentials against the branch in the body
func (h *AuthHandler) Login(c *gin.Context) {
	var in identity.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password y tenant son requeridos"})
		return
	}
	res, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, gin.H{"success": true, "user": res.User, "token": res.Token})
}

// Tenants returns the selectable branches
func (h *AuthHandler) Tenants(c *gin.Context) {
	h.OK(c, h.svc.Tenants())
}
