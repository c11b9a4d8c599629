package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/olympiadhq/regservice/internal/auth"
	"github.com/olympiadhq/regservice/internal/config"
	"github.com/olympiadhq/regservice/internal/security"
)

// AuthHandler logs the env-configured operator in. There is no user table;
// the statistics surface only needs one identity.
type AuthHandler struct {
	jwt   *auth.Manager
	admin config.AdminConfig
}

func NewAuthHandler(jwt *auth.Manager, admin config.AdminConfig) *AuthHandler {
	return &AuthHandler{jwt: jwt, admin: admin}
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindForm(ctx, &req) {
		return
	}

	// same response for unknown email and wrong password
	if h.admin.Email == "" || req.Email != h.admin.Email {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	if err := security.CheckPassword(h.admin.PasswordHash, req.Password); err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(h.admin.Email, "admin")

	if err != nil {
		RespondInternal(ctx, "Could not issue a token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   int(h.jwt.TTL().Seconds()),
	})
}
