package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/dto"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// loginTelegram godoc
// @Summary Telegram mini-app login
// @Description Validates the signed init data of the mini-app and returns an access token for the Telegram user.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.TelegramLoginRequest true "Init data"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Init data invalid or expired"
// @Failure 403 {object} ErrorResponse "Account suspended"
// @Failure 429 {object} ErrorResponse
// @Router /auth/telegram [post]
func (h *authHandler) loginTelegram(c *gin.Context) {
	var req dto.TelegramLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.authService.LoginWithTelegram(c.Request.Context(), req.InitData)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// loginAdmin godoc
// @Summary Admin login
// @Description Authenticates an admin by email and password.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.AdminLoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/admin/login [post]
func (h *authHandler) loginAdmin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.authService.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// one message for unknown email and wrong password
		respondError(c, err, "Invalid email or password")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createAdmin godoc
// @Summary Add an admin
// @Description Superadmins only.
// @Tags admin
// @Accept json
// @Produce json
// @Param admin body dto.CreateAdminRequest true "Admin details"
// @Success 201 {object} dto.AdminResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /admin/admins [post]
func (h *authHandler) createAdmin(c *gin.Context) {
	actorID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := h.authService.CreateAdmin(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create admin")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Admin created",
		slog.String("admin_id", admin.AdminID), slog.String("role", string(admin.Role)))
	c.JSON(http.StatusCreated, dto.ToAdminResponse(admin))
}
