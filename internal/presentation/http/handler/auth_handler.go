package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/register-api/internal/application/service"
	"github.com/sangkips/register-api/internal/domain/enum"
	"github.com/sangkips/register-api/internal/presentation/http/dto/request"
	"github.com/sangkips/register-api/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication and operator accounts
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user":         output.User,
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   output.ExpiresIn,
	})
}

// Me returns the identity carried by the access token
func (h *AuthHandler) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	response.OK(c, "Profile retrieved", gin.H{
		"user_id":  *userID,
		"username": GetUsername(c),
		"name":     c.GetString(ContextName),
		"role":     GetUserRole(c),
	})
}

// CreateUser adds a register operator
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req request.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), &service.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     enum.Role(req.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User created", user)
}
