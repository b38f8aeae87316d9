package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/register-api/internal/domain/enum"
)

// Context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextName     = "user_name"
	ContextRole     = "user_role"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUsername extracts the username from the Gin context
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// GetCashierName is the display name printed on receipts, falling back to
// the username.
func GetCashierName(c *gin.Context) string {
	if name := c.GetString(ContextName); name != "" {
		return name
	}
	return GetUsername(c)
}

// GetUserRole extracts the role from the Gin context
func GetUserRole(c *gin.Context) enum.Role {
	return enum.Role(c.GetString(ContextRole))
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	return GetUserRole(c) == enum.RoleAdmin
}
