package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-backend/internal/auth"
)

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	RoleID    int64  `json:"roleId"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		RoleID:    req.RoleID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   session.Token,
		"user":    session.User,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   session.Token,
		"user":    session.User,
	})
}

// GetProfile handles GET /api/auth/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	profile, err := h.auth.GetProfile(c.Request.Context(), id.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateProfile handles PUT /api/auth/profile. Only name fields change.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.auth.UpdateProfile(c.Request.Context(), id.UserID, auth.ProfileUpdate{
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": profile})
}

// ListRoles handles GET /api/auth/roles.
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.store.ListRoles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}
