package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/http/middleware"
	"github.com/yungbote/petlabel-backend/internal/http/response"
	"github.com/yungbote/petlabel-backend/internal/services"
)

type UserHandler struct {
	users services.UserService
	stats services.StatisticsService
}

func NewUserHandler(users services.UserService, stats services.StatisticsService) *UserHandler {
	return &UserHandler{users: users, stats: stats}
}

// POST /api/users
// body: { "userId": "...", "name": "...", "email": "...", "createdAt": "RFC3339" }
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", services.MsgMissingUserID)
		return
	}
	p, err := h.users.Create(c.Request.Context(), middleware.Caller(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": services.MsgUserCreated, "user": p})
}

// GET /api/users/:userId
func (h *UserHandler) Get(c *gin.Context) {
	userID := c.Param("userId")
	p, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if p == nil {
		response.RespondOK(c, gin.H{"userId": userID})
		return
	}
	response.RespondOK(c, p)
}

// GET /api/users/:userId/statistics
func (h *UserHandler) Statistics(c *gin.Context) {
	out, err := h.stats.ForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	out, err := h.users.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/admin/users/:userId/role
// body: { "role": "Admin" | "Labeler" | "Viewer" }
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	// A bad body still goes through so non-admins get 403 rather than 400.
	_ = c.ShouldBindJSON(&req)
	userID := c.Param("userId")
	if err := h.users.UpdateRole(c.Request.Context(), middleware.Caller(c), userID, req.Role); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": services.MsgRoleUpdated, "userId": userID, "role": req.Role})
}
