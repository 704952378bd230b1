package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/http/response"
	"github.com/yungbote/petlabel-backend/internal/services"
)

type ActivityHandler struct {
	activity services.ActivityService
}

func NewActivityHandler(activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GET /api/activity
func (h *ActivityHandler) SystemFeed(c *gin.Context) {
	feed, err := h.activity.SystemFeed(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, feed)
}

// GET /api/users/:userId/activity
func (h *ActivityHandler) UserFeed(c *gin.Context) {
	feed, err := h.activity.UserFeed(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, feed)
}
