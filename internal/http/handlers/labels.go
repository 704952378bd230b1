package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/http/middleware"
	"github.com/yungbote/petlabel-backend/internal/http/response"
	"github.com/yungbote/petlabel-backend/internal/services"
)

type LabelHandler struct {
	submissions services.LabelSubmissionService
}

func NewLabelHandler(submissions services.LabelSubmissionService) *LabelHandler {
	return &LabelHandler{submissions: submissions}
}

// POST /api/labels
// body: { "imageId": "...", "labels": [{ "type": "...", "value": "...", "confidence": 0.9 }] }
func (h *LabelHandler) Submit(c *gin.Context) {
	var req struct {
		ImageID string             `json:"imageId"`
		Labels  []types.LabelInput `json:"labels"`
	}
	// An undecodable body is submitted empty so the role check still answers first.
	if err := c.ShouldBindJSON(&req); err != nil {
		req.ImageID, req.Labels = "", nil
	}
	res, err := h.submissions.Submit(c.Request.Context(), middleware.Caller(c), services.SubmitLabelsInput{
		ImageID: req.ImageID,
		Labels:  req.Labels,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": res.Message})
}
