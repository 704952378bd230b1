package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/petlabel-backend/internal/http/middleware"
	"github.com/yungbote/petlabel-backend/internal/http/response"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/services"
)

const headerPipelineToken = "X-Pipeline-Token"

type ImageHandler struct {
	images        services.ImageService
	pipelineToken string
}

// NewImageHandler serves the catalog. When pipelineToken is set, storage
// events must present it in X-Pipeline-Token.
func NewImageHandler(images services.ImageService, pipelineToken string) *ImageHandler {
	return &ImageHandler{images: images, pipelineToken: strings.TrimSpace(pipelineToken)}
}

// GET /api/images?status=unlabeled&limit=10&userId=
func (h *ImageHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.images.List(c.Request.Context(), services.ImageQuery{
		Status:     c.Query("status"),
		Limit:      limit,
		UploadedBy: c.Query("userId"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/upload-url?filename=
func (h *ImageHandler) UploadURL(c *gin.Context) {
	ticket, err := h.images.UploadURL(c.Request.Context(), middleware.Caller(c), c.Query("filename"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ticket)
}

// POST /api/internal/storage-events
// body: { "bucket", "key", "contentType", "size", "format", "width", "height", "metadata": {"user-id": "..."} }
func (h *ImageHandler) StorageEvent(c *gin.Context) {
	if h.pipelineToken != "" {
		got := c.GetHeader(headerPipelineToken)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.pipelineToken)) != 1 {
			response.RespondAPIError(c, apierr.Forbidden("Invalid pipeline token"))
			return
		}
	}
	var ev services.StorageEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "Invalid storage event")
		return
	}
	out, err := h.images.RegisterUpload(c.Request.Context(), ev)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
