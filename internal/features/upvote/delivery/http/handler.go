package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/middleware"
	"tiponx-backend/internal/features/upvote/service"
)

type UpvoteHandler struct {
	service service.UpvoteService
}

func NewUpvoteHandler(service service.UpvoteService) *UpvoteHandler {
	return &UpvoteHandler{service: service}
}

func (h *UpvoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/upvote", h.cast)
		users.GET("/upvote/check", h.check)
	}
}

func (h *UpvoteHandler) cast(c *gin.Context) {
	var req service.CastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	creator, err := h.service.Cast(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "creator": creator})
}

func (h *UpvoteHandler) check(c *gin.Context) {
	voted, err := h.service.HasVoted(c.Request.Context(), c.Query("creatorHandle"), c.Query("voterWallet"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasVoted": voted})
}
