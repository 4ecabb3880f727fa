package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/middleware"
	"tiponx-backend/internal/features/comment/service"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/comments")
	{
		comments.POST("", h.create)
		comments.GET("", h.list)
		comments.POST("/like", h.toggleLike)
		comments.DELETE("/:id", h.delete)
	}
}

func (h *CommentHandler) create(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	comment, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) list(c *gin.Context) {
	comments, err := h.service.ListByProfile(c.Request.Context(), c.Query("profileHandle"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

type likeRequest struct {
	CommentID   string `json:"commentId"`
	LikerHandle string `json:"likerHandle"`
}

func (h *CommentHandler) toggleLike(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	comment, err := h.service.ToggleLike(c.Request.Context(), req.CommentID, req.LikerHandle)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) delete(c *gin.Context) {
	comment, err := h.service.Delete(c.Request.Context(), c.Param("id"), c.Query("requester"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
