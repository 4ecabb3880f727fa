package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/middleware"
	"tiponx-backend/internal/features/creator/models"
	"tiponx-backend/internal/features/creator/service"
)

type CreatorHandler struct {
	creators     service.CreatorService
	claims       service.ClaimService
	verification service.VerificationService
}

func NewCreatorHandler(creators service.CreatorService, claims service.ClaimService, verification service.VerificationService) *CreatorHandler {
	return &CreatorHandler{
		creators:     creators,
		claims:       claims,
		verification: verification,
	}
}

func (h *CreatorHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/claim", h.claim)
	router.POST("/verify-twitter", h.verifyTwitter)
	router.GET("/rankings", h.rankings)

	users := router.Group("/users")
	{
		users.POST("", h.create)
		users.GET("", h.get)
		users.PATCH("", h.update)
		users.GET("/search", h.search)
		users.POST("/verification-code/refresh", h.refreshVerificationCode)
	}
}

func (h *CreatorHandler) create(c *gin.Context) {
	var req service.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	creator, err := h.creators.CreateProfile(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creator)
}

// get serves either a single profile (?handle=) or a random sample (?sample=).
func (h *CreatorHandler) get(c *gin.Context) {
	if handle := c.Query("handle"); handle != "" {
		creator, err := h.creators.GetByHandle(c.Request.Context(), handle)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, creator)
		return
	}

	n, _ := strconv.Atoi(c.DefaultQuery("sample", "10"))
	creators, err := h.creators.Sample(c.Request.Context(), n)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creators)
}

func (h *CreatorHandler) update(c *gin.Context) {
	handle := c.Query("handle")
	if handle == "" {
		middleware.RespondError(c, apperrors.New(apperrors.ErrCodeBadRequest, "Handle is required"))
		return
	}

	var patch models.ProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	creator, err := h.creators.UpdateProfile(c.Request.Context(), handle, &patch)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}

func (h *CreatorHandler) search(c *gin.Context) {
	creators, err := h.creators.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creators)
}

func (h *CreatorHandler) rankings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	timeframe := c.DefaultQuery("timeframe", service.TimeframeAll)

	ranked, err := h.creators.Rankings(c.Request.Context(), limit, timeframe)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ranked)
}

type claimRequest struct {
	ClaimCode string            `json:"claimCode"`
	Wallets   map[string]string `json:"wallets"`
}

func (h *CreatorHandler) claim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	creator, err := h.claims.Redeem(c.Request.Context(), req.ClaimCode, req.Wallets)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "creator": creator})
}

type verifyTwitterRequest struct {
	Handle           string `json:"handle"`
	TweetURL         string `json:"tweetUrl"`
	VerificationCode string `json:"verificationCode"`
}

func (h *CreatorHandler) verifyTwitter(c *gin.Context) {
	var req verifyTwitterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	creator, err := h.verification.VerifyTweet(c.Request.Context(), req.Handle, req.TweetURL, req.VerificationCode)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "creator": creator})
}

type refreshCodeRequest struct {
	Handle string `json:"handle"`
}

func (h *CreatorHandler) refreshVerificationCode(c *gin.Context) {
	var req refreshCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	creator, err := h.creators.RefreshVerificationCode(c.Request.Context(), req.Handle)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}
