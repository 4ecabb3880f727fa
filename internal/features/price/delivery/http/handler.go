package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tiponx-backend/internal/common/middleware"
	"tiponx-backend/internal/features/price/service"
)

type PriceHandler struct {
	service service.PriceService
}

func NewPriceHandler(service service.PriceService) *PriceHandler {
	return &PriceHandler{service: service}
}

func (h *PriceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/token-prices", h.prices)
}

func (h *PriceHandler) prices(c *gin.Context) {
	prices, err := h.service.Prices(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}
