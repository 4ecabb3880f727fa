package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "tiponx-backend/internal/common/errors"
	"tiponx-backend/internal/common/middleware"
	"tiponx-backend/internal/features/transaction/service"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(service service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/transactions")
	{
		transactions.POST("", h.record)
		transactions.GET("", h.list)
	}
}

func (h *TransactionHandler) record(c *gin.Context) {
	var req service.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	tx, err := h.service.Record(c.Request.Context(), &req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// list filters by sender or receiver when given, otherwise returns the global
// feed.
func (h *TransactionHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ctx := c.Request.Context()

	switch {
	case c.Query("sender") != "":
		txs, err := h.service.ListBySender(ctx, c.Query("sender"), limit)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
	case c.Query("receiver") != "":
		txs, err := h.service.ListByReceiver(ctx, c.Query("receiver"), limit)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
	default:
		txs, err := h.service.List(ctx, limit)
		if err != nil {
			middleware.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}
