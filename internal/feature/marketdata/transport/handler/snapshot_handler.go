package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/transport/http/dto"
)

// SnapshotGetter は保存済みスナップショットを取得するユースケースです。
type SnapshotGetter interface {
	GetSnapshot(ctx context.Context, symbol string, date *time.Time) (*entity.MarketSnapshot, error)
}

// SnapshotHandler は保存済みスナップショットの参照APIを処理します。
type SnapshotHandler struct {
	uc SnapshotGetter
}

// NewSnapshotHandler は新しい SnapshotHandler を作成します。
func NewSnapshotHandler(uc SnapshotGetter) *SnapshotHandler {
	return &SnapshotHandler{uc: uc}
}

// Get returns the latest snapshot for :symbol, or the one for ?date=YYYY-MM-DD.
//
// エンドポイント例:
// GET /api/snapshots/AAPL?date=2024-01-02
func (h *SnapshotHandler) Get(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "symbol is required"})
		return
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		date = &d
	}

	s, err := h.uc.GetSnapshot(c.Request.Context(), symbol, date)
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrConfiguration):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toSnapshotResponse(s))
}
