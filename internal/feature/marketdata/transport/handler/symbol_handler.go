package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market_sync/internal/feature/marketdata/transport/http/dto"
)

// SymbolLister は同期対象の銘柄一覧を返します。
type SymbolLister interface {
	Symbols() []string
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolLister
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolLister) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は同期対象の銘柄一覧を設定順に返すAPIです。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols := h.uc.Symbols()
	if symbols == nil {
		symbols = []string{}
	}
	c.JSON(http.StatusOK, dto.SymbolsResponse{Symbols: symbols})
}
