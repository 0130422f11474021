// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"market_sync/internal/feature/marketdata/domain/entity"
)

// SyncRunner はバッチ同期のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SyncRunner interface {
	Run(ctx context.Context) (*entity.BatchResult, error)
}

// SyncHandler は /api/sync-stocks のリクエストを処理します。
type SyncHandler struct {
	uc  SyncRunner
	log *zap.SugaredLogger
}

// NewSyncHandler は新しい SyncHandler を作成します。
func NewSyncHandler(uc SyncRunner, log *zap.SugaredLogger) *SyncHandler {
	return &SyncHandler{uc: uc, log: log}
}

func allowCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}

// Preflight answers OPTIONS with 200 and an empty body.
func (h *SyncHandler) Preflight(c *gin.Context) {
	allowCORS(c)
	c.Status(http.StatusOK)
}

// Trigger runs one batch and reports it.
//
// 前提条件（ストアの認証情報）を満たさない場合のみ 500 を返します。
// 銘柄ごとの失敗はレスポンスの failures に列挙され、ステータスは 200 です。
func (h *SyncHandler) Trigger(c *gin.Context) {
	allowCORS(c)

	// クライアントが切断してもバッチは最後まで実行する
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.uc.Run(ctx)
	if err != nil {
		h.log.Warnw("sync request rejected", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, toSyncErrorResponse(err, result))
		return
	}

	c.JSON(http.StatusOK, ToSyncResponse(result))
}
