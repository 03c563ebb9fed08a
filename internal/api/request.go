package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nao1215/coursebooking/pkg/middleware"
)

// timeFormat はレスポンスに含める日時の形式。
const timeFormat = "2006-01-02T15:04:05Z"

// bindJSON はリクエストボディをreqにデコードする。
// 空のボディはゼロ値として検証する。失敗した場合は400を返してfalseを返す。
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err == nil {
		return true
	}
	middleware.RespondError(c, &middleware.APIError{
		Status:  http.StatusBadRequest,
		Message: "Invalid request body",
		Code:    "VALIDATION_ERROR",
		Details: err.Error(),
		Err:     err,
	})
	return false
}

// respondStoreError はストアのエラーを記録し、500のエラーエンベロープを返す。
func respondStoreError(c *gin.Context, op string, err error) {
	log.Printf("%sエラー: %v", op, err)
	middleware.RespondError(c, &middleware.APIError{
		Status: http.StatusInternalServerError,
		Err:    err,
	})
}

// formatTime は日時をUTCの文字列に変換する。
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}
