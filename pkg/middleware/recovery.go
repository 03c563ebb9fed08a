package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時はスタックトレースをログに出力し、エラーエンベロープで500を返す。
// パニックの内容はクライアントに返さない。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Printf("[PANIC] %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, r, debug.Stack())
			RespondError(c, &APIError{
				Status:  http.StatusInternalServerError,
				Message: defaultErrorMessage,
				Err:     fmt.Errorf("panic: %v", r),
			})
		}()
		c.Next()
	}
}
