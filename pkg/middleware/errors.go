package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// defaultErrorMessage はエラーにメッセージが無い場合のメッセージ。
	defaultErrorMessage = "Internal Server Error"
	// defaultErrorCode はエラーにコードが無い場合の機械可読コード。
	defaultErrorCode = "SERVER_ERROR"
)

// APIError はHTTPステータスと機械可読コードを持つエラー。
// コントローラやストアのエラーをエラーエンベロープに変換する際に使用する。
// ゼロ値のフィールドは正規化時にデフォルト値で補われる。
type APIError struct {
	// Status はHTTPステータスコード。
	Status int
	// Message は人が読めるエラーメッセージ。
	Message string
	// Code は機械可読なエラーコード。
	Code string
	// Details は構造化された補足情報。
	Details any
	// Err は原因となったエラー。
	Err error
}

// Error は原因エラーを含めたメッセージを返す。ログとc.Errorsに使われる。
func (e *APIError) Error() string {
	if e.Message != "" && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.clientMessage()
}

// clientMessage はレスポンスに載せるメッセージを返す。
// Messageが無い場合のみ原因エラーのメッセージを使う。
func (e *APIError) clientMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		if msg := e.Err.Error(); msg != "" {
			return msg
		}
	}
	return defaultErrorMessage
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrorBody はエラーエンベロープの中身。
type ErrorBody struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
	Details   any    `json:"details"`
}

// ErrorEnvelope は全ての失敗レスポンスで共通のJSON形式。
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// Normalize は任意のエラーをHTTPステータスとエラーエンベロープに変換する。
// 全ての分岐にデフォルト値があり、nilを含むどの入力でもパニックしない。
func Normalize(err error) (int, ErrorEnvelope) {
	status := http.StatusInternalServerError
	body := ErrorBody{
		Message:   defaultErrorMessage,
		ErrorCode: defaultErrorCode,
	}
	if err == nil {
		return status, ErrorEnvelope{Error: body}
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if msg := err.Error(); msg != "" {
			body.Message = msg
		}
		return status, ErrorEnvelope{Error: body}
	}

	if validStatus(apiErr.Status) {
		status = apiErr.Status
	}
	body.Message = apiErr.clientMessage()
	if apiErr.Code != "" {
		body.ErrorCode = apiErr.Code
	}
	body.Details = apiErr.Details
	return status, ErrorEnvelope{Error: body}
}

// validStatus はnet/httpがWriteHeaderで受け付けるステータスかを判定する。
func validStatus(status int) bool {
	return status >= 100 && status <= 599
}

// RespondError はエラーを正規化してレスポンスを書き込み、後続の処理を中断する。
// 既にレスポンスが書き込まれている場合は中断のみ行う。
func RespondError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	if c.Writer.Written() {
		c.Abort()
		return
	}

	status, envelope := Normalize(err)
	log.Printf("[ERROR] %s %s: status=%d code=%s err=%v",
		c.Request.Method, c.Request.URL.Path, status, envelope.Error.ErrorCode, err)
	c.AbortWithStatusJSON(status, envelope)
}

// ErrorHandler はハンドラがc.Errorで記録したエラーを正規化するGinミドルウェアを返す。
// ハンドラがレスポンスを書き込まずに終了した場合のみ、最後のエラーを返す。
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		RespondError(c, c.Errors.Last().Err)
	}
}

// NotFound は未定義のルートに対してエラーエンベロープで404を返すハンドラ。
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondError(c, &APIError{
			Status:  http.StatusNotFound,
			Message: "Not Found",
			Code:    "NOT_FOUND",
		})
	}
}
