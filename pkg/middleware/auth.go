package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyUser は検証済みクレームをGinコンテキストに格納するキー。
const ContextKeyUser = "user"

// bearerPrefixLen は "Bearer " 接頭辞の長さ。大文字小文字や空白の揺れは許容しない。
const bearerPrefixLen = len("Bearer ")

// 認証・認可ゲートの判定結果。AuthRecorderに渡される。
const (
	AuthResultOK           = "ok"
	AuthResultNoToken      = "no_token"
	AuthResultInvalidToken = "invalid_token"
	AuthResultAdmin        = "admin"
	AuthResultForbidden    = "forbidden"
)

// AuthRecorder はゲートの判定結果を記録する。メトリクス収集に使用する。
type AuthRecorder interface {
	RecordAuthResult(result string)
}

// GateOption はゲートの設定を変更する関数。
type GateOption func(*gateConfig)

type gateConfig struct {
	recorder AuthRecorder
}

// WithAuthRecorder はゲートの判定結果の記録先を設定する。
func WithAuthRecorder(r AuthRecorder) GateOption {
	return func(cfg *gateConfig) {
		cfg.recorder = r
	}
}

func newGateConfig(opts []GateOption) *gateConfig {
	cfg := &gateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (cfg *gateConfig) record(result string) {
	if cfg.recorder != nil {
		cfg.recorder.RecordAuthResult(result)
	}
}

// Authenticate はAuthorizationヘッダーのBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、クレームをコンテキストの "user" キーに設定する。
// ヘッダーが無い場合は400、検証に失敗した場合は403で処理を中断する。
func Authenticate(codec *Codec, opts ...GateOption) gin.HandlerFunc {
	cfg := newGateConfig(opts)

	return func(c *gin.Context) {
		values, ok := c.Request.Header["Authorization"]
		if !ok || len(values) == 0 {
			cfg.record(AuthResultNoToken)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"auth": "Failed. No Token",
			})
			return
		}

		// 先頭7バイト（"Bearer "）をそのまま取り除く
		tokenString := ""
		if raw := values[0]; len(raw) > bearerPrefixLen {
			tokenString = raw[bearerPrefixLen:]
		}

		claims, err := codec.Verify(tokenString)
		if err != nil {
			cfg.record(AuthResultInvalidToken)
			log.Printf("[Auth] トークン検証に失敗: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"auth":    "Failed",
				"message": err.Error(),
			})
			return
		}

		cfg.record(AuthResultOK)
		c.Set(ContextKeyUser, claims)
		c.Next()
	}
}

// RequireAdmin は管理者のみを通過させるGinミドルウェアを返す。
// Authenticateの後に配置する必要がある。
func RequireAdmin(opts ...GateOption) gin.HandlerFunc {
	cfg := newGateConfig(opts)

	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			// Authenticateが前段に無いルート定義の誤り
			log.Printf("[Auth] RequireAdminの前段にAuthenticateがありません: %s %s", c.Request.Method, c.FullPath())
			RespondError(c, &APIError{Status: http.StatusInternalServerError})
			return
		}

		if !claims.IsAdmin {
			cfg.record(AuthResultForbidden)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"auth":    "Failed",
				"message": "Action Forbidden",
			})
			return
		}

		cfg.record(AuthResultAdmin)
		c.Next()
	}
}

// GetClaims はGinコンテキストから検証済みクレームを取得する。
// Authenticateミドルウェアが事前に適用されている必要がある。
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// クレームが無い場合は空文字列を返す。
func GetUserID(c *gin.Context) string {
	if claims, ok := GetClaims(c); ok {
		return claims.UserID
	}
	return ""
}
