package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret は署名用シークレットが空のままCodecを生成しようとした場合のエラー。
var ErrEmptySecret = errors.New("JWT署名用シークレットが設定されていません")

// Identity はアクセストークンに埋め込むユーザー識別情報。
// パスワード等の機密情報は絶対に含めない。
type Identity struct {
	// UserID はユーザーの永続的な識別子。
	UserID string `json:"id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// IsAdmin は管理者権限を持つかどうか。
	IsAdmin bool `json:"isAdmin"`
}

// Claims はアクセストークンのクレーム（ペイロード）を表す。
// Codec.Verifyの成功時にのみ生成され、リクエストの間だけGinコンテキストに保持される。
type Claims struct {
	jwt.RegisteredClaims
	Identity
}

// Codec はアクセストークンの発行と検証を行う。
// シークレットは生成時に固定され、以後変更されない。
type Codec struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// CodecOption はCodecの設定を変更する関数。
type CodecOption func(*Codec)

// WithExpiry はトークンの有効期限を設定する。
// 0以下の場合は有効期限を付与しない（デフォルト）。
func WithExpiry(d time.Duration) CodecOption {
	return func(c *Codec) {
		c.expiry = d
	}
}

// WithClock は発行時刻と有効期限の判定に使う時計を差し替える。
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec は署名用シークレットからCodecを生成する。
func NewCodec(secret string, opts ...CodecOption) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue はユーザー識別情報をHS256で署名したトークン文字列に変換する。
func (c *Codec) Issue(identity Identity) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		Identity: identity,
	}
	if c.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークン文字列の署名を検証し、クレームを返す。
// 改ざん・別キーでの署名・形式不正・期限切れの場合はエラーを返す。
// エラーメッセージはそのままクライアントに返せる理由文字列として扱う。
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
