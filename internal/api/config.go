package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrMissingJWTSecret はトークン署名用のシークレットが設定されていない場合のエラー。
var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY is not set")

// Config は環境変数から読み込むサーバー設定。
type Config struct {
	// Port はサーバーのリッスンポート。
	Port string
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string
	// JWTSecret はトークン署名用の秘密鍵。
	JWTSecret string
	// JWTExpiresIn はトークンの有効期間。0の場合は有効期限を設定しない。
	JWTExpiresIn time.Duration
	// CORSOrigins はクロスオリジンリクエストを許可するオリジン。
	CORSOrigins []string
	// AdminEmail は起動時に作成する管理者のメールアドレス。
	AdminEmail string
	// AdminPassword は起動時に作成する管理者のパスワード。
	AdminPassword string
}

// LoadConfig は環境変数から設定を読み込む。
// JWT_SECRET_KEY が無い場合はErrMissingJWTSecretを返す。
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:          getEnvOr(getenv, "PORT", "4000"),
		DBPath:        getEnvOr(getenv, "DB_PATH", "/data/coursebooking.db"),
		JWTSecret:     getenv("JWT_SECRET_KEY"),
		CORSOrigins:   splitOrigins(getEnvOr(getenv, "CORS_ORIGINS", "http://localhost:4001")),
		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if v := getenv("JWT_EXPIRES_IN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("JWT_EXPIRES_IN の形式が不正: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("JWT_EXPIRES_IN は0以上である必要があります: %s", v)
		}
		cfg.JWTExpiresIn = d
	}

	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_EMAIL と ADMIN_PASSWORD は両方設定する必要があります")
	}
	return cfg, nil
}

// getEnvOr は環境変数の値を返す。未設定の場合はデフォルト値を返す。
func getEnvOr(getenv func(string) string, key, defaultValue string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// splitOrigins はカンマ区切りのオリジン一覧を分割する。空要素は無視する。
func splitOrigins(s string) []string {
	var origins []string
	for o := range strings.SplitSeq(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
