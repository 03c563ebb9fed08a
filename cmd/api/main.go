// コース予約APIのエントリポイント。
// ユーザー認証、コース管理、受講登録のHTTPエンドポイントを提供する。
// JWT_SECRET_KEY が設定されていない場合は起動しない。
package main

import (
	"log"

	"github.com/nao1215/coursebooking/internal/api"
)

func main() {
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("コース予約サーバーの初期化に失敗: %v", err)
	}
	defer server.Close()

	log.Printf("コース予約APIを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("コース予約APIの起動に失敗: %v", err)
	}
}
