// 認証・ゲートウェイサービスのエントリポイント。
// ログイン・登録とJWT発行、臨床・ゲノムマイクロサービスへの転送を担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"log"

	"github.com/nao1215/genogate/internal/authgw"
	"github.com/nao1215/genogate/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := authgw.NewServer(cfg)
	if err != nil {
		log.Fatalf("認証ゲートウェイサーバーの初期化に失敗: %v", err)
	}

	log.Printf("認証ゲートウェイサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("認証ゲートウェイサービスの起動に失敗: %v", err)
	}
}
