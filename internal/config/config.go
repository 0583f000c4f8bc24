// Package config は認証ゲートウェイのプロセス起動時設定を提供する。
// 環境変数（および存在すれば.envファイル）から読み込み、起動後は不変。
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config は認証ゲートウェイの全設定項目。
// 全てプロセス起動時に確定し、実行中に変更されることはない。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string `env:"PORT" envDefault:"8080"`

	// JWTSecret はトークン署名鍵の元になる文字列。
	// base64アルファベットのみで構成されていればデコードして鍵とする。
	JWTSecret string `env:"JWT_SECRET"`

	// JWTExpMinutes はトークンの有効期間（分）。
	JWTExpMinutes int `env:"JWT_EXP_MIN" envDefault:"60"`

	// ClinicalServiceURL は臨床マイクロサービスのベースURL。
	ClinicalServiceURL string `env:"CLINICAL_SERVICE_URL" envDefault:"http://localhost:8081"`

	// GenomicServiceURL はゲノムマイクロサービスのベースURL。
	GenomicServiceURL string `env:"GENOMIC_SERVICE_URL" envDefault:"http://localhost:8082"`

	// DBPath はユーザーストア用SQLiteデータベースのパス。
	DBPath string `env:"DB_PATH" envDefault:"/data/authgw.db"`

	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// TokenLifetime はトークンの有効期間をtime.Durationで返す。
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWTExpMinutes) * time.Minute
}

// Load は環境変数から設定を読み込む。
// .envファイルが存在すれば先に読み込む（なくてもエラーにしない）。
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("環境変数の解析に失敗: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRETが設定されていません")
	}
	if cfg.JWTExpMinutes <= 0 {
		return nil, fmt.Errorf("JWT_EXP_MINは正の値が必要: %d", cfg.JWTExpMinutes)
	}
	return cfg, nil
}
