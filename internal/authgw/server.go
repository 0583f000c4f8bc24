package authgw

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/nao1215/genogate/internal/config"
	"github.com/nao1215/genogate/pkg/forward"
	"github.com/nao1215/genogate/pkg/middleware"
	"github.com/nao1215/genogate/pkg/token"
)

// Server は認証・ゲートウェイサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// db はSQLiteデータベース接続。
	db *sql.DB
	// store はユーザー・ロールの永続化層。
	store *userStore
	// codec はJWTトークンの生成・検証を行う。
	codec *token.Codec
	// clinical は臨床マイクロサービスへの転送クライアント。
	clinical *forward.Client
	// genomic はゲノムマイクロサービスへの転送クライアント。
	genomic *forward.Client
}

// NewServer は新しい認証・ゲートウェイサーバーを生成する。
// SQLiteデータベースの初期化とスキーマ適用、署名鍵の導出を行う。
func NewServer(cfg *config.Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(sqlDB); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	codec, err := token.New(cfg.JWTSecret, cfg.TokenLifetime())
	if err != nil {
		return nil, fmt.Errorf("トークンCodecの初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))
	router.Use(middleware.Authenticate(codec))

	s := &Server{
		router:   router,
		port:     cfg.Port,
		db:       sqlDB,
		store:    newUserStore(sqlDB),
		codec:    codec,
		clinical: forward.New(cfg.ClinicalServiceURL),
		genomic:  forward.New(cfg.GenomicServiceURL),
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証エンドポイント（認証不要）
	auth := s.router.Group("/auth")
	{
		auth.POST("/login", s.handleLogin())
		auth.POST("/register", s.handleRegister())
	}

	// 死活監視エンドポイント（認証不要）
	s.router.GET("/health", s.handleHealth())
	s.router.GET("/status", s.handleStatus())

	// ゲートウェイルート。認証ミドルウェア自体はfail-openのため、
	// ロール要求はルート側で行う。
	gw := s.router.Group("/gateway")
	gw.Use(middleware.RequireAuthority("ROLE_USER"))
	{
		s.setupClinicalRoutes(gw.Group("/clinical"))
		s.setupGenomicRoutes(gw.Group("/genomica"))
	}
}
