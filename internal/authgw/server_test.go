package authgw

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/nao1215/genogate/pkg/forward"
	"github.com/nao1215/genogate/pkg/middleware"
	"github.com/nao1215/genogate/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testJWTSecret はテスト用のJWT署名シークレット。
const testJWTSecret = "test-signing-secret-for-authgw_0123456789"

// newTestDB はテスト用のインメモリSQLiteデータベースを生成する。
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("インメモリDB接続に失敗: %v", err)
	}
	// インメモリDBはコネクションごとに別実体になるため1本に固定する
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := initSchema(sqlDB); err != nil {
		t.Fatalf("スキーマ初期化に失敗: %v", err)
	}
	return sqlDB
}

// newTestCodec はテスト用のトークンCodecを生成する。
func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()

	codec, err := token.New(testJWTSecret, 30*time.Minute)
	if err != nil {
		t.Fatalf("Codecの生成に失敗: %v", err)
	}
	return codec
}

// newTestServer はテスト用の認証ゲートウェイサーバーを生成する。
// インメモリSQLiteを使用し、下流サービスURLには到達不能なダミー値を設定する。
func newTestServer(t *testing.T) *Server {
	t.Helper()

	return newTestServerWithURLs(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
}

// newTestServerWithBackend はモック下流サービスを持つテスト用サーバーを生成する。
// backendHandlerで指定したハンドラが臨床・ゲノム両サービスとして応答する。
func newTestServerWithBackend(t *testing.T, backendHandler http.HandlerFunc) (*Server, *httptest.Server) {
	t.Helper()

	backend := httptest.NewServer(backendHandler)
	t.Cleanup(backend.Close)

	return newTestServerWithURLs(t, backend.URL, backend.URL), backend
}

// newTestServerWithURLs は下流URLを指定したテスト用サーバーを生成する。
func newTestServerWithURLs(t *testing.T, clinicalURL, genomicURL string) *Server {
	t.Helper()

	sqlDB := newTestDB(t)
	codec := newTestCodec(t)

	router := gin.New()
	router.Use(middleware.Authenticate(codec))

	s := &Server{
		router:   router,
		port:     "0",
		db:       sqlDB,
		store:    newUserStore(sqlDB),
		codec:    codec,
		clinical: forward.New(clinicalURL),
		genomic:  forward.New(genomicURL),
	}
	s.setupRoutes()

	return s
}

// generateTestJWT はテスト用のJWTトークンを生成する。
func generateTestJWT(t *testing.T, s *Server, subject string, roles []string) string {
	t.Helper()

	tokenStr, err := s.codec.Generate(subject, roles)
	if err != nil {
		t.Fatalf("テスト用JWT生成に失敗: %v", err)
	}
	return tokenStr
}

// seedUser はテスト用のユーザーレコードをDBに挿入する。
// パスワードはbcryptでハッシュ化し、USERロールを割り当てる。
func seedUser(t *testing.T, s *Server, username, email, password string) {
	t.Helper()

	seedUserWithActive(t, s, username, email, password, true)
}

// seedUserWithActive はactiveフラグを指定してテスト用ユーザーを挿入する。
func seedUserWithActive(t *testing.T, s *Server, username, email, password string, active bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("テスト用パスワードのハッシュ化に失敗: %v", err)
	}

	ctx := context.Background()
	role, err := s.store.FindRoleByName(ctx, "USER")
	if err != nil {
		t.Fatalf("テスト用ロールの取得に失敗: %v", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Active:       active,
		Roles:        []string{role.Name},
	}
	if err := s.store.CreateUser(ctx, user, []int64{role.ID}); err != nil {
		t.Fatalf("テスト用ユーザー挿入に失敗: %v", err)
	}
}
