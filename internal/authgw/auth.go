package authgw

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// defaultRoleName は自己登録時に割り当てるデフォルトロール名。
// このロールが存在しない場合、登録はサーバー設定不備として失敗する
// （自動作成はしない）。
const defaultRoleName = "USER"

// authRequest はログイン・登録リクエストのJSON構造。
type authRequest struct {
	// Username はユーザー名。
	Username string `json:"username"`
	// Email はメールアドレス。
	Email string `json:"email"`
	// Password は平文パスワード。保存・ログ出力はしない。
	Password string `json:"password"`
}

// validate は入力フィールドを検証する。
// 最初に失敗したフィールドのメッセージを返す（集約しない）。
func (r *authRequest) validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("ユーザー名は必須です")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("メールアドレスは必須です")
	}
	if strings.TrimSpace(r.Password) == "" {
		return errors.New("パスワードは必須です")
	}
	return nil
}

// authResponse は認証成功時のレスポンスJSON構造。
type authResponse struct {
	// AccessToken は発行されたJWTトークン。
	AccessToken string `json:"access_token"`
	// TokenType はトークンの種別。常に "Bearer"。
	TokenType string `json:"token_type"`
	// Roles はユーザーのロール名一覧。
	Roles []string `json:"roles"`
}

// handleLogin はログインを処理するハンドラを返す。
// ユーザー名・メールアドレス・パスワードの3点が揃って初めて成功する。
// パスワード照合の失敗理由は単一のカテゴリでのみ返し、内部の診断情報を
// クライアントに漏らさない。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}
		if err := req.validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := s.store.FindByUsername(c.Request.Context(), req.Username)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
			return
		}
		if err != nil {
			log.Printf("ユーザー検索エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			return
		}

		// 大文字小文字を区別した完全一致
		if req.Email != user.Email {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスが登録内容と一致しません"})
			return
		}

		if !user.Active {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "認証情報が正しくありません"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			// 失敗理由の詳細は内部ログに留める
			log.Printf("パスワード照合に失敗: username=%s", user.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "認証情報が正しくありません"})
			return
		}

		tokenStr, err := s.codec.Generate(user.Username, user.Roles)
		if err != nil {
			log.Printf("トークン生成エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, authResponse{
			AccessToken: tokenStr,
			TokenType:   "Bearer",
			Roles:       user.Roles,
		})
	}
}

// handleRegister はユーザー登録を処理するハンドラを返す。
// デフォルトロールUSERを割り当てた新規ユーザーを作成し、ログインと
// 同じ形式でトークンを発行する。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}
		if err := req.validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		if _, err := s.store.FindByUsername(ctx, req.Username); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "このユーザー名は既に使用されています"})
			return
		} else if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("ユーザー検索エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの取得に失敗しました"})
			return
		}

		role, err := s.store.FindRoleByName(ctx, defaultRoleName)
		if errors.Is(err, sql.ErrNoRows) {
			// クライアント起因ではなくサーバーのプロビジョニング不備
			log.Printf("デフォルトロール%sが存在しません", defaultRoleName)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "デフォルトロールが設定されていません"})
			return
		}
		if err != nil {
			log.Printf("ロール検索エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ロールの取得に失敗しました"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("パスワードハッシュ化エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの作成に失敗しました"})
			return
		}

		user := &User{
			ID:           uuid.New().String(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			Active:       true,
			Roles:        []string{role.Name},
		}
		if err := s.store.CreateUser(ctx, user, []int64{role.ID}); err != nil {
			log.Printf("ユーザー作成エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザーの作成に失敗しました"})
			return
		}

		tokenStr, err := s.codec.Generate(user.Username, user.Roles)
		if err != nil {
			log.Printf("トークン生成エラー: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			return
		}

		c.JSON(http.StatusCreated, authResponse{
			AccessToken: tokenStr,
			TokenType:   "Bearer",
			Roles:       user.Roles,
		})
	}
}
