package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/genogate/pkg/token"
)

// contextKeyPrincipal はGinコンテキストにPrincipalを格納するためのキー。
const contextKeyPrincipal = "principal"

// authorityPrefix はロール名から権限名を導出する際のプレフィックス。
const authorityPrefix = "ROLE_"

// bearerScheme はAuthorizationヘッダーのスキーム（大文字小文字を区別し、
// スペースは1つ）。
const bearerScheme = "Bearer "

// Principal は認証済みリクエストの主体。
// リクエスト処理の間だけ存在し、リクエストをまたいで共有されない。
// 生のパスワードや資格情報は一切保持しない。
type Principal struct {
	// Subject はトークンのサブジェクト（ユーザー名）。
	Subject string
	// Authorities はロール名にROLE_プレフィックスを付与した権限名の一覧。
	Authorities []string
}

// HasAuthority は指定した権限を保持しているかを返す。
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Authenticate はBearerトークンを検証してPrincipalを設定するGinミドルウェアを返す。
//
// このミドルウェアはリクエストを拒否しない（fail-open設計）。
// Authorizationヘッダーがない場合やBearer形式でない場合は何もせず、
// トークン検証に失敗した場合はコンテキストを明示的にクリアして、
// いずれも匿名リクエストとして後続処理に進める。
// ロールによる許可・拒否は各ルートの設定（RequireAuthority）が担う。
func Authenticate(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerScheme) {
			c.Next()
			return
		}

		claims, err := codec.Parse(strings.TrimPrefix(header, bearerScheme))
		if err != nil {
			// 失敗時は前段の値が残らないよう明示的にクリアする
			clearPrincipal(c)
			c.Next()
			return
		}

		c.Set(contextKeyPrincipal, &Principal{
			Subject:     claims.Subject,
			Authorities: toAuthorities(claims.Roles),
		})
		c.Next()
	}
}

// toAuthorities はロール名一覧を権限名一覧に変換する。
// すでにROLE_プレフィックスを持つロール名はそのまま使う（冪等変換）。
// rolesがnilでも空リストを返す。
func toAuthorities(roles []string) []string {
	authorities := make([]string, 0, len(roles))
	for _, r := range roles {
		if strings.HasPrefix(r, authorityPrefix) {
			authorities = append(authorities, r)
			continue
		}
		authorities = append(authorities, authorityPrefix+r)
	}
	return authorities
}

// clearPrincipal はコンテキストからPrincipalを取り除く。
func clearPrincipal(c *gin.Context) {
	c.Set(contextKeyPrincipal, nil)
}

// GetPrincipal はGinコンテキストからPrincipalを取得する。
// Authenticateミドルウェアが事前に適用されている必要がある。
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(contextKeyPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// RequireAuthority は指定した権限を持つPrincipalを要求するGinミドルウェアを返す。
// Principalが未設定の場合は401、権限を持たない場合は403で中断する。
func RequireAuthority(authority string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "認証が必要です",
			})
			return
		}
		if !p.HasAuthority(authority) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "この操作に必要な権限がありません",
			})
			return
		}
		c.Next()
	}
}
