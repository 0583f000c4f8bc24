package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークン検証の失敗を表す。
// 署名不一致・形式不正・有効期限切れのいずれも同じエラーに畳み込む。
// 呼び出し側が失敗理由を区別できると攻撃者へのオラクルになるため、
// 内部ログ以外では原因を露出しない。
var ErrInvalidToken = errors.New("トークンが無効です")

// minKeyLen はHMAC-SHA-256に必要な署名鍵の最小バイト長。
const minKeyLen = 32

// base64Pattern は設定文字列がbase64アルファベットのみで構成されているか判定する。
var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+$`)

// Claims はトークンのペイロード。
// sub（ユーザー名）に加えてロール名の順序付きリストを持つ。
type Claims struct {
	jwt.RegisteredClaims
	// Roles はトークン発行時点でユーザーに割り当てられていたロール名。
	// nullにはならない（ロールなしの場合は空リスト）。
	Roles []string `json:"roles"`
}

// Codec はJWTトークンの生成と検証を行う。
// 署名鍵と有効期間はプロセス起動時に確定し、以降不変。
type Codec struct {
	// key はHMAC-SHA-256の署名鍵。
	key []byte
	// lifetime はトークンの有効期間。
	lifetime time.Duration
	// now は現在時刻の取得関数。テストで差し替える。
	now func() time.Time
}

// New は設定文字列から署名鍵を導出してCodecを生成する。
// 設定文字列がbase64アルファベットのみで構成され、かつbase64として
// デコードできる場合はデコード結果を鍵とし、それ以外は文字列の
// 生バイトをそのまま鍵として使用する。鍵が32バイト未満の場合はエラー。
func New(secret string, lifetime time.Duration) (*Codec, error) {
	key := deriveKey(secret)
	if len(key) < minKeyLen {
		return nil, fmt.Errorf("署名鍵が短すぎます: %dバイト（最低%dバイト必要）", len(key), minKeyLen)
	}
	return &Codec{
		key:      key,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// deriveKey は設定文字列から署名鍵のバイト列を導出する。
func deriveKey(secret string) []byte {
	if base64Pattern.MatchString(secret) {
		if raw, err := base64.StdEncoding.DecodeString(secret); err == nil {
			return raw
		}
	}
	return []byte(secret)
}

// Generate はサブジェクトとロール一覧を持つ署名済みトークンを発行する。
// rolesがnilの場合は空リストとして埋め込む（rolesクレームは常に存在する）。
func (c *Codec) Generate(subject string, roles []string) (string, error) {
	if roles == nil {
		roles = []string{}
	}

	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Parse はトークンを検証してクレームを返す。
// 先頭の "Bearer " プレフィックスは取り除く。署名検証と有効期限の
// 確認はまとめて行い、どちらが失敗してもErrInvalidTokenを返す。
func (c *Codec) Parse(tokenText string) (*Claims, error) {
	tokenText = strings.TrimPrefix(tokenText, "Bearer ")

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenText, claims,
		func(_ *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("検証に失敗")
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
