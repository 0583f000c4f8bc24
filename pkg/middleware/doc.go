// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// Bearerトークンの検証とPrincipalの設定（fail-open設計）、ルート単位の
// 権限ガード、パニックリカバリ、CORS設定を含む。認証の失敗はここでは
// リクエストの拒否にならず、匿名リクエストとして扱われる。
package middleware
