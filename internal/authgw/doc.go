// Package authgw は認証・ゲートウェイサービスの内部実装を提供する。
//
// ユーザーのログイン・登録とJWT発行、認証済みリクエストの臨床・ゲノム
// マイクロサービスへの転送を担当する。外部からアクセス可能な唯一の
// サービスであり、セキュリティの境界線として機能する。下流の障害は
// 常に502の統一エンベロープに変換され、内部の例外詳細を漏らさない。
package authgw
