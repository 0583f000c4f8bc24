// Package token はHMAC-SHA-256で署名されたJWTの生成と検証を提供する。
//
// トークンはサブジェクト（ユーザー名）とロール一覧を持ち、サーバー側に
// セッション状態を残さない。トークン自体がセッションの全てであり、
// 失効リストによる取り消しは行わない。
package token
