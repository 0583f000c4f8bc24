// Package forward は下流マイクロサービスへのHTTP転送クライアントを提供する。
//
// ゲートウェイはペイロードのスキーマを解釈せず、ボディを不透明な
// バイト列として転送する。リトライやバックオフは行わず、失敗は
// 常に単一のCallErrorへ変換される。
package forward
